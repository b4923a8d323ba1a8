package tts

// Voice is a remote voice that can be selected by ID.
type Voice struct {
	ID   string
	Name string
}

// DefaultVoiceID is the voice used when none is configured (Rachel).
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// DefaultModelID is the multilingual model, which handles Russian.
const DefaultModelID = "eleven_multilingual_v2"

// builtinVoices mirrors the voices offered by the web app.
var builtinVoices = []Voice{
	{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi"},
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni"},
	{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam"},
	{ID: "yoZ06aMxZJJ28mfd3POQ", Name: "Sam"},
	{ID: "XrExE9yKIg1WjnnlVkGX", Name: "Demo Voice"},
}

// Voices returns the built-in remote voice list.
func Voices() []Voice {
	out := make([]Voice, len(builtinVoices))
	copy(out, builtinVoices)
	return out
}

// LookupVoice finds a voice by ID or case-sensitive name.
func LookupVoice(idOrName string) (Voice, bool) {
	for _, v := range builtinVoices {
		if v.ID == idOrName || v.Name == idOrName {
			return v, true
		}
	}
	return Voice{}, false
}

// Utterance describes one request to the local synthesizer. Rate, Pitch
// and Volume use the browser speech scale: 1 is normal.
type Utterance struct {
	Text   string
	Lang   string
	Rate   float64 // 0.1 to 10
	Pitch  float64 // 0 to 2
	Volume float64 // 0 to 1
}

// FallbackUtterance returns the settings used when spoken audio has to be
// synthesized on-device: Russian, half speed.
func FallbackUtterance(text string) Utterance {
	return Utterance{
		Text:   text,
		Lang:   "ru-RU",
		Rate:   0.5,
		Pitch:  1,
		Volume: 1,
	}
}
