package playback

import (
	"github.com/google/uuid"
)

// Request is one attempt to make a form audible.
type Request struct {
	ID     uuid.UUID
	Key    string
	Word   string
	Person Person
	Text   string
}

// TextFunc maps a form to the text a voice should speak.
type TextFunc func(word string, person Person) string

// WordText speaks the word itself.
func WordText(word string, _ Person) string {
	return word
}

// FixedText always speaks text.
func FixedText(text string) TextFunc {
	return func(string, Person) string { return text }
}

func newRequest(voice, word string, person Person, text TextFunc) Request {
	word = NormalizeWord(word)
	return Request{
		ID:     uuid.New(),
		Key:    Key(voice, word, person),
		Word:   word,
		Person: person,
		Text:   text(word, person),
	}
}

// textRequest is newRequest for an explicit text. When the text differs
// from what def would speak, the key carries it so the clip never shares a
// cache slot with the default form.
func textRequest(voice, word string, person Person, def TextFunc, text string) Request {
	req := newRequest(voice, word, person, FixedText(text))
	if req.Text != def(req.Word, person) {
		req.Key += "#" + NormalizeWord(text)
	}
	return req
}
