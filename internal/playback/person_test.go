package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePerson(t *testing.T) {
	tests := []struct {
		in   string
		want Person
	}{
		{"ya", Ya},
		{"TI", Ti},
		{"on_ona_ono", OnOnaOno},
		{"я", Ya},
		{"она", OnOnaOno},
		{"оно", OnOnaOno},
		{"он/она/оно", OnOnaOno},
		{" мы ", Mi},
		{"вы", Vi},
		{"они", Oni},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePerson(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePerson("ja")
	assert.Error(t, err)
}

func TestPersons(t *testing.T) {
	require.Len(t, Persons, 6)
	for _, p := range Persons {
		assert.True(t, p.Valid())
		assert.NotEmpty(t, p.Pronoun())
	}
	assert.False(t, Person("nobody").Valid())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "rachel:читать_ya", Key("rachel", " читать ", Ya))
	assert.Equal(t, Key("v", "мойка", Mi), Key("v", "мои\u0306ка", Mi))
	assert.NotEqual(t, Key("a", "читать", Mi), Key("b", "читать", Mi))
	assert.Equal(t, "читать_oni", AssetName("читать", Oni))
}

func TestNewRequest(t *testing.T) {
	a := newRequest("v", "читать", Ti, WordText)
	b := newRequest("v", "читать", Ti, FixedText("ты читаешь"))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Key, b.Key)
	assert.Equal(t, "читать", a.Text)
	assert.Equal(t, "ты читаешь", b.Text)
}
