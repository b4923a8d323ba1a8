package playback

import (
	"fmt"
	"strings"
)

// Person is a grammatical person used in asset names and cache keys.
type Person string

const (
	Ya       Person = "ya"         // я
	Ti       Person = "ti"         // ты
	OnOnaOno Person = "on_ona_ono" // он/она/оно
	Mi       Person = "mi"         // мы
	Vi       Person = "vi"         // вы
	Oni      Person = "oni"        // они
)

// Persons lists the six persons in conjugation table order.
var Persons = []Person{Ya, Ti, OnOnaOno, Mi, Vi, Oni}

var pronouns = map[Person]string{
	Ya:       "я",
	Ti:       "ты",
	OnOnaOno: "он/она/оно",
	Mi:       "мы",
	Vi:       "вы",
	Oni:      "они",
}

// Pronoun returns the Russian pronoun for p.
func (p Person) Pronoun() string {
	return pronouns[p]
}

// Valid reports whether p is one of the six persons.
func (p Person) Valid() bool {
	_, ok := pronouns[p]
	return ok
}

// ParsePerson accepts a person key ("ti") or its pronoun ("ты", "она").
func ParsePerson(s string) (Person, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p := Person(s); p.Valid() {
		return p, nil
	}
	for p, pron := range pronouns {
		for _, alt := range strings.Split(pron, "/") {
			if s == alt || s == pron {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("unknown person %q (want one of ya, ti, on_ona_ono, mi, vi, oni)", s)
}
