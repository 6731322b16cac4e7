package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalize composes the text to NFC, lower-cases it with Vietnamese rules and
// collapses whitespace. Callers and vocabulary go through the same function so
// that precomposed and decomposed diacritics compare equal.
func normalize(s string) string {
	lowered := cases.Lower(language.Vietnamese).String(norm.NFC.String(s))
	return strings.Join(strings.Fields(lowered), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !isWordRune(r) })
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}

// phrase is a vocabulary entry prepared for matching.
type phrase struct {
	raw    string
	joined string // space-joined words; empty for symbol-only entries such as "?"
}

func newPhrase(s string) phrase {
	n := normalize(s)
	if !hasWordRune(n) {
		return phrase{raw: n}
	}
	return phrase{raw: n, joined: strings.Join(words(n), " ")}
}

func newPhrases(list []string) []phrase {
	out := make([]phrase, 0, len(list))
	for _, s := range list {
		if p := newPhrase(s); p.raw != "" {
			out = append(out, p)
		}
	}
	return out
}

// utterance is a normalized user message.
type utterance struct {
	original string
	norm     string
	words    []string
	padded   string // " w1 w2 ... wn "
}

func newUtterance(s string) utterance {
	n := normalize(s)
	w := words(n)
	return utterance{
		original: s,
		norm:     n,
		words:    w,
		padded:   " " + strings.Join(w, " ") + " ",
	}
}

// has matches p on whole-word boundaries; symbol-only phrases match as
// substrings of the normalized text.
func (u utterance) has(p phrase) bool {
	if p.joined == "" {
		return strings.Contains(u.norm, p.raw)
	}
	return strings.Contains(u.padded, " "+p.joined+" ")
}

func (u utterance) hasAny(list []phrase) bool {
	_, ok := u.firstOf(list)
	return ok
}

func (u utterance) firstOf(list []phrase) (phrase, bool) {
	for _, p := range list {
		if u.has(p) {
			return p, true
		}
	}
	return phrase{}, false
}

// wordIndexOf returns the index of the first word of the first occurrence
// of p, or -1.
func (u utterance) wordIndexOf(p phrase) int {
	if p.joined == "" {
		return -1
	}
	target := strings.Fields(p.joined)
	for i := 0; i+len(target) <= len(u.words); i++ {
		match := true
		for j, w := range target {
			if u.words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// wordIndexAfter returns the index of the word right after the first
// occurrence of p, or -1.
func (u utterance) wordIndexAfter(p phrase) int {
	i := u.wordIndexOf(p)
	if i < 0 {
		return -1
	}
	return i + len(strings.Fields(p.joined))
}

// earliest returns the word index where the first of ps occurs, or -1.
// On a tie the longer phrase wins, so "được trả" is preferred over "trả".
func (u utterance) earliest(ps []phrase) (int, phrase) {
	at, best := -1, phrase{}
	for _, p := range ps {
		i := u.wordIndexOf(p)
		if i < 0 {
			continue
		}
		if at < 0 || i < at || (i == at && len(p.joined) > len(best.joined)) {
			at, best = i, p
		}
	}
	return at, best
}

// containsName reports whether the normalized name occurs in u on word
// boundaries.
func (u utterance) containsName(name string) bool {
	p := newPhrase(name)
	if p.raw == "" {
		return false
	}
	return u.has(p)
}

func sameName(a, b string) bool {
	return normalize(a) == normalize(b)
}
