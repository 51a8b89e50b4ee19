package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations never end a sentence
var abbreviations = map[string]bool{
	"inc": true, "ltd": true, "corp": true, "co": true, "llc": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"st": true, "jr": true, "sr": true, "vs": true,
	"e.g": true, "i.e": true, "u.s": true, "u.k": true, "s.a": true, "etc": true,
}

// SplitSentences splits text into sentences. Newlines and CJK terminators always
// end a sentence; '.', '!' and '?' end one only when followed by whitespace and
// not closing a known abbreviation or a single-letter initial. Sentences shorter
// than minRunes are dropped.
func SplitSentences(text string, minRunes int) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if sentence != "" && utf8.RuneCountInString(sentence) >= minRunes {
			sentences = append(sentences, sentence)
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '\n', '\r':
			flush()
			continue
		case '。', '！', '？':
			current.WriteRune(r)
			flush()
			continue
		}

		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			atEnd := i+1 >= len(runes)
			if !atEnd && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			if r == '.' && endsWithAbbreviation(current.String()) {
				continue
			}
			flush()
		}
	}
	flush()

	return sentences
}

// endsWithAbbreviation checks the token before a trailing '.'
func endsWithAbbreviation(s string) bool {
	s = strings.TrimSuffix(s, ".")
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	word := s[idx+1:]
	if word == "" {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	return abbreviations[strings.ToLower(word)]
}
