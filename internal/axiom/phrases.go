package axiom

import (
	"regexp"
	"strings"
)

// phraseSet matches lowercase phrases on word boundaries
type phraseSet struct {
	phrases []string
	res     []*regexp.Regexp
}

func newPhraseSet(phrases ...string) *phraseSet {
	ps := &phraseSet{phrases: phrases, res: make([]*regexp.Regexp, len(phrases))}
	for i, p := range phrases {
		ps.res[i] = regexp.MustCompile(boundaryPattern(p))
	}
	return ps
}

// boundaryPattern anchors a phrase with \b on any end that is a word character
func boundaryPattern(phrase string) string {
	pattern := regexp.QuoteMeta(phrase)
	if phrase != "" && isWordByte(phrase[0]) {
		pattern = `\b` + pattern
	}
	if phrase != "" && isWordByte(phrase[len(phrase)-1]) {
		pattern += `\b`
	}
	return pattern
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// first returns the first phrase (in declaration order) found in text
func (ps *phraseSet) first(text string) (string, bool) {
	for i, re := range ps.res {
		if re.MatchString(text) {
			return ps.phrases[i], true
		}
	}
	return "", false
}

func (ps *phraseSet) any(text string) bool {
	_, ok := ps.first(text)
	return ok
}

// pair is two phrases that must not co-occur
type pair struct {
	a, b *regexp.Regexp
	raw  [2]string
}

func newPairs(raw ...[2]string) []pair {
	pairs := make([]pair, len(raw))
	for i, p := range raw {
		pairs[i] = pair{
			a:   regexp.MustCompile(boundaryPattern(p[0])),
			b:   regexp.MustCompile(boundaryPattern(p[1])),
			raw: p,
		}
	}
	return pairs
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

// normalize lowercases text and folds typographic apostrophes
func normalize(text string) string {
	return apostrophes.Replace(strings.ToLower(text))
}
