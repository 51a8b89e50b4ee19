package axiom

import (
	"regexp"
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
)

var (
	properNounPattern = regexp.MustCompile(
		`(?:[A-Z][\w&'-]*\s+){0,3}\b(?:Inc\.|Ltd\.|Corp\.|LLC|Co\.|GmbH|S\.A\.|University|Institute|Foundation|Agency|President|CEO|Minister|Director)`)
	yearPattern      = regexp.MustCompile(`\b(?:1[5-9]|20)\d{2}\b`)
	bigNumberPattern = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+\b|\b\d{4,}\b`)
	percentPattern   = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	magnitudePattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:billion|million|trillion|thousand|hundred)\b`)
)

// DetectEntities finds the specifics in a claim that make it checkable:
// named organizations or office holders, years and sizeable numbers.
func DetectEntities(claim string) model.Entities {
	var ents model.Entities

	for _, m := range properNounPattern.FindAllString(claim, -1) {
		ents.ProperNouns = appendUnique(ents.ProperNouns, strings.TrimSpace(m))
	}
	for _, m := range yearPattern.FindAllString(claim, -1) {
		ents.Dates = appendUnique(ents.Dates, m)
	}
	for _, re := range []*regexp.Regexp{percentPattern, magnitudePattern, bigNumberPattern} {
		for _, m := range re.FindAllString(claim, -1) {
			if yearPattern.MatchString(m) && len(m) == 4 {
				continue
			}
			ents.Numbers = appendUnique(ents.Numbers, m)
		}
	}

	return ents
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
