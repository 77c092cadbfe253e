package presentation

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
)

// StartConfidence is the lowest match confidence that starts a presentation without asking
const StartConfidence = 0.85

// ConfirmConfidence is the lowest match confidence that is offered for confirmation
const ConfirmConfidence = 0.5

// Decision says what to do with a matched presentation
type Decision int

const (
	// DecisionReject means the best match is too weak to use
	DecisionReject Decision = iota

	// DecisionConfirm means the best match should be confirmed before starting
	DecisionConfirm

	// DecisionStart means the best match can be started right away
	DecisionStart
)

// Decide maps a match confidence onto a Decision
func Decide(confidence float64) Decision {

	switch {
	case confidence >= StartConfidence:
		return DecisionStart
	case confidence >= ConfirmConfidence:
		return DecisionConfirm
	}

	return DecisionReject
}

// Match finds the catalog entry whose name best matches a spoken name.  The
// result carries the spoken name and confidence alongside the presentation.
// When two entries score the same, the earlier one wins.
func Match(spokenName string, catalog []Presentation) (Notification, error) {

	const location = "presentation.Match"

	if len(catalog) == 0 {
		return Notification{}, derp.InternalError(location, "No presentations are available")
	}

	best := -1
	bestConfidence := 0.0

	for index, candidate := range catalog {

		confidence := Confidence(spokenName, candidate.Name)

		log.Trace().
			Str("location", location).
			Str("spoken", spokenName).
			Str("name", candidate.Name).
			Float64("confidence", confidence).
			Msg("Scored presentation")

		if best == -1 || confidence > bestConfidence {
			best = index
			bestConfidence = confidence
		}
	}

	match := catalog[best]

	return Notification{
		SpokenName:   spokenName,
		Confidence:   bestConfidence,
		Presentation: &match,
	}, nil
}

// Confidence scores how closely a spoken name matches a presentation name.
// It is the better of the spelling (Levenshtein) and sound (Double Metaphone)
// scores.  Both names are compared case-insensitively.
func Confidence(spokenName string, name string) float64 {

	spokenName = normalizeName(spokenName)
	name = normalizeName(name)

	return max(levenshteinConfidence(spokenName, name), metaphoneConfidence(spokenName, name))
}

// levenshteinConfidence is the share of `expected` that survives the edit
// distance to `actual`.  It can drop below zero when `actual` is much longer.
func levenshteinConfidence(actual string, expected string) float64 {

	length := utf8.RuneCountInString(expected)

	if length == 0 {
		if actual == "" {
			return 1
		}
		return 0
	}

	distance := matchr.Levenshtein(actual, expected)
	return float64(length-distance) / float64(length)
}

// metaphoneConfidence is 1 when both names sound alike, otherwise the
// Levenshtein confidence of their phonetic codes.
func metaphoneConfidence(actual string, expected string) float64 {

	actualCode := metaphone(actual)
	expectedCode := metaphone(expected)

	// Names without any codable letters do not sound like anything
	if actualCode == "" || expectedCode == "" {
		return 0
	}

	if actualCode == expectedCode {
		return 1
	}

	return levenshteinConfidence(actualCode, expectedCode)
}

// metaphone returns the primary Double Metaphone code of each word, joined
// by spaces.  matchr caps a code at four characters, so coding word by word
// keeps long names from collapsing onto the same prefix.
func metaphone(value string) string {

	words := strings.Fields(value)
	codes := make([]string, 0, len(words))

	for _, word := range words {
		if primary, _ := matchr.DoubleMetaphone(word); primary != "" {
			codes = append(codes, primary)
		}
	}

	return strings.Join(codes, " ")
}

func normalizeName(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
