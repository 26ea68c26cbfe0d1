// Package matcher resolves free-text form labels to logical fields.
//
// Form authors name their questions however they like ("Adresse e-mail",
// "Your EMAIL", "E-mail (pro)"). Each logical field is configured with an
// ordered list of candidate labels, most preferred first, and every label of
// a submission is scored against every candidate. The best scoring label
// with a non-empty value wins.
package matcher

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"formrelay/internal/models"
	"formrelay/pkg/utils"
)

// Score tiers. The priority of the candidate is added to each, and the
// substring tier subtracts the match position.
const (
	ScoreExact      = 1000
	ScoreCompact    = 900
	ScorePrefix     = 500
	ScoreSuffix     = 400
	ScoreSubstring  = 200
	ScoreNoMatch    = 0
	noMatchPosition = -1
)

// Result is the best candidate found for one logical field.
// A zero Score with an empty Value means nothing matched.
type Result struct {
	Value      string `json:"value"`
	Score      int    `json:"score"`
	MatchedKey string `json:"matchedKey,omitempty"`
	SearchTerm string `json:"searchTerm,omitempty"`
}

// Found reports whether the result carries a usable match.
func (r Result) Found() bool {
	return r.Score > ScoreNoMatch && r.Value != ""
}

// Match returns the best result for candidates over data.
//
// Candidates are visited in order (outer) and labels in insertion order
// (inner). A pair replaces the current best only with a strictly greater
// score, so the first pair seen wins ties.
func Match(data *models.Fields, candidates []string) Result {
	best := Result{}

	for i, candidate := range candidates {
		priority := len(candidates) - i
		folded := fold(candidate)

		data.Each(func(key, value string) {
			best = better(best, Result{
				Value:      value,
				Score:      score(fold(key), folded, priority),
				MatchedKey: key,
				SearchTerm: candidate,
			})
		})
	}

	return best
}

// MatchAll returns, for every label of data, its best result against candidates.
// Labels that match nothing are reported with a zero score.
func MatchAll(data *models.Fields, candidates []string) []Result {
	results := make([]Result, 0, data.Len())

	data.Each(func(key, value string) {
		best := Result{MatchedKey: key, Value: value}
		foldedKey := fold(key)

		for i, candidate := range candidates {
			s := score(foldedKey, fold(candidate), len(candidates)-i)
			if s > best.Score {
				best.Score = s
				best.SearchTerm = candidate
			}
		}

		results = append(results, best)
	})

	return results
}

// Score compares a single label against a candidate of the given priority.
func Score(key, candidate string, priority int) int {
	return score(fold(key), fold(candidate), priority)
}

func better(current, next Result) Result {
	if next.Value != "" && next.Score > current.Score {
		return next
	}

	return current
}

func score(key, candidate string, priority int) int {
	if strings.TrimSpace(candidate) == "" {
		return ScoreNoMatch
	}

	switch {
	case key == candidate:
		return ScoreExact + priority
	case utils.CollapseWhitespace(key) == utils.CollapseWhitespace(candidate):
		return ScoreCompact + priority
	case strings.HasPrefix(key, candidate):
		return ScorePrefix + priority
	case strings.HasSuffix(key, candidate):
		return ScoreSuffix + priority
	}

	pos := position(key, candidate)
	if pos == noMatchPosition {
		return ScoreNoMatch
	}

	if s := ScoreSubstring + priority - pos; s > ScoreNoMatch {
		return s
	}

	return ScoreNoMatch
}

// position returns the rune index of candidate within key.
func position(key, candidate string) int {
	idx := strings.Index(key, candidate)
	if idx < 0 {
		return noMatchPosition
	}

	return utf8.RuneCountInString(key[:idx])
}

// fold prepares a label for case-insensitive comparison. NFC first so that
// composed and decomposed accents compare equal.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
