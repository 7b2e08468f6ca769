package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/avigneault/chargeaudit/model"
	"github.com/avigneault/chargeaudit/normalize"
)

// DefaultCutoff is the minimum similarity for a category to count as a
// candidate. Scores at or below it are discarded.
const DefaultCutoff = 0.3

// Matcher ranks permitted charge categories against a charge description.
type Matcher struct {
	// Cutoff discards candidates scoring at or below this value.
	Cutoff float64
}

// NewMatcher creates a matcher with the default cutoff.
func NewMatcher() *Matcher {
	return &Matcher{Cutoff: DefaultCutoff}
}

// Match scores every category against the charge description and returns
// the candidates above the cutoff, best first. The sort is stable so that
// equally scored categories keep their catalogue order.
func (m *Matcher) Match(description string, categories []model.RefacturableCategory) []model.MatchCandidate {
	key := normalize.Key(description)
	if key == "" {
		return nil
	}

	var candidates []model.MatchCandidate
	for _, cat := range categories {
		score := Similarity(key, normalize.Key(cat.Label()))
		if score <= m.Cutoff {
			continue
		}
		candidates = append(candidates, model.MatchCandidate{Category: cat, Similarity: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	return candidates
}

// Best returns the highest scoring candidate, or false when none clears
// the cutoff.
func (m *Matcher) Best(description string, categories []model.RefacturableCategory) (model.MatchCandidate, bool) {
	candidates := m.Match(description, categories)
	if len(candidates) == 0 {
		return model.MatchCandidate{}, false
	}
	return candidates[0], true
}

// Similarity scores two normalized keys in [0,1]. Identical keys score 1.
// When one key contains the other, the score is the length of their shared
// word tokens relative to the longer key. Otherwise it is the token-set
// overlap relative to the larger set. Empty keys score 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		if score, ok := containmentScore(a, b); ok {
			return score
		}
	}

	return tokenOverlap(a, b)
}

// containmentScore measures how much of the longer key is covered by the
// word tokens the two keys share. It reports false when no token is
// shared, in which case the caller falls back to token overlap.
func containmentScore(a, b string) (float64, bool) {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	common := 0
	for _, t := range tokensA {
		if _, ok := setB[t]; ok {
			common += utf8.RuneCountInString(t)
		}
	}
	if common == 0 {
		return 0, false
	}

	longer := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longer {
		longer = lb
	}
	return float64(common) / float64(longer), true
}

// tokenOverlap is |shared tokens| / max(|tokens a|, |tokens b|).
func tokenOverlap(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}

	shared := 0
	seen := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := setA[t]; ok {
			shared++
		}
	}

	larger := len(setA)
	if len(seen) > larger {
		larger = len(seen)
	}
	return float64(shared) / float64(larger)
}
