package model

import "strings"

// ChargeRecord is one billed line item extracted from a charge statement.
// Description is trimmed and non-empty; Amount is finite but not required
// to be positive at creation.
type ChargeRecord struct {
	Description string  `json:"poste"`
	Amount      float64 `json:"montant"`
}

// Confidence expresses how certain an upstream extractor is that a
// category is genuinely refacturable under the lease.
type Confidence string

const (
	ConfidenceHigh   Confidence = "élevée"
	ConfidenceMedium Confidence = "moyenne"
	ConfidenceLow    Confidence = "faible"
)

// RefacturableCategory is one charge type the lease permits passing through
// to the tenant. Produced upstream from the lease text (oracle or local
// heuristics); the core only consumes it.
type RefacturableCategory struct {
	Category    string     `json:"categorie"`
	Description string     `json:"description"`
	LegalBasis  string     `json:"base_legale"`
	Certainty   Confidence `json:"certitude"`
}

// Label returns the text used for matching: the category name, falling
// back to the description when the name is empty.
func (c RefacturableCategory) Label() string {
	if s := strings.TrimSpace(c.Category); s != "" {
		return s
	}
	return strings.TrimSpace(c.Description)
}

// MatchCandidate pairs a category with its similarity to one billed charge.
// Lifetime is scoped to a single matching pass.
type MatchCandidate struct {
	Category   RefacturableCategory
	Similarity float64
}
