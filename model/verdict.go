package model

// Status classifies how a billed charge relates to the permitted categories.
type Status string

const (
	StatusConforme    Status = "conforme"
	StatusAVerifier   Status = "à vérifier"
	StatusNonConforme Status = "non conforme"
)

// ConformityVerdict is the per-charge classification produced by the
// conformity analysis.
type ConformityVerdict struct {
	Description       string  `json:"poste"`
	Amount            float64 `json:"montant"`
	PercentageOfTotal float64 `json:"pourcentage"`
	Status            Status  `json:"conformite"`
	Justification     string  `json:"justification"`
	Contestable       bool    `json:"contestable"`
	ContestReason     string  `json:"raison_contestation"`
}

// GlobalAnalysis summarizes conformity across all billed charges.
type GlobalAnalysis struct {
	ComplianceRate int    `json:"taux_conformite"`
	Detail         string `json:"conformite_detail"`
}

// AnalysisResult is the aggregate root of one analysis run. It is created
// once per run and must not be mutated after being returned to the caller.
// All slice fields are non-nil so the marshaled JSON never contains null
// where a list is expected.
type AnalysisResult struct {
	Refacturables   []RefacturableCategory `json:"charges_refacturables"`
	Verdicts        []ConformityVerdict    `json:"charges_facturees"`
	TotalAmount     float64                `json:"montant_total"`
	Global          GlobalAnalysis         `json:"analyse_globale"`
	Recommendations []string               `json:"recommandations"`
}

// NewAnalysisResult returns an empty result with all lists allocated.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Refacturables:   []RefacturableCategory{},
		Verdicts:        []ConformityVerdict{},
		Recommendations: []string{},
	}
}
