package conformity

import (
	"fmt"
	"math"

	"github.com/avigneault/chargeaudit/model"
)

// Similarity thresholds separating the verdict tiers. Boundaries are
// exclusive on the upper side: a best similarity of exactly 0.8 is
// "à vérifier", not "conforme".
const (
	ConformeThreshold = 0.8
	VerifierThreshold = 0.5
)

// lowComplianceRate is the global rate below which the standing
// recommendation to request a detailed charge breakdown is emitted.
const lowComplianceRate = 70

// significantShare is the percentage-of-total above which a contestable
// charge gets its own recommendation line.
const significantShare = 5.0

// Classifier turns one charge and its ranked candidates into a verdict.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify evaluates one billed charge against its ranked match
// candidates. total is the sum of all billed amounts and feeds the
// percentage; a zero total yields a zero percentage.
func (c *Classifier) Classify(charge model.ChargeRecord, candidates []model.MatchCandidate, total float64) model.ConformityVerdict {
	verdict := model.ConformityVerdict{
		Description: charge.Description,
		Amount:      charge.Amount,
	}
	if total > 0 {
		verdict.PercentageOfTotal = charge.Amount / total * 100
	}

	if len(candidates) == 0 {
		verdict.Status = model.StatusNonConforme
		verdict.Justification = "Aucune charge correspondante trouvée dans le bail"
		verdict.Contestable = true
		verdict.ContestReason = "Charge non prévue explicitement dans le bail"
		return verdict
	}

	best := candidates[0]
	category := best.Category.Label()

	switch {
	case best.Similarity > ConformeThreshold:
		verdict.Status = model.StatusConforme
		verdict.Justification = fmt.Sprintf("Correspondance directe avec la charge refacturable '%s'", category)
	case best.Similarity > VerifierThreshold:
		verdict.Status = model.StatusAVerifier
		verdict.Justification = fmt.Sprintf("Correspondance partielle avec la charge refacturable '%s'", category)
		verdict.ContestReason = "Vérifier si la charge entre bien dans cette catégorie"
	default:
		verdict.Status = model.StatusAVerifier
		verdict.Justification = fmt.Sprintf("Correspondance faible avec la charge refacturable '%s'", category)
		verdict.Contestable = true
		verdict.ContestReason = "Correspondance insuffisante avec les charges prévues dans le bail"
	}
	return verdict
}

// BuildResult assembles the aggregate analysis from the per-charge
// verdicts: total, global compliance rate, summary text, and the
// recommendation list.
func BuildResult(categories []model.RefacturableCategory, verdicts []model.ConformityVerdict) *model.AnalysisResult {
	result := model.NewAnalysisResult()
	if categories != nil {
		result.Refacturables = categories
	}
	if verdicts != nil {
		result.Verdicts = verdicts
	}

	var total, conforme float64
	var contestables []model.ConformityVerdict
	for _, v := range verdicts {
		total += v.Amount
		if v.Status == model.StatusConforme {
			conforme += v.Amount
		}
		if v.Contestable {
			contestables = append(contestables, v)
		}
	}
	result.TotalAmount = total

	rate := 0.0
	if total > 0 {
		rate = conforme / total * 100
	}
	result.Global.ComplianceRate = int(math.Round(rate))

	var contestableSum float64
	for _, v := range contestables {
		contestableSum += v.Amount
	}
	result.Global.Detail = fmt.Sprintf(
		"Sur un total de %.2f€ de charges facturées, %.2f€ (%d%%) sont clairement conformes au bail. "+
			"%d charges représentant %.2f€ sont potentiellement contestables.",
		total, conforme, result.Global.ComplianceRate, len(contestables), contestableSum)

	if len(contestables) > 0 {
		share := 0.0
		if total > 0 {
			share = contestableSum / total * 100
		}
		result.Recommendations = append(result.Recommendations, fmt.Sprintf(
			"Vérifier ou contester les %d charges potentiellement non conformes, représentant %.2f€ (%.1f%% du total).",
			len(contestables), contestableSum, share))

		for _, v := range contestables {
			if v.PercentageOfTotal > significantShare {
				result.Recommendations = append(result.Recommendations, fmt.Sprintf(
					"Examiner spécifiquement la charge '%s' (%.2f€) : %s",
					v.Description, v.Amount, v.ContestReason))
			}
		}
	}

	if result.Global.ComplianceRate < lowComplianceRate {
		result.Recommendations = append(result.Recommendations,
			"Demander au bailleur une justification détaillée de la répartition des charges, "+
				"car le taux de conformité global est inférieur à 70%.")
	}

	return result
}
