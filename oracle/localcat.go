package oracle

import (
	"regexp"
	"strings"

	"github.com/avigneault/chargeaudit/model"
)

// categoryRule recognizes one commonly refacturable charge category in
// lease clause text.
type categoryRule struct {
	pattern     *regexp.Regexp
	category    string
	description string
}

var categoryRules = []categoryRule{
	{regexp.MustCompile(`(?i)nettoyage`), "Nettoyage", "Frais de nettoyage"},
	{regexp.MustCompile(`(?i)d[ée]chet`), "Déchets", "Enlèvement des déchets"},
	{regexp.MustCompile(`(?i)espaces?\s+verts?`), "Espaces verts", "Entretien des espaces verts"},
	{regexp.MustCompile(`(?i)[ée]lectricit[ée]`), "Électricité", "Électricité des parties communes"},
	{regexp.MustCompile(`(?i)eau`), "Eau", "Consommation d'eau"},
	{regexp.MustCompile(`(?i)chauffage`), "Chauffage", "Chauffage collectif"},
	{regexp.MustCompile(`(?i)ascenseur`), "Ascenseurs", "Entretien des ascenseurs"},
	{regexp.MustCompile(`(?i)surveillance|gardiennage|s[ée]curit[ée]`), "Sécurité & Surveillance", "Frais de surveillance et sécurité"},
	{regexp.MustCompile(`(?i)assurance`), "Assurances", "Primes d'assurance"},
	{regexp.MustCompile(`(?i)imp[ôo]ts?|taxe`), "Impôts & Taxes", "Taxes et impôts locaux"},
	{regexp.MustCompile(`(?i)foncier`), "Taxe foncière", "Taxe foncière"},
	{regexp.MustCompile(`(?i)taxe\s+bureaux`), "Taxe bureaux", "Taxe sur les bureaux"},
	{regexp.MustCompile(`(?i)gestion|administration`), "Frais de gestion", "Frais de gestion administrative"},
	{regexp.MustCompile(`(?i)maintenance`), "Maintenance", "Maintenance technique"},
	{regexp.MustCompile(`(?i)r[ée]paration`), "Réparations", "Réparations courantes"},
}

// sectionPatterns locate whole lease sections dedicated to charges.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:ARTICLE|ART\.?)[\s0-9.]*(?:CHARGES|REPARTITION DES CHARGES).*?(?:(?:ARTICLE|ART\.)|$)`),
	regexp.MustCompile(`(?is)CHARGES LOCATIVES.*?(?:(?:ARTICLE|ART\.)|$)`),
	regexp.MustCompile(`(?is)(?:Le preneur|Le locataire)[\s\S]{0,50}(?:prendra à sa charge|supportera|remboursera)[\s\S]{0,500}`),
}

// sentencePatterns catch isolated charge sentences when no dedicated
// section exists.
var sentencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:Le preneur|Le locataire)[\s\S]{0,50}(?:prendra à sa charge|supportera|remboursera)[\s\S]{0,200}?(?:\.|$)`),
	regexp.MustCompile(`(?is)(?:charges|dépenses)[\s\S]{0,50}(?:du preneur|du locataire|refacturable)[\s\S]{0,200}?(?:\.|$)`),
	regexp.MustCompile(`(?is)(?:seront à la charge)[\s\S]{0,50}(?:du preneur|du locataire)[\s\S]{0,200}?(?:\.|$)`),
}

var articleRef = regexp.MustCompile(`(?:ARTICLE|ART\.?)[\s0-9.]+`)

// defaultLegalBasis is used when no article reference surrounds a match.
const defaultLegalBasis = "Mentionné dans le bail"

// ExtractCategoriesLocally derives permitted charge categories from lease
// text with regex heuristics alone. Matches inside charge clauses get
// medium confidence; when nothing matches but the text announces a
// commercial lease, a default trio is returned at low confidence.
func ExtractCategoriesLocally(bailText string) []model.RefacturableCategory {
	clauses := chargeClauses(bailText)

	var categories []model.RefacturableCategory
	seen := make(map[string]struct{})
	for _, rule := range categoryRules {
		loc := rule.pattern.FindStringIndex(clauses)
		if loc == nil {
			continue
		}
		if _, dup := seen[rule.category]; dup {
			continue
		}
		seen[rule.category] = struct{}{}

		categories = append(categories, model.RefacturableCategory{
			Category:    rule.category,
			Description: rule.description,
			LegalBasis:  legalBasisAround(clauses, loc),
			Certainty:   model.ConfidenceMedium,
		})
	}

	if len(categories) == 0 && strings.Contains(strings.ToUpper(bailText), "BAIL COMMERCIAL") {
		categories = []model.RefacturableCategory{
			{Category: "Entretien immeuble", Description: "Frais d'entretien de l'immeuble", LegalBasis: "Usage commercial", Certainty: model.ConfidenceLow},
			{Category: "Nettoyage", Description: "Nettoyage des parties communes", LegalBasis: "Usage commercial", Certainty: model.ConfidenceLow},
			{Category: "Taxes", Description: "Impôts et taxes", LegalBasis: "Usage commercial", Certainty: model.ConfidenceLow},
		}
	}

	return categories
}

// chargeClauses collects the lease fragments that talk about charges,
// first as whole sections, then as single sentences when no section
// matched.
func chargeClauses(bailText string) string {
	var clauses []string
	for _, pattern := range sectionPatterns {
		clauses = append(clauses, pattern.FindAllString(bailText, -1)...)
	}
	if len(clauses) == 0 {
		for _, pattern := range sentencePatterns {
			clauses = append(clauses, pattern.FindAllString(bailText, -1)...)
		}
	}
	return strings.Join(clauses, "\n")
}

// legalBasisAround looks for an article reference within 100 characters of
// the category match.
func legalBasisAround(text string, loc []int) string {
	start := max(0, loc[0]-100)
	end := min(len(text), loc[1]+100)
	if ref := articleRef.FindString(text[start:end]); ref != "" {
		return strings.TrimSpace(ref)
	}
	return defaultLegalBasis
}
