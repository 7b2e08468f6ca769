package oracle

import (
	"strings"
	"testing"

	"github.com/avigneault/chargeaudit/model"
)

const sampleBail = `BAIL COMMERCIAL

ARTICLE 7. CHARGES
Le preneur prendra à sa charge le nettoyage des parties communes,
la consommation d'eau, l'entretien des espaces verts ainsi que la
taxe foncière afférente à l'immeuble.

ARTICLE 8. DUREE
Le présent bail est conclu pour neuf années entières.`

func TestExtractCategoriesLocally(t *testing.T) {
	categories := ExtractCategoriesLocally(sampleBail)
	if len(categories) == 0 {
		t.Fatal("expected categories from charge clause")
	}

	byName := make(map[string]model.RefacturableCategory)
	for _, c := range categories {
		byName[c.Category] = c
	}

	for _, want := range []string{"Nettoyage", "Eau", "Espaces verts", "Taxe foncière"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("missing category %q in %+v", want, categories)
		}
	}
	if got := byName["Nettoyage"].Certainty; got != model.ConfidenceMedium {
		t.Errorf("certitude = %q, want moyenne", got)
	}
	if basis := byName["Nettoyage"].LegalBasis; !strings.HasPrefix(basis, "ARTICLE") {
		t.Errorf("legal basis = %q, want an article reference", basis)
	}
}

func TestExtractCategoriesLocallyNoDuplicates(t *testing.T) {
	text := "ARTICLE 3 CHARGES LOCATIVES nettoyage, nettoyage et encore nettoyage à la charge du preneur."
	categories := ExtractCategoriesLocally(text)

	count := 0
	for _, c := range categories {
		if c.Category == "Nettoyage" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Nettoyage appears %d times, want 1", count)
	}
}

func TestExtractCategoriesLocallyCommercialDefault(t *testing.T) {
	categories := ExtractCategoriesLocally("BAIL COMMERCIAL conclu entre les parties, sans clause particulière.")

	if len(categories) != 3 {
		t.Fatalf("expected the default trio, got %+v", categories)
	}
	for _, c := range categories {
		if c.Certainty != model.ConfidenceLow {
			t.Errorf("default category %q certitude = %q, want faible", c.Category, c.Certainty)
		}
	}
}

func TestExtractCategoriesLocallyEmpty(t *testing.T) {
	if got := ExtractCategoriesLocally("Contrat de prestation sans rapport."); len(got) != 0 {
		t.Errorf("expected no categories, got %+v", got)
	}
}
