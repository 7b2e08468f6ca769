package oracle

import (
	"context"
	"testing"

	"github.com/avigneault/chargeaudit/model"
)

func TestParseChargeRecordsBareList(t *testing.T) {
	records := ParseChargeRecords(`[
		{"poste": "Nettoyage", "montant": 450.0},
		{"poste": "Eau froide", "montant": 320.5}
	]`)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Description != "Nettoyage" || records[0].Amount != 450.0 {
		t.Errorf("got %+v", records[0])
	}
}

func TestParseChargeRecordsWrappedObject(t *testing.T) {
	records := ParseChargeRecords(`{
		"total": 770.5,
		"charges": [{"poste": "Gardiennage", "montant": 770.5}]
	}`)

	if len(records) != 1 || records[0].Description != "Gardiennage" {
		t.Fatalf("got %+v", records)
	}
}

func TestParseChargeRecordsStripsCodeFences(t *testing.T) {
	records := ParseChargeRecords("```json\n[{\"poste\": \"Nettoyage\", \"montant\": 100}]\n```")
	if len(records) != 1 {
		t.Fatalf("got %+v", records)
	}
}

func TestParseChargeRecordsRepairsStringAmounts(t *testing.T) {
	records := ParseChargeRecords(`[
		{"poste": "Nettoyage", "montant": "1 500,00 €"},
		{"poste": "Eau", "montant": "abc"},
		{"montant": 50}
	]`)

	if len(records) != 1 {
		t.Fatalf("expected only the repairable entry, got %+v", records)
	}
	if records[0].Amount != 1500.0 {
		t.Errorf("amount = %v, want 1500.0", records[0].Amount)
	}
}

func TestParseChargeRecordsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", "42", `{"charges": "none"}`} {
		if got := ParseChargeRecords(raw); len(got) != 0 {
			t.Errorf("ParseChargeRecords(%q) = %+v, want none", raw, got)
		}
	}
}

func TestParseCategories(t *testing.T) {
	categories := ParseCategories(`[
		{"categorie": "Nettoyage", "description": "Nettoyage des parties communes", "base_legale": "Article 7.2", "certitude": "élevée"},
		{"categorie": "Eau", "certitude": "medium"},
		{"categorie": "Taxes", "certitude": "sans doute"},
		{"description": "", "certitude": "faible"}
	]`)

	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d: %+v", len(categories), categories)
	}
	if categories[0].Certainty != model.ConfidenceHigh {
		t.Errorf("certitude = %q, want élevée", categories[0].Certainty)
	}
	if categories[1].Certainty != model.ConfidenceMedium {
		t.Errorf("english alias: got %q", categories[1].Certainty)
	}
	if categories[2].Certainty != model.ConfidenceLow {
		t.Errorf("unknown spelling must degrade to faible, got %q", categories[2].Certainty)
	}
}

func TestExtractChargesUsesGenerator(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `[{"poste": "Nettoyage", "montant": 100}]`, nil
	})

	records, err := ExtractCharges(context.Background(), gen, "NETTOYAGE 100", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %+v", records)
	}

	records, err = ExtractCharges(context.Background(), nil, "texte", 0)
	if err != nil || records != nil {
		t.Errorf("nil generator: got %+v, %v", records, err)
	}
}
