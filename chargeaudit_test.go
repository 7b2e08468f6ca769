package chargeaudit

import (
	"context"
	"encoding/json"
	"image"
	"strings"
	"testing"

	"github.com/avigneault/chargeaudit/config"
	"github.com/avigneault/chargeaudit/model"
	"github.com/avigneault/chargeaudit/oracle"
)

func TestAnalyzeTextStatement(t *testing.T) {
	in := Input{
		StatementText: "NETTOYAGE 1200,00 €\nEAU 500,00 €",
		Categories: []model.RefacturableCategory{
			{Category: "Nettoyage"},
			{Category: "Chauffage"},
		},
	}

	result, _, err := New().WithMinRecords(2).Analyze(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalAmount != 1700 {
		t.Errorf("total = %v, want 1700", result.TotalAmount)
	}
	if len(result.Verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %+v", result.Verdicts)
	}

	byDesc := make(map[string]model.ConformityVerdict)
	for _, v := range result.Verdicts {
		byDesc[v.Description] = v
	}
	if v := byDesc["NETTOYAGE"]; v.Status != model.StatusConforme {
		t.Errorf("NETTOYAGE status = %q, want conforme", v.Status)
	}
	if v := byDesc["EAU"]; v.Status != model.StatusNonConforme {
		t.Errorf("EAU status = %q, want non conforme", v.Status)
	}
	if result.Global.ComplianceRate != 71 {
		t.Errorf("compliance rate = %d, want 71", result.Global.ComplianceRate)
	}
}

func TestAnalyzeEmptyInputKeepsSchema(t *testing.T) {
	result, warnings, err := New().Analyze(context.Background(), Input{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) == 0 {
		t.Error("expected warnings for empty input")
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, key := range []string{
		"charges_refacturables", "charges_facturees", "montant_total",
		"analyse_globale", "taux_conformite", "conformite_detail", "recommandations",
	} {
		if !strings.Contains(s, `"`+key+`"`) {
			t.Errorf("serialized result missing %q: %s", key, s)
		}
	}
	if strings.Contains(s, "null") {
		t.Errorf("serialized result contains null: %s", s)
	}
}

func TestAnalyzeFallsBackToGenerator(t *testing.T) {
	var prompted bool
	gen := oracle.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		prompted = true
		return `{"charges": [
			{"poste": "Nettoyage", "montant": 450},
			{"poste": "Eau froide", "montant": 320.5},
			{"poste": "Gardiennage", "montant": 1500}
		]}`, nil
	})

	in := Input{
		StatementText: "document illisible sans structure",
		Categories:    []model.RefacturableCategory{{Category: "Nettoyage"}},
	}
	result, _, err := New().WithGenerator(gen).Analyze(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if !prompted {
		t.Fatal("generator tier was not reached")
	}
	if len(result.Verdicts) != 3 {
		t.Fatalf("expected 3 verdicts, got %+v", result.Verdicts)
	}
	if result.TotalAmount != 2270.5 {
		t.Errorf("total = %v, want 2270.5", result.TotalAmount)
	}
}

func TestAnalyzeDerivesCategoriesFromLease(t *testing.T) {
	in := Input{
		StatementText: "NETTOYAGE DES PARTIES COMMUNES 450,00 €",
		BailText: `BAIL COMMERCIAL
ARTICLE 7. CHARGES
Le preneur prendra à sa charge le nettoyage des parties communes et la consommation d'eau.`,
	}

	result, _, err := New().WithMinRecords(1).Analyze(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Refacturables) == 0 {
		t.Fatal("expected categories derived from lease text")
	}
	if len(result.Verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %+v", result.Verdicts)
	}
	if result.Verdicts[0].Status == model.StatusNonConforme {
		t.Errorf("cleaning charge should match a derived category, got %+v", result.Verdicts[0])
	}
}

func TestAnalyzeBlankPagesDegradeGracefully(t *testing.T) {
	page := image.NewGray(image.Rect(0, 0, 300, 200))
	for i := range page.Pix {
		page.Pix[i] = 255
	}

	result, warnings, err := New().WithWorkers(1).Analyze(context.Background(), Input{
		Pages:      []image.Image{page},
		Categories: []model.RefacturableCategory{{Category: "Nettoyage"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Verdicts) != 0 {
		t.Errorf("blank page produced verdicts: %+v", result.Verdicts)
	}

	var sawFallback bool
	for _, w := range warnings {
		if w.Stage == "tables" && strings.Contains(w.Message, "whole page") {
			sawFallback = true
		}
	}
	if !sawFallback {
		t.Errorf("expected whole-page fallback warning, got %v", warnings)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New().Analyze(ctx, Input{StatementText: "NETTOYAGE 100,00"})
	if err == nil {
		t.Error("expected context error")
	}
}

func TestChainMethodsDoNotMutateReceiver(t *testing.T) {
	base := New()
	derived := base.WithMinRecords(7).WithWorkers(4)

	if base.options.minRecords != 3 {
		t.Errorf("base minRecords mutated to %d", base.options.minRecords)
	}
	if derived.options.minRecords != 7 || derived.options.workers != 4 {
		t.Errorf("derived options wrong: %+v", derived.options)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MinRecords = 5
	cfg.Workers = 2
	cfg.MinRegionAreaRatio = 0.1
	cfg.AnthropicAPIKey = "test-key"

	a := FromConfig(cfg)
	if a.options.minRecords != 5 {
		t.Errorf("minRecords = %d, want 5", a.options.minRecords)
	}
	if a.options.workers != 2 {
		t.Errorf("workers = %d, want 2", a.options.workers)
	}
	if a.options.minRegionAreaRatio != 0.1 {
		t.Errorf("minRegionAreaRatio = %f, want 0.1", a.options.minRegionAreaRatio)
	}
	if a.options.generator == nil {
		t.Error("generator should be wired when an API key is configured")
	}

	noKey := FromConfig(config.Default())
	if noKey.options.generator != nil {
		t.Error("generator should stay nil without an API key")
	}
}

func TestFormatWarnings(t *testing.T) {
	ws := []Warning{
		{Stage: "ocr", Message: "3 cells unreadable"},
		{Stage: "extract", Message: "no charge records extracted"},
	}
	got := FormatWarnings(ws)
	if !strings.Contains(got, "ocr: 3 cells unreadable") {
		t.Errorf("got %q", got)
	}
	if FormatWarnings(nil) != "" {
		t.Error("empty warnings must format to empty string")
	}
}
