package assemble

import (
	"testing"

	"github.com/avigneault/chargeaudit/model"
)

func row(cells ...string) model.RawTableRow {
	return model.RawTableRow(cells)
}

func TestAssembleHeaderedTable(t *testing.T) {
	a := NewAssembler()
	records := a.Assemble([]model.RawTableRow{
		row("Poste", "Montant"),
		row("TOTAL", "500"),
		row("Gardiennage", "1 500,00"),
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	if records[0].Description != "Gardiennage" {
		t.Errorf("description = %q, want %q", records[0].Description, "Gardiennage")
	}
	if records[0].Amount != 1500.0 {
		t.Errorf("amount = %v, want 1500.0", records[0].Amount)
	}
}

func TestAssembleSkipsEmptyAndUnparsableRows(t *testing.T) {
	a := NewAssembler()
	records := a.Assemble([]model.RawTableRow{
		row("Désignation", "Montant HT"),
		row("", ""),
		row("Nettoyage", "n/a"),
		row("Eau froide", "320,50"),
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	if records[0].Description != "Eau froide" || records[0].Amount != 320.5 {
		t.Errorf("got %+v", records[0])
	}
}

func TestAssembleUnrecognizedHeaderFallsBackToColumnHeuristics(t *testing.T) {
	a := NewAssembler()
	records := a.Assemble([]model.RawTableRow{
		row("col_0", "col_1"),
		row("Entretien ascenseur", "410,00"),
		row("Espaces verts", "120,00"),
		row("Sous-total", "530,00"),
	})

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Description != "Entretien ascenseur" || records[0].Amount != 410.0 {
		t.Errorf("got %+v", records[0])
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	a := NewAssembler()
	if got := a.Assemble(nil); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
	if got := a.Assemble([]model.RawTableRow{}); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1 500,00", 1500.0, true},
		{"1500.00", 1500.0, true},
		{"320,5", 320.5, true},
		{"500", 500.0, true},
		{"1 234,56 €", 1234.56, true},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
