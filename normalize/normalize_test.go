package normalize

import (
	"reflect"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nettoyage des parties communes", "nettoyage parties communes"},
		{"NETTOYAGE PARTIES COMMUNES", "nettoyage parties communes"},
		{"Entretien de l'ascenseur", "entretien l ascenseur"},
		{"Taxe d'enlèvement des ordures ménagères", "taxe d enlevement ordures menageres"},
		{"Eau froide / chaude", "eau froide chaude"},
		{"Électricité", "electricite"},
		{"", ""},
		{"de la des", ""},
		{"  espaces   verts  ", "espaces verts"},
	}
	for _, tc := range tests {
		if got := Key(tc.in); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{
		"Nettoyage des parties communes",
		"Taxe d'enlèvement des ordures ménagères",
		"Gardiennage & surveillance",
		"Honoraires de gestion (forfait)",
	}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Nettoyage des parties communes")
	want := []string{"nettoyage", "parties", "communes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
	if toks := Tokens("du de la"); toks != nil {
		t.Errorf("expected nil tokens, got %v", toks)
	}
}
