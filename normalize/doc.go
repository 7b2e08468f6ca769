// Package normalize reduces French charge descriptions to canonical
// comparison keys. Keys are lowercased, accent-folded, stripped of
// punctuation and of short function words, so that "Nettoyage des
// parties communes" and "NETTOYAGE PARTIES COMMUNES" compare equal.
package normalize
