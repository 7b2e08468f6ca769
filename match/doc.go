// Package match scores extracted charges against permitted charge
// categories using tiered fuzzy similarity over normalized keys.
package match
