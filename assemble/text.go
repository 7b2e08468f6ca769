package assemble

import (
	"regexp"
	"strings"

	"github.com/avigneault/chargeaudit/model"
)

// amountExpr matches a French-formatted amount: thousands groups optionally
// separated by spaces, an optional two-digit decimal part with "," or ".".
const amountExpr = `(\d+(?:\s\d{3})*(?:[,.]\d{2})?)`

// textPatterns are the ordered "description then amount" shapes tried
// against pre-extracted statement text.
var textPatterns = []*regexp.Regexp{
	// DESCRIPTION ... AMOUNT with optional currency suffix.
	regexp.MustCompile(`([A-ZÀ-Ý][A-Za-zÀ-ÿ\s\-/&.]+)\s+` + amountExpr + `\s*(?:€|EUR)?`),
	// Tabular rows separated by pipes, tabs, or wide space runs.
	regexp.MustCompile(`([A-Za-zÀ-ÿ\s\-/&.]+)[|\t ]{2,}` + amountExpr),
	// Numbered rows: "3. DESCRIPTION ... AMOUNT".
	regexp.MustCompile(`\d+\.?\s+([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ\s\-/&.]+)\s+` + amountExpr),
}

// aggressivePattern is the last-resort scan: any short text adjacent to an
// amount, on either side. The trailing group is lazy so one match does not
// swallow the next entry's description.
var aggressivePattern = regexp.MustCompile(`([A-Za-zÀ-ÿ\s\-/&.]{3,30})?` + amountExpr + `([A-Za-zÀ-ÿ\s\-/&.]{3,30}?)?`)

// ignoreKeywords reject matches that describe totals or running balances
// rather than individual charges.
var ignoreKeywords = []string{
	"total", "sous-total", "sous total", "montant ht", "montant ttc",
	"somme", "report", "solde", "provision",
}

var (
	multiSpace    = regexp.MustCompile(`\s+`)
	commaDecimal  = regexp.MustCompile(`(\d+),(\d{2})\b`)
	spacedDecimal = regexp.MustCompile(`(\d+)\s*\.\s*(\d{2})\b`)
)

// PreprocessText normalizes statement text before the regex tiers run:
// whitespace is collapsed, currency symbols are spelled out, and decimal
// separators are unified.
func PreprocessText(text string) string {
	out := multiSpace.ReplaceAllString(text, " ")
	out = strings.ReplaceAll(out, "€", " EUR ")
	out = strings.ReplaceAll(out, "$", " USD ")
	out = commaDecimal.ReplaceAllString(out, "$1.$2")
	out = spacedDecimal.ReplaceAllString(out, "$1.$2")
	return out
}

// ExtractFromText extracts charge records from pre-extracted statement
// text, without an image. The strict patterns run first; when they find
// fewer than minRecords charges the aggressive scan supplements them.
// Duplicate descriptions are skipped and non-positive amounts rejected.
func ExtractFromText(text string, minRecords int) []model.ChargeRecord {
	var records []model.ChargeRecord
	seen := make(map[string]struct{})

	add := func(desc string, rawAmount string) {
		desc = strings.TrimSpace(desc)
		if len(desc) < 3 {
			return
		}
		lower := strings.ToLower(desc)
		for _, kw := range ignoreKeywords {
			if strings.Contains(lower, kw) {
				return
			}
		}
		amount, ok := ParseAmount(rawAmount)
		if !ok || amount <= 0 {
			return
		}
		if _, dup := seen[desc]; dup {
			return
		}
		seen[desc] = struct{}{}
		records = append(records, model.ChargeRecord{Description: desc, Amount: amount})
	}

	for _, pattern := range textPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			add(m[1], m[2])
		}
		if len(records) >= minRecords {
			break
		}
	}

	if len(records) < minRecords {
		for _, m := range aggressivePattern.FindAllStringSubmatch(text, -1) {
			before := strings.TrimSpace(m[1])
			after := strings.TrimSpace(m[3])
			desc := after
			if len(before) > len(after) {
				desc = before
			}
			amount, ok := ParseAmount(m[2])
			if !ok || amount <= 0 || amount > 1000000 {
				continue
			}
			add(desc, m[2])
		}
	}

	return records
}
