package oracle

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/avigneault/chargeaudit/model"
)

// certaintyAliases maps the spellings generators actually produce onto the
// canonical confidence values.
var certaintyAliases = map[string]model.Confidence{
	"élevée":  model.ConfidenceHigh,
	"elevee":  model.ConfidenceHigh,
	"haute":   model.ConfidenceHigh,
	"high":    model.ConfidenceHigh,
	"moyenne": model.ConfidenceMedium,
	"medium":  model.ConfidenceMedium,
	"faible":  model.ConfidenceLow,
	"basse":   model.ConfidenceLow,
	"low":     model.ConfidenceLow,
}

// stripFences removes a surrounding markdown code fence, which generators
// add despite instructions not to.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// entryList finds the list of entries in a generator response. A bare JSON
// array is used directly. For a wrapped object, array-valued keys whose
// name contains "charge" are preferred; failing that, the first
// array-valued key wins.
func entryList(raw string) []gjson.Result {
	cleaned := stripFences(raw)
	if !gjson.Valid(cleaned) {
		return nil
	}

	parsed := gjson.Parse(cleaned)
	if parsed.IsArray() {
		return parsed.Array()
	}
	if !parsed.IsObject() {
		return nil
	}

	var fallback []gjson.Result
	var found []gjson.Result
	parsed.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		if strings.Contains(strings.ToLower(key.String()), "charge") {
			found = value.Array()
			return false
		}
		if fallback == nil {
			fallback = value.Array()
		}
		return true
	})
	if found != nil {
		return found
	}
	return fallback
}

// ParseChargeRecords validates a generator response against the expected
// charge shape. Entries missing a description are discarded; string
// amounts are repaired when they parse as a number, other malformed
// amounts discard the entry.
func ParseChargeRecords(raw string) []model.ChargeRecord {
	var records []model.ChargeRecord
	for _, entry := range entryList(raw) {
		if !entry.IsObject() {
			continue
		}

		desc := strings.TrimSpace(entry.Get("poste").String())
		if desc == "" {
			desc = strings.TrimSpace(entry.Get("description").String())
		}
		if desc == "" {
			continue
		}

		amount, ok := numericAmount(entry.Get("montant"))
		if !ok {
			amount, ok = numericAmount(entry.Get("amount"))
		}
		if !ok {
			continue
		}

		records = append(records, model.ChargeRecord{Description: desc, Amount: amount})
	}
	return records
}

// numericAmount accepts JSON numbers directly and repairs numeric strings,
// including French decimal commas and stray currency symbols.
func numericAmount(value gjson.Result) (float64, bool) {
	switch value.Type {
	case gjson.Number:
		return value.Float(), true
	case gjson.String:
		s := strings.TrimSpace(value.String())
		s = strings.TrimSuffix(s, "€")
		s = strings.TrimSuffix(s, "EUR")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseCategories validates a generator response against the expected
// refacturable-category shape. Entries without a usable label are
// discarded; unknown certainty spellings degrade to low.
func ParseCategories(raw string) []model.RefacturableCategory {
	var categories []model.RefacturableCategory
	for _, entry := range entryList(raw) {
		if !entry.IsObject() {
			continue
		}

		cat := model.RefacturableCategory{
			Category:    strings.TrimSpace(entry.Get("categorie").String()),
			Description: strings.TrimSpace(entry.Get("description").String()),
			LegalBasis:  strings.TrimSpace(entry.Get("base_legale").String()),
			Certainty:   parseCertainty(entry.Get("certitude").String()),
		}
		if cat.Label() == "" {
			continue
		}
		categories = append(categories, cat)
	}
	return categories
}

func parseCertainty(raw string) model.Confidence {
	if c, ok := certaintyAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return model.ConfidenceLow
}
