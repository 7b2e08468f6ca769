package assemble

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avigneault/chargeaudit/model"
)

// descriptionKeywords identify the label column in a header row.
var descriptionKeywords = []string{
	"désignation", "designation", "libellé", "libelle", "desc", "poste", "label", "item",
}

// amountKeywords identify the amount column in a header row.
var amountKeywords = []string{
	"montant", "total", "ht", "ttc", "somme", "euros", "amount", "sum",
}

// totalLabels are row descriptions rejected as total/subtotal lines
// (case-insensitive exact match).
var totalLabels = map[string]struct{}{
	"total":      {},
	"sous-total": {},
	"somme":      {},
	"montant":    {},
}

var decimalPattern = regexp.MustCompile(`\d+[,.]\d+|\d+`)

// Assembler converts raw table rows into charge records.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble maps a table's rows into charge records. Row 0 is treated as a
// probable header and is always skipped; total rows, empty descriptions,
// and unparsable amounts are discarded. Duplicate descriptions are kept:
// deduplication is a matching concern, not an assembly one.
func (a *Assembler) Assemble(rows []model.RawTableRow) []model.ChargeRecord {
	if len(rows) < 2 {
		return nil
	}

	descCol, amountCol := locateColumns(rows)
	var records []model.ChargeRecord

	for _, row := range rows[1:] {
		if descCol >= len(row) || amountCol >= len(row) {
			continue
		}

		desc := strings.TrimSpace(row[descCol])
		if desc == "" {
			continue
		}
		if _, isTotal := totalLabels[strings.ToLower(desc)]; isTotal {
			continue
		}

		amount, ok := ParseAmount(row[amountCol])
		if !ok {
			continue
		}

		records = append(records, model.ChargeRecord{Description: desc, Amount: amount})
	}

	return records
}

// locateColumns finds the description and amount column indices, first by
// header keywords, then positionally: first column for the description and
// the last column whose data cells are mostly numeric for the amount.
func locateColumns(rows []model.RawTableRow) (descCol, amountCol int) {
	header := rows[0]
	descCol, amountCol = -1, -1

	for i, cell := range header {
		value := strings.ToLower(cell)
		if descCol < 0 && containsAny(value, descriptionKeywords) {
			descCol = i
			continue
		}
		if amountCol < 0 && containsAny(value, amountKeywords) {
			amountCol = i
		}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	if descCol < 0 {
		descCol = 0
	}
	if amountCol < 0 {
		// Last column where a majority of data cells hold a number.
		for col := width - 1; col > 0; col-- {
			numeric, filled := 0, 0
			for _, row := range rows[1:] {
				if col >= len(row) || strings.TrimSpace(row[col]) == "" {
					continue
				}
				filled++
				if decimalPattern.MatchString(row[col]) {
					numeric++
				}
			}
			if filled > 0 && numeric*2 > filled {
				amountCol = col
				break
			}
		}
	}
	if amountCol < 0 {
		amountCol = width - 1
	}

	return descCol, amountCol
}

func containsAny(value string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}

// ParseAmount extracts the first decimal number from a cell. Both "," and
// "." are accepted as decimal separators, and internal spaces are treated
// as thousands separators and stripped.
func ParseAmount(cell string) (float64, bool) {
	cleaned := strings.ReplaceAll(cell, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	match := decimalPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
