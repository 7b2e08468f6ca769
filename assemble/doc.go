// Package assemble turns raw extraction output into charge records.
//
// [Assembler] maps OCR'd table rows into {description, amount} records:
// the description and amount columns are identified from the header row by
// keyword, with a positional heuristic as fallback, and header rows,
// total rows, and rows without a parsable amount are discarded.
//
// The package also carries the text-mode tiers used when no image is
// available: [ExtractFromText] applies a cascade of regular-expression
// patterns over pre-extracted statement text, from strict
// "description then amount" shapes down to an aggressive last-resort
// scan.
package assemble
