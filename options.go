package chargeaudit

import (
	"github.com/avigneault/chargeaudit/ocr"
	"github.com/avigneault/chargeaudit/oracle"
)

// analyzeOptions holds the analyzer configuration.
type analyzeOptions struct {
	// minRecords is the acceptance threshold of the extraction strategy
	// chain: a tier yielding fewer records hands over to the next tier.
	minRecords int

	// workers bounds concurrent page processing; 0 means one per CPU.
	workers int

	// minRegionAreaRatio rejects table regions smaller than this fraction
	// of the page area.
	minRegionAreaRatio float64

	maxBailChars    int
	maxChargesChars int

	recognizer ocr.Recognizer
	generator  oracle.StructuredGenerator
}

// defaultAnalyzeOptions returns the default analyzer configuration.
func defaultAnalyzeOptions() analyzeOptions {
	return analyzeOptions{
		minRecords:         3,
		workers:            0,
		minRegionAreaRatio: 0.05,
		maxBailChars:       oracle.DefaultMaxBailChars,
		maxChargesChars:    oracle.DefaultMaxChargesChars,
	}
}

// clone creates a copy of analyzeOptions. The recognizer and generator
// are shared; everything else is by value.
func (o analyzeOptions) clone() analyzeOptions {
	return o
}
