// Package chargeaudit extracts itemized charge line items from scanned
// lease charge statements and reconciles them against the charge
// categories the lease permits passing through to the tenant.
//
// Basic usage:
//
//	result, warnings, err := chargeaudit.New().Analyze(ctx, chargeaudit.Input{
//	    StatementText: statement,
//	    BailText:      lease,
//	})
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println(chargeaudit.FormatWarnings(warnings))
//	}
//
// With scanned pages and OCR (build with -tags ocr):
//
//	client, err := ocr.NewCellClient("fra")
//	result, warnings, err := chargeaudit.New().
//	    WithRecognizer(client).
//	    Analyze(ctx, chargeaudit.Input{Pages: pages, BailText: lease})
//
// The result marshals to the JSON shape consumed by report renderers:
// charges_refacturables, charges_facturees, montant_total,
// analyse_globale, recommandations.
package chargeaudit

import (
	"github.com/avigneault/chargeaudit/config"
	"github.com/avigneault/chargeaudit/ocr"
	"github.com/avigneault/chargeaudit/oracle"
)

// FromConfig creates an analyzer from loaded configuration. A generator
// is wired up when an API key is configured, and an OCR client in the
// configured language when OCR support is compiled in (-tags ocr);
// without it, page extraction degrades to the text and generator tiers.
// The OCR client lives for the analyzer's lifetime.
func FromConfig(cfg config.Config) *Analyzer {
	a := New()
	a.options.minRecords = cfg.MinRecords
	if a.options.minRecords <= 0 {
		a.options.minRecords = defaultAnalyzeOptions().minRecords
	}
	a.options.workers = cfg.Workers
	if cfg.MinRegionAreaRatio > 0 {
		a.options.minRegionAreaRatio = cfg.MinRegionAreaRatio
	}
	if cfg.MaxBailChars > 0 {
		a.options.maxBailChars = cfg.MaxBailChars
	}
	if cfg.MaxChargesChars > 0 {
		a.options.maxChargesChars = cfg.MaxChargesChars
	}
	if cfg.AnthropicAPIKey != "" {
		a.options.generator = oracle.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.Model, cfg.FallbackModel)
	}
	if client, err := ocr.NewCellClient(cfg.OCRLanguage); err == nil {
		a.options.recognizer = client
	}
	return a
}

// Must is a helper that wraps a call returning (T, error) and panics on
// error. Intended for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a call to Analyze, panicking on error and discarding
// warnings.
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
