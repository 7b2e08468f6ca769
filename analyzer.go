package chargeaudit

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/avigneault/chargeaudit/assemble"
	"github.com/avigneault/chargeaudit/conformity"
	"github.com/avigneault/chargeaudit/imageproc"
	"github.com/avigneault/chargeaudit/match"
	"github.com/avigneault/chargeaudit/model"
	"github.com/avigneault/chargeaudit/ocr"
	"github.com/avigneault/chargeaudit/oracle"
	"github.com/avigneault/chargeaudit/tables"
)

// Input bundles everything one analysis run consumes. Pages and
// StatementText are alternative sources of the billed charges; Categories
// and BailText are alternative sources of the permitted categories.
type Input struct {
	// Pages are the scanned statement pages, in order.
	Pages []image.Image

	// StatementText is pre-extracted statement text, consumed when no
	// pages are given or when page extraction yields too few records.
	StatementText string

	// Categories are the permitted charge categories, when already known.
	Categories []model.RefacturableCategory

	// BailText is the lease text categories are derived from when
	// Categories is empty.
	BailText string
}

// Analyzer reconciles billed charges against the charge categories a
// lease permits. Each configuration method returns a new Analyzer, making
// chains safe to share and reuse.
type Analyzer struct {
	options  analyzeOptions
	warnings []Warning
}

// New creates an analyzer with default options. Without a recognizer or
// generator the analyzer still runs: table cells stay empty and the text
// tiers carry the extraction.
func New() *Analyzer {
	return &Analyzer{options: defaultAnalyzeOptions()}
}

// clone creates a copy of the analyzer so chain methods never mutate the
// receiver.
func (a *Analyzer) clone() *Analyzer {
	return &Analyzer{
		options:  a.options.clone(),
		warnings: append([]Warning(nil), a.warnings...),
	}
}

// WithRecognizer sets the OCR recognizer used for table cells.
func (a *Analyzer) WithRecognizer(rec ocr.Recognizer) *Analyzer {
	na := a.clone()
	na.options.recognizer = rec
	return na
}

// WithGenerator sets the structured-JSON generator used by the oracle
// extraction tier and for category derivation.
func (a *Analyzer) WithGenerator(gen oracle.StructuredGenerator) *Analyzer {
	na := a.clone()
	na.options.generator = gen
	return na
}

// WithMinRecords sets the strategy chain acceptance threshold.
func (a *Analyzer) WithMinRecords(n int) *Analyzer {
	na := a.clone()
	if n > 0 {
		na.options.minRecords = n
	}
	return na
}

// WithWorkers bounds concurrent page processing.
func (a *Analyzer) WithWorkers(n int) *Analyzer {
	na := a.clone()
	na.options.workers = n
	return na
}

// WithMinRegionAreaRatio sets the table region noise rejection threshold.
func (a *Analyzer) WithMinRegionAreaRatio(ratio float64) *Analyzer {
	na := a.clone()
	if ratio > 0 {
		na.options.minRegionAreaRatio = ratio
	}
	return na
}

// Analyze runs the full pipeline: charge extraction through the strategy
// chain, category derivation, matching, and conformity aggregation. The
// returned result always satisfies the output schema, even when every
// extraction tier came up empty; warnings say what degraded along the way.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*model.AnalysisResult, []Warning, error) {
	warnings := append([]Warning(nil), a.warnings...)

	if err := ctx.Err(); err != nil {
		return nil, warnings, err
	}

	categories, ws := a.deriveCategories(ctx, in)
	warnings = append(warnings, ws...)

	records, ws := a.extractCharges(ctx, in)
	warnings = append(warnings, ws...)

	return a.reconcile(records, categories), warnings, nil
}

// deriveCategories resolves the permitted categories: explicit input
// first, then local lease heuristics, then the generator.
func (a *Analyzer) deriveCategories(ctx context.Context, in Input) ([]model.RefacturableCategory, []Warning) {
	if len(in.Categories) > 0 {
		return in.Categories, nil
	}
	if in.BailText == "" {
		return nil, []Warning{warningf("categories", "no categories and no lease text provided")}
	}

	if local := oracle.ExtractCategoriesLocally(in.BailText); len(local) > 0 {
		return local, nil
	}

	var warnings []Warning
	if a.options.generator != nil {
		categories, err := oracle.ExtractCategories(ctx, a.options.generator, in.BailText, a.options.maxBailChars)
		if err != nil {
			warnings = append(warnings, warningf("categories", "generator failed: %v", err))
		} else if len(categories) > 0 {
			return categories, warnings
		}
	}

	warnings = append(warnings, warningf("categories", "no refacturable categories identified in lease text"))
	return nil, warnings
}

// extractCharges runs the extraction strategy chain: table pipeline over
// pages, then text patterns, then the generator. The first tier reaching
// minRecords wins; otherwise the largest yield is kept.
func (a *Analyzer) extractCharges(ctx context.Context, in Input) ([]model.ChargeRecord, []Warning) {
	var warnings []Warning
	var best []model.ChargeRecord

	keep := func(records []model.ChargeRecord) bool {
		if len(records) > len(best) {
			best = records
		}
		return len(records) >= a.options.minRecords
	}

	if len(in.Pages) > 0 {
		records, ws := a.extractFromPages(ctx, in.Pages)
		warnings = append(warnings, ws...)
		if keep(records) {
			return records, warnings
		}
		warnings = append(warnings, warningf("extract",
			"table pipeline yielded %d records, below threshold %d", len(records), a.options.minRecords))
	}

	if in.StatementText != "" {
		text := assemble.PreprocessText(in.StatementText)
		records := assemble.ExtractFromText(text, a.options.minRecords)
		if keep(records) {
			return records, warnings
		}
		warnings = append(warnings, warningf("extract",
			"text patterns yielded %d records, below threshold %d", len(records), a.options.minRecords))

		if a.options.generator != nil {
			records, err := oracle.ExtractCharges(ctx, a.options.generator, text, a.options.maxChargesChars)
			if err != nil {
				warnings = append(warnings, warningf("extract", "generator failed: %v", err))
			} else if keep(records) {
				return records, warnings
			}
		}
	}

	if len(best) == 0 {
		warnings = append(warnings, warningf("extract", "no charge records extracted"))
	}
	return best, warnings
}

// extractFromPages processes pages through a bounded worker pool and
// reassembles the records in page order.
func (a *Analyzer) extractFromPages(ctx context.Context, pages []image.Image) ([]model.ChargeRecord, []Warning) {
	workers := a.options.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	type pageResult struct {
		records  []model.ChargeRecord
		warnings []Warning
	}
	results := make([]pageResult, len(pages))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, ws := a.extractPage(i, pages[i])
				results[i] = pageResult{records: records, warnings: ws}
			}
		}()
	}

	canceled := false
dispatch:
	for i := range pages {
		select {
		case <-ctx.Done():
			canceled = true
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var records []model.ChargeRecord
	var warnings []Warning
	for _, r := range results {
		records = append(records, r.records...)
		warnings = append(warnings, r.warnings...)
	}
	if canceled {
		warnings = append(warnings, warningf("extract", "page processing canceled: %v", ctx.Err()))
	}
	return records, warnings
}

// extractPage runs the table pipeline on one page: preprocess, region
// detection, grid resolution, cell OCR, record assembly.
func (a *Analyzer) extractPage(index int, page image.Image) ([]model.ChargeRecord, []Warning) {
	var warnings []Warning

	pre := imageproc.NewPreprocessor()
	gray, skipped := pre.Process(page)
	for _, step := range skipped {
		warnings = append(warnings, warningf("preprocess", "page %d: step %q skipped", index+1, step))
	}

	detector := tables.NewRegionDetector()
	detector.MinAreaRatio = a.options.minRegionAreaRatio
	regions, fellBack := detector.DetectOrWholePage(gray)
	if fellBack {
		warnings = append(warnings, warningf("tables", "page %d: no table region detected, using whole page", index+1))
	}

	resolver := tables.NewGridResolver()
	reader := ocr.NewCellReader(a.options.recognizer)
	assembler := assemble.NewAssembler()

	var records []model.ChargeRecord
	for _, region := range regions {
		grid := resolver.Resolve(region)
		rows, ws := readGrid(reader, region, grid)
		warnings = append(warnings, prefixPage(ws, index+1)...)
		records = append(records, assembler.Assemble(rows)...)
	}
	return records, warnings
}

// readGrid OCRs every cell of a resolved grid into raw table rows.
// Unreadable cells become empty strings and are counted once per region.
func readGrid(reader *ocr.CellReader, region model.Region, grid model.GridStructure) ([]model.RawTableRow, []Warning) {
	base := region.Image.Bounds().Min
	rows := make([]model.RawTableRow, 0, grid.RowCount())

	failures := 0
	var lastFailure error
	for r := 0; r < grid.RowCount(); r++ {
		row := make(model.RawTableRow, 0, grid.ColCount())
		for c := 0; c < grid.ColCount(); c++ {
			rect, ok := grid.CellRect(r, c)
			if !ok {
				row = append(row, "")
				continue
			}
			cell := imaging.Crop(region.Image, rect.Add(base))
			text, err := reader.ReadCell(cell)
			if err != nil {
				failures++
				lastFailure = err
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}

	var warnings []Warning
	if failures > 0 {
		warnings = append(warnings, warningf("ocr", "%d cells unreadable (last: %v)", failures, lastFailure))
	}
	return rows, warnings
}

func prefixPage(warnings []Warning, page int) []Warning {
	out := make([]Warning, len(warnings))
	for i, w := range warnings {
		out[i] = warningf(w.Stage, "page %d: %s", page, w.Message)
	}
	return out
}

// reconcile matches every extracted charge against the categories and
// aggregates the verdicts into the final result.
func (a *Analyzer) reconcile(records []model.ChargeRecord, categories []model.RefacturableCategory) *model.AnalysisResult {
	var total float64
	for _, r := range records {
		total += r.Amount
	}

	matcher := match.NewMatcher()
	classifier := conformity.NewClassifier()

	verdicts := make([]model.ConformityVerdict, 0, len(records))
	for _, r := range records {
		candidates := matcher.Match(r.Description, categories)
		verdicts = append(verdicts, classifier.Classify(r, candidates, total))
	}

	return conformity.BuildResult(categories, verdicts)
}
