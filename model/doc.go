// Package model provides the intermediate representation for extracted
// charge data and conformity analysis results.
//
// This package defines the user-facing data structures that every stage of
// the pipeline produces or consumes, making them the primary API for
// consuming analysis output.
//
// # Charge Data
//
// A [ChargeRecord] is one billed line item (label + amount) extracted from a
// charge statement. A [RefacturableCategory] is one charge type the lease
// permits passing through to the tenant, produced upstream from the lease
// text.
//
// # Table Structure
//
// During image extraction, intermediate structure flows through:
//
//   - [Region] - a rectangular area of a page likely to contain a table
//   - [GridStructure] - resolved row/column boundaries within a region
//   - [RawTableRow] - the OCR'd cell texts of one table row, left to right
//
// # Analysis Output
//
// [AnalysisResult] is the aggregate root returned by an analysis run. It
// holds one [ConformityVerdict] per billed charge plus global statistics,
// and marshals to the fixed JSON shape consumed by downstream reporting:
//
//	{
//	  "charges_refacturables": [...],
//	  "charges_facturees": [...],
//	  "montant_total": 1700.0,
//	  "analyse_globale": {"taux_conformite": 71, "conformite_detail": "..."},
//	  "recommandations": ["..."]
//	}
package model
