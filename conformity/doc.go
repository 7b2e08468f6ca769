// Package conformity classifies billed charges against their ranked
// category candidates and aggregates per-charge verdicts into the final
// analysis result, recommendations included.
package conformity
