package oracle

import (
	"context"
	"fmt"

	"github.com/avigneault/chargeaudit/model"
)

// StructuredGenerator produces structured JSON text from a prompt. It is
// the only capability the analysis core requires from a language model;
// callers validate the returned JSON rather than trust it.
type StructuredGenerator interface {
	GenerateStructuredJSON(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the StructuredGenerator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// GenerateStructuredJSON calls f.
func (f GeneratorFunc) GenerateStructuredJSON(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ExtractCharges asks the generator for billed charge line items and
// validates the response. A nil generator yields no records and no error.
func ExtractCharges(ctx context.Context, gen StructuredGenerator, statementText string, maxChars int) ([]model.ChargeRecord, error) {
	if gen == nil {
		return nil, nil
	}
	raw, err := gen.GenerateStructuredJSON(ctx, ChargesPrompt(statementText, maxChars))
	if err != nil {
		return nil, fmt.Errorf("charge extraction: %w", err)
	}
	return ParseChargeRecords(raw), nil
}

// ExtractCategories asks the generator for the lease's refacturable
// categories and validates the response.
func ExtractCategories(ctx context.Context, gen StructuredGenerator, bailText string, maxChars int) ([]model.RefacturableCategory, error) {
	if gen == nil {
		return nil, nil
	}
	raw, err := gen.GenerateStructuredJSON(ctx, CategoriesPrompt(bailText, maxChars))
	if err != nil {
		return nil, fmt.Errorf("category extraction: %w", err)
	}
	return ParseCategories(raw), nil
}
