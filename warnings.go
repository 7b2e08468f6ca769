package chargeaudit

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue encountered during analysis, such
// as a skipped preprocessing step or an unreadable cell. Warnings degrade
// output quality without aborting the run.
type Warning struct {
	// Stage names the pipeline stage that produced the warning:
	// "preprocess", "tables", "ocr", "extract", "categories".
	Stage   string
	Message string
}

func (w Warning) String() string {
	return w.Stage + ": " + w.Message
}

func warningf(stage, format string, args ...any) Warning {
	return Warning{Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// FormatWarnings renders warnings as a single human-readable string,
// one per line. Returns "" for an empty list.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
