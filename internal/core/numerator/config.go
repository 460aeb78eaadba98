// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"time"

	"transtock/internal/core/agency"
)

// Series is a named numbering scheme, scoped per agency and year.
type Series string

const (
	// SeriesMovement numbers stock movements (prefix MVT).
	SeriesMovement Series = "MOVEMENT"
)

// Config holds numbering configuration for a series.
type Config struct {
	// Prefix added to all numbers (e.g. "MVT")
	Prefix string

	// PadWidth is the minimum counter width (default 4)
	PadWidth int
}

// ConfigFor returns the numbering configuration for a series.
func ConfigFor(series Series) Config {
	switch series {
	case SeriesMovement:
		return Config{Prefix: "MVT", PadWidth: 4}
	default:
		return Config{Prefix: string(series), PadWidth: 4}
	}
}

// Format renders the final document number.
// Pattern: PREFIX-AGENCY-YEAR-XXXX (e.g. MVT-GH-2025-0007).
func Format(cfg Config, ag agency.Code, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}
	return fmt.Sprintf("%s-%s-%s-%0*d", cfg.Prefix, ag, period.Format("2006"), padWidth, num)
}
