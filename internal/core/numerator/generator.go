// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
	"time"

	"transtock/internal/core/agency"
)

// Generator mints sequential document numbers.
// This is the domain contract - implementations live in infrastructure layer.
type Generator interface {
	// NextNumber allocates the next counter for (series, agency, year of
	// period) and returns the formatted number, e.g. MVT-GH-2025-0007.
	//
	// Allocation is a single atomic upsert-increment in storage: no two
	// callers ever receive the same counter for the same scope, and a
	// rollback of the enclosing transaction releases the number without
	// leaving a gap.
	NextNumber(ctx context.Context, series Series, ag agency.Code, period time.Time) (string, error)
}
