// Package numerator provides the PostgreSQL implementation of document
// auto-numbering. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"transtock/internal/core/agency"
	corenumerator "transtock/internal/core/numerator"
)

// Querier is the single-row query surface the numerator needs.
// Satisfied by pgx.Tx, pgxpool.Pool and the transaction manager, so the
// allocation runs inside the caller's transaction when one is active.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates gap-free sequential numbers per (series, agency, year).
type Service struct {
	querier Querier
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// NextNumber allocates the next counter with a single atomic
// upsert-increment and returns the formatted number.
//
// The first allocation for a scope inserts the counter row at 1; every
// later allocation increments it under the row lock the UPDATE takes.
// Called inside a ledger transaction, the increment commits or rolls
// back with the movement, which keeps the sequence gap-free.
func (s *Service) NextNumber(ctx context.Context, series corenumerator.Series, ag agency.Code, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if !ag.Valid() {
		return "", fmt.Errorf("unknown agency %q", ag)
	}

	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (series, agency, year, current_val)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (series, agency, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, string(series), string(ag), period.Year()).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s/%s: %w", series, ag, err)
	}

	return corenumerator.Format(corenumerator.ConfigFor(series), ag, period, num), nil
}
