// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"context"
	"sync"
	"time"

	"transtock/internal/core/agency"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextNumberFunc func(ctx context.Context, series Series, ag agency.Code, period time.Time) (string, error)

	mu      sync.Mutex
	counter int64
}

// NextNumber implements Generator.
// Without NextNumberFunc it counts up from 1 and formats with the
// series' real configuration.
func (m *MockGenerator) NextNumber(ctx context.Context, series Series, ag agency.Code, period time.Time) (string, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx, series, ag, period)
	}
	m.mu.Lock()
	m.counter++
	n := m.counter
	m.mu.Unlock()
	return Format(ConfigFor(series), ag, period, n), nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
