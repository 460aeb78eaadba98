package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transtock/internal/core/agency"
	corenumerator "transtock/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the upsert-increment: one counter per
// (series, agency, year) key, guarded by a mutex like the row lock.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	failWith error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return &mockRow{err: m.failWith}
	}

	key := fmt.Sprintf("%v:%v:%v", args[0], args[1], args[2])
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestNextNumber_Format(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	period := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, period)
	require.NoError(t, err)
	assert.Equal(t, "MVT-GH-2025-0001", num)

	num, err = svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, period)
	require.NoError(t, err)
	assert.Equal(t, "MVT-GH-2025-0002", num)
}

func TestNextNumber_IndependentScopes(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	y2025 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	y2026 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Each agency carries its own counter.
	numGH, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, y2025)
	require.NoError(t, err)
	numCI, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.CoteDIvoire, y2025)
	require.NoError(t, err)
	numBF, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.BurkinaFaso, y2025)
	require.NoError(t, err)

	assert.Equal(t, "MVT-GH-2025-0001", numGH)
	assert.Equal(t, "MVT-CI-2025-0001", numCI)
	assert.Equal(t, "MVT-BF-2025-0001", numBF)

	// A new year restarts the counter without touching the old one.
	num, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, y2026)
	require.NoError(t, err)
	assert.Equal(t, "MVT-GH-2026-0001", num)

	num, err = svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, y2025)
	require.NoError(t, err)
	assert.Equal(t, "MVT-GH-2025-0002", num)
}

func TestNextNumber_PadWidthOverflow(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// The counter does not wrap past the pad width.
	key := "MOVEMENT:GH:2025"
	q.counters[key] = 9999

	num, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, period)
	require.NoError(t, err)
	assert.Equal(t, "MVT-GH-2025-10000", num)
}

func TestNextNumber_ConcurrentUnique(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	const goroutines = 50

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.NextNumber(ctx, corenumerator.SeriesMovement, agency.Ghana, period)
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[num], "duplicate number %s", num)
			seen[num] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines)
}

func TestNextNumber_InvalidAgency(t *testing.T) {
	svc := New(newMockQuerier())

	_, err := svc.NextNumber(context.Background(), corenumerator.SeriesMovement, agency.Code("XX"), time.Now())
	assert.Error(t, err)
}

func TestNextNumber_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.failWith = fmt.Errorf("connection reset")
	svc := New(q)

	_, err := svc.NextNumber(context.Background(), corenumerator.SeriesMovement, agency.Ghana, time.Now())
	assert.ErrorContains(t, err, "connection reset")
}
