package articles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/core/types"
)

type fakeRepo struct {
	items map[id.ID]*Article
}

func (r *fakeRepo) Create(ctx context.Context, a *Article) error {
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, articleID id.ID) (*Article, error) {
	a, ok := r.items[articleID]
	if !ok {
		return nil, apperror.NewNotFound("article", articleID.String())
	}
	return a, nil
}

func (r *fakeRepo) GetByIDForUpdate(ctx context.Context, articleID id.ID) (*Article, error) {
	return r.GetByID(ctx, articleID)
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Article, error) {
	var result []Article
	for _, a := range r.items {
		result = append(result, *a)
	}
	return result, nil
}

func (r *fakeRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	var ids []id.ID
	for aid := range r.items {
		ids = append(ids, aid)
	}
	return ids, nil
}

func (r *fakeRepo) ApplyValuation(ctx context.Context, articleID id.ID, v Valuation) error {
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCreate_StartsWithZeroStock(t *testing.T) {
	repo := &fakeRepo{items: make(map[id.ID]*Article)}
	svc := NewService(repo, passthroughTxManager{})

	art := &Article{
		Code: "PAL-EUR",
		Name: "Euro pallet",
		Unit: "pcs",
		// Whatever the caller claims, a new article has no stock.
		StockOnHand: types.MustDecimal("5"),
	}

	require.NoError(t, svc.Create(context.Background(), art))

	stored := repo.items[art.ID]
	require.NotNil(t, stored)
	assert.False(t, id.IsNil(stored.ID))
	assert.True(t, stored.StockOnHand.IsZero())
	assert.True(t, stored.WeightedAvgCost.IsZero())
	assert.True(t, stored.StockValue.IsZero())
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	repo := &fakeRepo{items: make(map[id.ID]*Article)}
	svc := NewService(repo, passthroughTxManager{})

	cases := []struct {
		name string
		art  Article
	}{
		{"missing code", Article{Name: "x", Unit: "pcs"}},
		{"missing name", Article{Code: "X", Unit: "pcs"}},
		{"missing unit", Article{Code: "X", Name: "x"}},
		{"blank code", Article{Code: "   ", Name: "x", Unit: "pcs"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			art := tc.art
			err := svc.Create(context.Background(), &art)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	assert.Empty(t, repo.items)
}
