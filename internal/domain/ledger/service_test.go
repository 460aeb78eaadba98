package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transtock/internal/core/actor"
	"transtock/internal/core/agency"
	"transtock/internal/core/apperror"
	"transtock/internal/core/id"
	"transtock/internal/core/numerator"
	"transtock/internal/core/types"
	"transtock/internal/domain/articles"
)

// --- Fakes ---

type fakeArticleRepo struct {
	items     map[id.ID]*articles.Article
	applyErr  error
	lockCalls int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{items: make(map[id.ID]*articles.Article)}
}

func (r *fakeArticleRepo) Create(ctx context.Context, a *articles.Article) error {
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, articleID id.ID) (*articles.Article, error) {
	a, ok := r.items[articleID]
	if !ok {
		return nil, apperror.NewNotFound("article", articleID.String())
	}
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) GetByIDForUpdate(ctx context.Context, articleID id.ID) (*articles.Article, error) {
	r.lockCalls++
	return r.GetByID(ctx, articleID)
}

func (r *fakeArticleRepo) List(ctx context.Context, filter articles.ListFilter) ([]articles.Article, error) {
	result := make([]articles.Article, 0, len(r.items))
	for _, a := range r.items {
		result = append(result, *a)
	}
	return result, nil
}

func (r *fakeArticleRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	ids := make([]id.ID, 0, len(r.items))
	for aid := range r.items {
		ids = append(ids, aid)
	}
	return ids, nil
}

func (r *fakeArticleRepo) ApplyValuation(ctx context.Context, articleID id.ID, v articles.Valuation) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	a, ok := r.items[articleID]
	if !ok {
		return apperror.NewNotFound("article", articleID.String())
	}
	a.StockOnHand = v.Balance
	a.WeightedAvgCost = v.Cost
	a.StockValue = v.Value
	a.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeMovementRepo struct {
	movements []Movement
	insertErr error
}

func (r *fakeMovementRepo) Insert(ctx context.Context, m *Movement) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListByArticle(ctx context.Context, articleID id.ID, filter MovementFilter) ([]Movement, error) {
	var result []Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ArticleID == articleID {
			result = append(result, r.movements[i])
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) ListValidByArticleAsc(ctx context.Context, articleID id.ID) ([]Movement, error) {
	var result []Movement
	for _, m := range r.movements {
		if m.ArticleID == articleID && m.Status == StatusValid {
			result = append(result, m)
		}
	}
	return result, nil
}

// fakeTxManager snapshots both fake repos before fn and restores them if
// fn fails, mirroring the rollback of a real transaction.
type fakeTxManager struct {
	articles  *fakeArticleRepo
	movements *fakeMovementRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	articlesBefore := make(map[id.ID]*articles.Article, len(m.articles.items))
	for k, v := range m.articles.items {
		cp := *v
		articlesBefore[k] = &cp
	}
	movementsBefore := make([]Movement, len(m.movements.movements))
	copy(movementsBefore, m.movements.movements)

	if err := fn(ctx); err != nil {
		m.articles.items = articlesBefore
		m.movements.movements = movementsBefore
		return err
	}
	return nil
}

// --- Harness ---

type harness struct {
	articles  *fakeArticleRepo
	movements *fakeMovementRepo
	service   *Service
}

func newHarness() *harness {
	articleRepo := newFakeArticleRepo()
	movementRepo := &fakeMovementRepo{}
	txm := &fakeTxManager{articles: articleRepo, movements: movementRepo}
	svc := NewService(movementRepo, articleRepo, &numerator.MockGenerator{}, txm, nil)
	return &harness{
		articles:  articleRepo,
		movements: movementRepo,
		service:   svc,
	}
}

func (h *harness) addArticle(t *testing.T, code, unit string) id.ID {
	t.Helper()
	articleID := id.New()
	h.articles.items[articleID] = &articles.Article{
		ID:              articleID,
		Code:            code,
		Name:            code,
		Unit:            unit,
		StockOnHand:     types.Zero(),
		WeightedAvgCost: types.Zero(),
		StockValue:      types.Zero(),
	}
	return articleID
}

func (h *harness) article(t *testing.T, articleID id.ID) *articles.Article {
	t.Helper()
	a, ok := h.articles.items[articleID]
	require.True(t, ok)
	return a
}

func dec(s string) types.Money {
	return types.MustDecimal(s)
}

// --- Entry tests ---

func TestRecordEntry_FirstEntry(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	movement, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID,
		Quantity:  dec("10"),
		UnitPrice: dec("5"),
		Agency:    agency.Ghana,
		Reference: "PO-0001",
	})
	require.NoError(t, err)

	// First entry: the unit price becomes the cost directly.
	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.Equal(dec("10")), "stock = %s", art.StockOnHand)
	assert.True(t, art.WeightedAvgCost.Equal(dec("5")), "cost = %s", art.WeightedAvgCost)
	assert.True(t, art.StockValue.Equal(dec("50")), "value = %s", art.StockValue)

	assert.Equal(t, KindEntry, movement.Kind)
	assert.Equal(t, StatusValid, movement.Status)
	assert.True(t, movement.Quantity.Equal(dec("10")))
	assert.True(t, movement.Amount.Equal(dec("50")))
	assert.True(t, movement.CostBefore.IsZero())
	assert.True(t, movement.CostAfter.Equal(dec("5")))
	assert.True(t, movement.BalanceBefore.IsZero())
	assert.True(t, movement.BalanceAfter.Equal(dec("10")))
	assert.Equal(t, "MVT-GH-"+time.Now().UTC().Format("2006")+"-0001", movement.Number)
}

func TestRecordEntry_BlendsAverage(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("5"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	movement, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("7"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	// 10 @ 5 then 10 @ 7 blends to 20 on hand at cost 6, value 120.
	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.Equal(dec("20")), "stock = %s", art.StockOnHand)
	assert.True(t, art.WeightedAvgCost.Equal(dec("6")), "cost = %s", art.WeightedAvgCost)
	assert.True(t, art.StockValue.Equal(dec("120")), "value = %s", art.StockValue)

	assert.True(t, movement.CostBefore.Equal(dec("5")))
	assert.True(t, movement.CostAfter.Equal(dec("6")))
}

func TestRecordEntry_CostRounding(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "STRAP-PP", "m")
	ctx := context.Background()

	// 3 @ 10 then 3 @ 11: cost 63/6 = 10.5 exactly.
	// 1 @ 10 then 2 @ 10.01: cost 30.02/3 rounds at the cost scale.
	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("1"), UnitPrice: dec("10"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	_, err = h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("2"), UnitPrice: dec("10.01"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	art := h.article(t, articleID)
	// value = 10 + 20.02 = 30.02; cost = 30.02/3 = 10.006667 at scale 6
	assert.True(t, art.StockValue.Equal(dec("30.02")), "value = %s", art.StockValue)
	assert.True(t, art.WeightedAvgCost.Equal(dec("10.006667")), "cost = %s", art.WeightedAvgCost)
}

func TestRecordEntry_Validation(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	cases := []struct {
		name  string
		input EntryInput
	}{
		{"missing article", EntryInput{Quantity: dec("1"), UnitPrice: dec("1"), Agency: agency.Ghana}},
		{"zero quantity", EntryInput{ArticleID: articleID, Quantity: types.Zero(), UnitPrice: dec("1"), Agency: agency.Ghana}},
		{"negative quantity", EntryInput{ArticleID: articleID, Quantity: dec("-1"), UnitPrice: dec("1"), Agency: agency.Ghana}},
		{"negative price", EntryInput{ArticleID: articleID, Quantity: dec("1"), UnitPrice: dec("-1"), Agency: agency.Ghana}},
		{"unknown agency", EntryInput{ArticleID: articleID, Quantity: dec("1"), UnitPrice: dec("1"), Agency: agency.Code("XX")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.service.RecordEntry(ctx, tc.input)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	assert.Empty(t, h.movements.movements)
}

func TestRecordEntry_UnknownArticle(t *testing.T) {
	h := newHarness()

	_, err := h.service.RecordEntry(context.Background(), EntryInput{
		ArticleID: id.New(), Quantity: dec("1"), UnitPrice: dec("1"), Agency: agency.Ghana,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordEntry_ActorDenormalized(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")

	ctx := actor.WithActor(context.Background(), &actor.Actor{
		ID:   "u-17",
		Name: "Ama Mensah",
	})

	movement, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("5"), UnitPrice: dec("2"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	assert.Equal(t, "u-17", movement.ActorID)
	assert.Equal(t, "Ama Mensah", movement.ActorName)
}

// --- Consumption tests ---

func TestRecordConsumption_KeepsCost(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("5"), Agency: agency.Ghana,
	})
	require.NoError(t, err)
	_, err = h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("7"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	movement, err := h.service.RecordConsumption(ctx, ConsumptionInput{
		ArticleID: articleID, Quantity: dec("4"), Agency: agency.Ghana, Reference: "DOS-2025-0031",
	})
	require.NoError(t, err)

	// Issue at the current average: cost unchanged, value drops by 4 x 6.
	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.Equal(dec("16")), "stock = %s", art.StockOnHand)
	assert.True(t, art.WeightedAvgCost.Equal(dec("6")), "cost = %s", art.WeightedAvgCost)
	assert.True(t, art.StockValue.Equal(dec("96")), "value = %s", art.StockValue)

	assert.Equal(t, KindConsumption, movement.Kind)
	assert.True(t, movement.Quantity.Equal(dec("-4")), "quantity = %s", movement.Quantity)
	assert.True(t, movement.UnitPrice.Equal(dec("6")))
	assert.True(t, movement.Amount.Equal(dec("-24")), "amount = %s", movement.Amount)
	assert.True(t, movement.CostBefore.Equal(movement.CostAfter))
	assert.True(t, movement.BalanceBefore.Equal(dec("20")))
	assert.True(t, movement.BalanceAfter.Equal(dec("16")))
}

func TestRecordConsumption_ExactBalance(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "FUEL-D", "l")
	ctx := context.Background()

	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("100"), UnitPrice: dec("1.45"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	// Issuing the whole balance is allowed; stock and value return to zero.
	_, err = h.service.RecordConsumption(ctx, ConsumptionInput{
		ArticleID: articleID, Quantity: dec("100"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.IsZero())
	assert.True(t, art.StockValue.IsZero())
	// Cost survives a zero balance for the next entry's before-snapshot.
	assert.True(t, art.WeightedAvgCost.Equal(dec("1.45")))
}

func TestRecordConsumption_InsufficientStock(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "FILM-STR", "roll")
	ctx := context.Background()

	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("3"), UnitPrice: dec("14.75"), Agency: agency.CoteDIvoire,
	})
	require.NoError(t, err)

	movementsBefore := len(h.movements.movements)

	_, err = h.service.RecordConsumption(ctx, ConsumptionInput{
		ArticleID: articleID, Quantity: dec("5"), Agency: agency.CoteDIvoire,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "3", appErr.Details["available"])
	assert.Equal(t, "5", appErr.Details["requested"])
	assert.Equal(t, "roll", appErr.Details["unit"])

	// Nothing changed: no movement, valuation untouched.
	assert.Len(t, h.movements.movements, movementsBefore)
	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.Equal(dec("3")))
	assert.True(t, art.StockValue.Equal(dec("44.25")))
}

func TestRecordConsumption_RollbackOnApplyFailure(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	_, err := h.service.RecordEntry(ctx, EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("5"), Agency: agency.Ghana,
	})
	require.NoError(t, err)

	movementsBefore := len(h.movements.movements)
	h.articles.applyErr = errors.New("disk on fire")

	_, err = h.service.RecordConsumption(ctx, ConsumptionInput{
		ArticleID: articleID, Quantity: dec("2"), Agency: agency.Ghana,
	})
	require.Error(t, err)

	// The movement insert happened before the failure, the rollback must
	// take it back with the valuation.
	assert.Len(t, h.movements.movements, movementsBefore)
	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.Equal(dec("10")))
	assert.True(t, art.StockValue.Equal(dec("50")))
}

func TestRecordEntry_RollbackOnInsertFailure(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	h.movements.insertErr = errors.New("unique violation")

	_, err := h.service.RecordEntry(context.Background(), EntryInput{
		ArticleID: articleID, Quantity: dec("10"), UnitPrice: dec("5"), Agency: agency.Ghana,
	})
	require.Error(t, err)

	art := h.article(t, articleID)
	assert.True(t, art.StockOnHand.IsZero())
	assert.True(t, art.StockValue.IsZero())
}

// --- History ---

func TestGetMovements_UnknownArticle(t *testing.T) {
	h := newHarness()

	_, err := h.service.GetMovements(context.Background(), id.New(), MovementFilter{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetMovements_NewestFirst(t *testing.T) {
	h := newHarness()
	articleID := h.addArticle(t, "PAL-EUR", "pcs")
	ctx := context.Background()

	for _, price := range []string{"5", "6", "7"} {
		_, err := h.service.RecordEntry(ctx, EntryInput{
			ArticleID: articleID, Quantity: dec("1"), UnitPrice: dec(price), Agency: agency.Ghana,
		})
		require.NoError(t, err)
	}

	movements, err := h.service.GetMovements(ctx, articleID, MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.True(t, movements[0].UnitPrice.Equal(dec("7")))
	assert.True(t, movements[2].UnitPrice.Equal(dec("5")))
}
