package cart

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

type stubStore struct {
	mu         sync.Mutex
	nextID     int64
	lines      map[int64]models.CartLine
	fetchErr   error
	insertErr  error
	failDelete map[int64]error
	deletes    []int64
}

func newStubStore() *stubStore {
	return &stubStore{lines: map[int64]models.CartLine{}, failDelete: map[int64]error{}}
}

func (s *stubStore) Fetch(_ context.Context, owner string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []models.CartLine
	for id := int64(1); id <= s.nextID; id++ {
		if line, ok := s.lines[id]; ok && line.Owner == owner {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *stubStore) Insert(_ context.Context, line models.CartLine) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return models.CartLine{}, s.insertErr
	}
	s.nextID++
	line.LineID = s.nextID
	s.lines[line.LineID] = line
	return line, nil
}

func (s *stubStore) Delete(_ context.Context, owner string, lineID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, lineID)
	if err := s.failDelete[lineID]; err != nil {
		return err
	}
	if line, ok := s.lines[lineID]; ok && line.Owner == owner {
		delete(s.lines, lineID)
	}
	return nil
}

type stubMatcher struct {
	coupons map[string]models.Coupon
	err     error
}

func (m *stubMatcher) Match(_ context.Context, code string) (*models.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	if coupon, ok := m.coupons[code]; ok {
		return &coupon, nil
	}
	return nil, nil
}

func newTestService(t *testing.T, store *stubStore, matcher *stubMatcher) Service {
	t.Helper()
	if matcher == nil {
		matcher = &stubMatcher{}
	}
	svc, err := NewService(ServiceParams{
		Store:   store,
		Coupons: matcher,
		Logger:  logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidatesDeps(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})

	_, err := NewService(ServiceParams{Coupons: &stubMatcher{}, Logger: logg})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Store: newStubStore(), Logger: logg})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Store: newStubStore(), Coupons: &stubMatcher{}})
	assert.Error(t, err)
}

func TestAddOrUpdateInsertsNewLine(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	line, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{
		ItemName:  "Soup",
		ImageRef:  "img/soup.png",
		UnitPrice: 500,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), line.TotalPrice)
	assert.Equal(t, 2, line.Quantity)
	assert.NotZero(t, line.LineID)
}

func TestAddOrUpdateMergesExistingLine(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	first, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 2})
	require.NoError(t, err)

	merged, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, merged.Quantity)
	assert.Equal(t, int64(2500), merged.TotalPrice)
	// The merge deletes the old row and inserts a replacement.
	assert.NotEqual(t, first.LineID, merged.LineID)

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddOrUpdateMatchIsCaseSensitive(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "soup", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddOrUpdateScopesToOwner(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddOrUpdate(ctx, "owner-2", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 4})
	require.NoError(t, err)

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddOrUpdateValidation(t *testing.T) {
	svc := newTestService(t, newStubStore(), nil)
	ctx := context.Background()

	_, err := svc.AddOrUpdate(ctx, "", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "  ", UnitPrice: 500, Quantity: 1})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 0})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: -1, Quantity: 1})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestIncreaseQuantityGrowsAggregate(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	line, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 2})
	require.NoError(t, err)

	grown, err := svc.IncreaseQuantity(ctx, "owner-1", line.LineID)
	require.NoError(t, err)
	assert.Equal(t, 3, grown.Quantity)
	assert.Equal(t, int64(1500), grown.TotalPrice)
	assert.NotEqual(t, line.LineID, grown.LineID)
}

func TestDecreaseQuantityAtFloorIsNoop(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	line, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)

	same, err := svc.DecreaseQuantity(ctx, "owner-1", line.LineID)
	require.NoError(t, err)
	assert.Equal(t, line.LineID, same.LineID)
	assert.Equal(t, 1, same.Quantity)
	assert.Equal(t, int64(500), same.TotalPrice)

	// No replacement row was written.
	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, line.LineID, lines[0].LineID)
}

func TestQuantityStepsTruncateUnitShare(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	// Merge two adds at different unit prices so the aggregate no longer
	// divides evenly by the quantity.
	_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 3, Quantity: 1})
	require.NoError(t, err)
	merged, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 4, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, int64(11), merged.TotalPrice)
	require.Equal(t, 3, merged.Quantity)

	// 11 / 3 truncates to a unit share of 3, so the whole aggregate reprices
	// to 3 * 4 rather than 11 + 3. One unit of drift is lost immediately.
	up, err := svc.IncreaseQuantity(ctx, "owner-1", merged.LineID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), up.TotalPrice)
	assert.Equal(t, 4, up.Quantity)

	// 12 / 4 divides cleanly; the drift does not come back.
	down, err := svc.DecreaseQuantity(ctx, "owner-1", up.LineID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), down.TotalPrice)
	assert.Equal(t, 3, down.Quantity)

	down, err = svc.DecreaseQuantity(ctx, "owner-1", down.LineID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), down.TotalPrice)
	assert.Equal(t, 2, down.Quantity)

	down, err = svc.DecreaseQuantity(ctx, "owner-1", down.LineID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), down.TotalPrice)
	assert.Equal(t, 1, down.Quantity)
}

func TestQuantityStepOnMissingLine(t *testing.T) {
	svc := newTestService(t, newStubStore(), nil)
	ctx := context.Background()

	_, err := svc.IncreaseQuantity(ctx, "owner-1", 42)
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.DecreaseQuantity(ctx, "owner-1", 42)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	line, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "owner-1", line.LineID))
	require.NoError(t, svc.Remove(ctx, "owner-1", line.LineID))

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClearAllDeletesEveryLine(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	for _, name := range []string{"Soup", "Pizza", "Burger"} {
		_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: name, UnitPrice: 500, Quantity: 1})
		require.NoError(t, err)
	}

	require.NoError(t, svc.ClearAll(ctx, "owner-1"))

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClearAllContinuesPastFailedDeletes(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"Soup", "Pizza", "Burger"} {
		line, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: name, UnitPrice: 500, Quantity: 1})
		require.NoError(t, err)
		ids = append(ids, line.LineID)
	}
	store.failDelete[ids[1]] = errors.New("connection reset")

	store.deletes = nil
	require.NoError(t, svc.ClearAll(ctx, "owner-1"))

	// Every line got its own delete attempt despite the failure in the middle.
	assert.Equal(t, ids, store.deletes)

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Pizza", lines[0].ItemName)
}

func TestClearAllPropagatesFetchError(t *testing.T) {
	store := newStubStore()
	store.fetchErr = errors.New("connection refused")
	svc := newTestService(t, store, nil)

	err := svc.ClearAll(context.Background(), "owner-1")
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestApplyCoupon(t *testing.T) {
	matcher := &stubMatcher{coupons: map[string]models.Coupon{
		"WELCOME10": {Code: "WELCOME10", DiscountAmount: 10},
	}}
	svc := newTestService(t, newStubStore(), matcher)
	ctx := context.Background()

	coupon, err := svc.ApplyCoupon(ctx, "WELCOME10")
	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, float64(10), coupon.DiscountAmount)

	// Unknown and differently-cased codes miss without an error.
	coupon, err = svc.ApplyCoupon(ctx, "welcome10")
	require.NoError(t, err)
	assert.Nil(t, coupon)

	coupon, err = svc.ApplyCoupon(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, coupon)
}

func TestTotalsWithCoupon(t *testing.T) {
	matcher := &stubMatcher{coupons: map[string]models.Coupon{
		"BIG": {Code: "BIG", DiscountAmount: 10000},
		"TEN": {Code: "TEN", DiscountAmount: 10},
	}}
	store := newStubStore()
	svc := newTestService(t, store, matcher)
	ctx := context.Background()

	_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 2})
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, "owner-1", "TEN")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), totals.Subtotal)
	assert.Equal(t, int64(990), totals.Total)
	assert.Equal(t, "TEN", totals.CouponCode)

	// A discount larger than the subtotal clamps the total at zero.
	totals, err = svc.Totals(ctx, "owner-1", "BIG")
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.Total)

	// A missed code leaves the cart undiscounted.
	totals, err = svc.Totals(ctx, "owner-1", "NOPE")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), totals.Total)
	assert.Empty(t, totals.CouponCode)
}

func TestConcurrentAddsForSameItemMergeCleanly(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddOrUpdate(ctx, "owner-1", AddItemInput{ItemName: "Soup", UnitPrice: 500, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, workers, lines[0].Quantity)
	assert.Equal(t, int64(500*workers), lines[0].TotalPrice)
}

func TestCartLifecycleScenario(t *testing.T) {
	store := newStubStore()
	matcher := &stubMatcher{coupons: map[string]models.Coupon{
		"SAVE15": {Code: "SAVE15", DiscountAmount: 15},
	}}
	svc := newTestService(t, store, matcher)
	ctx := context.Background()

	first, err := svc.AddOrUpdate(ctx, "alice", AddItemInput{ItemName: "Soup", UnitPrice: 20, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, int64(20), first.TotalPrice)

	merged, err := svc.AddOrUpdate(ctx, "alice", AddItemInput{ItemName: "Soup", UnitPrice: 20, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, int64(60), merged.TotalPrice)

	totals, err := svc.Totals(ctx, "alice", "SAVE15")
	require.NoError(t, err)
	assert.Equal(t, int64(60), totals.Subtotal)
	assert.Equal(t, int64(45), totals.Total)

	// Without the coupon one more unit lands at the clean 20/unit rate.
	up, err := svc.IncreaseQuantity(ctx, "alice", merged.LineID)
	require.NoError(t, err)
	assert.Equal(t, 4, up.Quantity)
	assert.Equal(t, int64(80), up.TotalPrice)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, code, coded.Code())
}
