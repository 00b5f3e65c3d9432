package cart

import (
	"context"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
	"github.com/serhattastan/foodfleet/pkg/metrics"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store   Store
	Coupons CouponMatcher
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// Service exposes the cart reconciliation engine. Every mutation follows the
// same shape: fetch the owner's lines, decide, then write through delete and
// insert. Lines are never updated in place, so each mutation produces a fresh
// store-assigned line id.
type Service interface {
	List(ctx context.Context, owner string) ([]models.CartLine, error)
	AddOrUpdate(ctx context.Context, owner string, input AddItemInput) (models.CartLine, error)
	IncreaseQuantity(ctx context.Context, owner string, lineID int64) (models.CartLine, error)
	DecreaseQuantity(ctx context.Context, owner string, lineID int64) (models.CartLine, error)
	Remove(ctx context.Context, owner string, lineID int64) error
	ClearAll(ctx context.Context, owner string) error
	ApplyCoupon(ctx context.Context, code string) (*models.Coupon, error)
	Totals(ctx context.Context, owner string, couponCode string) (TotalsDTO, error)
}

type service struct {
	store   Store
	coupons CouponMatcher
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	locks   *ownerLocks
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon matcher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		store:   params.Store,
		coupons: params.Coupons,
		logg:    params.Logger,
		metrics: params.Metrics,
		locks:   newOwnerLocks(),
	}, nil
}

// List returns the owner's cart lines.
func (s *service) List(ctx context.Context, owner string) ([]models.CartLine, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	lines, err := s.store.Fetch(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}
	return lines, nil
}

// AddOrUpdate reconciles an incoming item against the owner's cart. When a
// line with the same item name exists (case-sensitive match), the quantities
// and aggregates are summed into a replacement line; otherwise a new line is
// inserted.
func (s *service) AddOrUpdate(ctx context.Context, owner string, input AddItemInput) (models.CartLine, error) {
	const op = "add_or_update"
	done := s.observe(op)
	defer done()

	if err := validateOwner(owner); err != nil {
		s.metrics.IncFailure(op)
		return models.CartLine{}, err
	}
	if strings.TrimSpace(input.ItemName) == "" {
		s.metrics.IncFailure(op)
		return models.CartLine{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity < 1 {
		s.metrics.IncFailure(op)
		return models.CartLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice < 0 {
		s.metrics.IncFailure(op)
		return models.CartLine{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	lines, err := s.store.Fetch(ctx, owner)
	if err != nil {
		s.metrics.IncFailure(op)
		return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}

	incomingTotal := input.UnitPrice * int64(input.Quantity)
	replacement := models.CartLine{
		ItemName:   input.ItemName,
		ImageRef:   input.ImageRef,
		TotalPrice: incomingTotal,
		Quantity:   input.Quantity,
		Owner:      owner,
	}

	existing := findByName(lines, input.ItemName)
	if existing != nil {
		replacement.TotalPrice = existing.TotalPrice + incomingTotal
		replacement.Quantity = existing.Quantity + input.Quantity
		if replacement.ImageRef == "" {
			replacement.ImageRef = existing.ImageRef
		}
		if err := s.store.Delete(ctx, owner, existing.LineID); err != nil {
			s.metrics.IncFailure(op)
			return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete merged line")
		}
		s.metrics.IncMerge()
	}

	inserted, err := s.store.Insert(ctx, replacement)
	if err != nil {
		s.metrics.IncFailure(op)
		return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
	}
	s.metrics.IncSuccess(op)
	return inserted, nil
}

// IncreaseQuantity steps a line's quantity up by one. The aggregate is
// repriced as unit share times the new quantity, so a truncated share
// under-reports the new aggregate rather than only the added unit.
func (s *service) IncreaseQuantity(ctx context.Context, owner string, lineID int64) (models.CartLine, error) {
	const op = "increase_quantity"
	done := s.observe(op)
	defer done()

	line, err := s.replaceLine(ctx, owner, lineID, func(line models.CartLine) (models.CartLine, bool) {
		share := unitShare(line)
		line.Quantity++
		line.TotalPrice = share * int64(line.Quantity)
		return line, true
	})
	if err != nil {
		s.metrics.IncFailure(op)
		return models.CartLine{}, err
	}
	s.metrics.IncSuccess(op)
	return line, nil
}

// DecreaseQuantity steps a line's quantity down by one. A line already at
// quantity one is left untouched; removal is an explicit, separate action.
func (s *service) DecreaseQuantity(ctx context.Context, owner string, lineID int64) (models.CartLine, error) {
	const op = "decrease_quantity"
	done := s.observe(op)
	defer done()

	line, err := s.replaceLine(ctx, owner, lineID, func(line models.CartLine) (models.CartLine, bool) {
		if line.Quantity <= 1 {
			return line, false
		}
		share := unitShare(line)
		line.Quantity--
		line.TotalPrice = share * int64(line.Quantity)
		return line, true
	})
	if err != nil {
		s.metrics.IncFailure(op)
		return models.CartLine{}, err
	}
	s.metrics.IncSuccess(op)
	return line, nil
}

// Remove deletes a single line. Removing a line that no longer exists
// succeeds; the end state is identical.
func (s *service) Remove(ctx context.Context, owner string, lineID int64) error {
	const op = "remove"
	done := s.observe(op)
	defer done()

	if err := validateOwner(owner); err != nil {
		s.metrics.IncFailure(op)
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	if err := s.store.Delete(ctx, owner, lineID); err != nil {
		s.metrics.IncFailure(op)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	s.metrics.IncSuccess(op)
	return nil
}

// ClearAll empties the cart line by line. Each delete is attempted even when
// an earlier one fails; failures are logged and the clear reports success,
// matching the fire-and-forget checkout flow.
func (s *service) ClearAll(ctx context.Context, owner string) error {
	const op = "clear_all"
	done := s.observe(op)
	defer done()

	if err := validateOwner(owner); err != nil {
		s.metrics.IncFailure(op)
		return err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	lines, err := s.store.Fetch(ctx, owner)
	if err != nil {
		s.metrics.IncFailure(op)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}

	var failed error
	for _, line := range lines {
		if err := s.store.Delete(ctx, owner, line.LineID); err != nil {
			failed = multierr.Append(failed, err)
		}
	}
	if failed != nil {
		s.logg.Error(s.logg.WithOwner(ctx, owner), "clearing cart left lines behind", failed)
	}
	s.metrics.IncSuccess(op)
	return nil
}

// ApplyCoupon resolves a coupon code. An unknown code returns (nil, nil); the
// caller treats the cart as having no discount.
func (s *service) ApplyCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	coupon, err := s.coupons.Match(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "match coupon")
	}
	return coupon, nil
}

// Totals computes the checkout summary for the owner's cart, redeeming the
// coupon code when it matches.
func (s *service) Totals(ctx context.Context, owner string, couponCode string) (TotalsDTO, error) {
	lines, err := s.List(ctx, owner)
	if err != nil {
		return TotalsDTO{}, err
	}
	coupon, err := s.ApplyCoupon(ctx, couponCode)
	if err != nil {
		return TotalsDTO{}, err
	}
	return TotalsFor(lines, coupon), nil
}

// replaceLine runs the fetch/decide/delete/insert cycle for one line. The
// step func returns false to leave the line as it is.
func (s *service) replaceLine(ctx context.Context, owner string, lineID int64, step func(models.CartLine) (models.CartLine, bool)) (models.CartLine, error) {
	if err := validateOwner(owner); err != nil {
		return models.CartLine{}, err
	}

	unlock := s.locks.lock(owner)
	defer unlock()

	lines, err := s.store.Fetch(ctx, owner)
	if err != nil {
		return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}
	current := findByID(lines, lineID)
	if current == nil {
		return models.CartLine{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	next, changed := step(*current)
	if !changed {
		return *current, nil
	}

	if err := s.store.Delete(ctx, owner, current.LineID); err != nil {
		return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	inserted, err := s.store.Insert(ctx, next)
	if err != nil {
		return models.CartLine{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
	}
	return inserted, nil
}

func (s *service) observe(op string) func() {
	start := time.Now()
	return func() {
		s.metrics.ObserveDuration(op, time.Since(start))
	}
}

func validateOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	return nil
}

func findByName(lines []models.CartLine, itemName string) *models.CartLine {
	for i := range lines {
		if lines[i].ItemName == itemName {
			return &lines[i]
		}
	}
	return nil
}

func findByID(lines []models.CartLine, lineID int64) *models.CartLine {
	for i := range lines {
		if lines[i].LineID == lineID {
			return &lines[i]
		}
	}
	return nil
}
