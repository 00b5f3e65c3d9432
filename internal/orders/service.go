package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serhattastan/foodfleet/internal/cart"
	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo      *Repository
	Cart      cart.Service
	Logger    *logger.Logger
	Publisher EventPublisher
}

// Service places orders from the current cart and reads order history.
type Service interface {
	Checkout(ctx context.Context, owner string, couponCode string) (models.OrderRecord, error)
	History(ctx context.Context, owner string) ([]models.OrderRecord, error)
}

type service struct {
	repo      *Repository
	cart      cart.Service
	logg      *logger.Logger
	publisher EventPublisher
}

// NewService builds an orders service with the required dependencies.
// Publisher is optional; without it checkout skips event emission.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:      params.Repo,
		cart:      params.Cart,
		logg:      params.Logger,
		publisher: params.Publisher,
	}, nil
}

// Checkout freezes the cart into an order record. The total is computed with
// the redeemed coupon, the record is written, and only then is the cart
// cleared; a failed clear leaves stale lines behind but never loses the order.
func (s *service) Checkout(ctx context.Context, owner string, couponCode string) (models.OrderRecord, error) {
	if strings.TrimSpace(owner) == "" {
		return models.OrderRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	lines, err := s.cart.List(ctx, owner)
	if err != nil {
		return models.OrderRecord{}, err
	}
	if len(lines) == 0 {
		return models.OrderRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	coupon, err := s.cart.ApplyCoupon(ctx, couponCode)
	if err != nil {
		return models.OrderRecord{}, err
	}

	record := models.OrderRecord{
		ID:         uuid.New(),
		Owner:      owner,
		Lines:      snapshotLines(lines),
		TotalPrice: cart.ComputeTotal(lines, coupon),
		CouponCode: models.NoCoupon,
		// Set explicitly so the returned record and the placed event carry
		// the same timestamp as the stored row.
		PlacedAt: time.Now().UTC(),
	}
	if coupon != nil {
		record.CouponCode = coupon.Code
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return models.OrderRecord{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order")
	}

	if err := s.cart.ClearAll(ctx, owner); err != nil {
		s.logg.Error(s.logg.WithOwner(ctx, owner), "clearing cart after checkout failed", err)
	}

	s.publishPlaced(ctx, record)
	return record, nil
}

// History returns the owner's past orders.
func (s *service) History(ctx context.Context, owner string) ([]models.OrderRecord, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	records, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return records, nil
}

func (s *service) publishPlaced(ctx context.Context, record models.OrderRecord) {
	if s.publisher == nil {
		return
	}
	payload, attrs, err := encodeOrderPlaced(record)
	if err != nil {
		s.logg.Error(ctx, "encoding order event failed", err)
		return
	}
	if err := s.publisher.Publish(ctx, payload, attrs); err != nil {
		s.logg.Error(ctx, "publishing order event failed", err)
	}
}

func snapshotLines(lines []models.CartLine) []models.OrderLine {
	out := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.OrderLine{
			ItemName:   line.ItemName,
			ImageRef:   line.ImageRef,
			TotalPrice: line.TotalPrice,
			Quantity:   line.Quantity,
		})
	}
	return out
}
