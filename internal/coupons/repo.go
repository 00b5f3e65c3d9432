package coupons

import (
	"context"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every coupon, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).
		Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindByCode returns the coupon with the exact code. Codes are compared
// case-sensitively; "welcome10" does not match "WELCOME10".
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
