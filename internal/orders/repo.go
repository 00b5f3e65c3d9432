package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates order record persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a placed order. Records are immutable; there is no update path.
func (r *Repository) Insert(ctx context.Context, record models.OrderRecord) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

// ListByOwner returns the owner's order history, newest first.
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("placed_at DESC").
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
