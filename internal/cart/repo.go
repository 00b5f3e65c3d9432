package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates cart line persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Fetch returns every cart line for the owner, oldest first.
func (r *Repository) Fetch(ctx context.Context, owner string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("line_id ASC").
		Find(&lines).
		Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Insert stores a new cart line and returns it with the assigned line id.
// Any line id set by the caller is discarded.
func (r *Repository) Insert(ctx context.Context, line models.CartLine) (models.CartLine, error) {
	line.LineID = 0
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return models.CartLine{}, err
	}
	return line, nil
}

// Delete removes the line if it exists. Deleting an absent line is a no-op.
func (r *Repository) Delete(ctx context.Context, owner string, lineID int64) error {
	return r.db.WithContext(ctx).
		Where("owner = ? AND line_id = ?", owner, lineID).
		Delete(&models.CartLine{}).
		Error
}
