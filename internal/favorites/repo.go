package favorites

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, item models.FavoriteItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&item).
		Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, owner string, itemID int64) error {
	return r.db.WithContext(ctx).
		Where("owner = ? AND item_id = ?", owner, itemID).
		Delete(&models.FavoriteItem{}).
		Error
}

// List returns the owner's favorites, newest first.
func (r *Repository) List(ctx context.Context, owner string) ([]models.FavoriteItem, error) {
	var items []models.FavoriteItem
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("id DESC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Exists reports whether the owner has favorited the item. The lookup targets
// the (owner, item_id) key directly instead of scanning the list.
func (r *Repository) Exists(ctx context.Context, owner string, itemID int64) (bool, error) {
	var item models.FavoriteItem
	err := r.db.WithContext(ctx).
		Where("owner = ? AND item_id = ?", owner, itemID).
		First(&item).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
