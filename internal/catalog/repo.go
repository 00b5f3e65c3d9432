package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the full catalog ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	err := r.db.WithContext(ctx).
		Order("item_name ASC").
		Find(&foods).
		Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// ListByCategory returns the catalog entries in one category.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.Food, error) {
	var foods []models.Food
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("item_name ASC").
		Find(&foods).
		Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// ListCategories returns the distinct category names in the catalog.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Food{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID returns a single catalog entry.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&food).
		Error
	if err != nil {
		return nil, err
	}
	return &food, nil
}
