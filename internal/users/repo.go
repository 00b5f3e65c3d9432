package users

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Repository encapsulates user profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find returns the profile document for an owner.
func (r *Repository) Find(ctx context.Context, owner string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		First(&user).
		Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert writes the profile document, replacing an existing row for the same
// owner.
func (r *Repository) Upsert(ctx context.Context, user models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}},
			UpdateAll: true,
		}).
		Create(&user).
		Error
}
