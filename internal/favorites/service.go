package favorites

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/internal/catalog"
	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo        *Repository
	CatalogRepo *catalog.Repository
	Logger      *logger.Logger
}

// Service exposes business rules for favorites management.
type Service interface {
	List(ctx context.Context, owner string) ([]models.FavoriteItem, error)
	Add(ctx context.Context, owner string, itemID int64) error
	Remove(ctx context.Context, owner string, itemID int64) error
	IsFavorite(ctx context.Context, owner string, itemID int64) (bool, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	logg        *logger.Logger
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		catalogRepo: params.CatalogRepo,
		logg:        params.Logger,
	}, nil
}

// List returns the owner's favorites.
func (s *service) List(ctx context.Context, owner string) ([]models.FavoriteItem, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return items, nil
}

// Add ensures the catalog entry exists and marks it as a favorite, copying
// the display fields so the list renders without a catalog join.
func (s *service) Add(ctx context.Context, owner string, itemID int64) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	food, err := s.catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "food not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}

	item := models.FavoriteItem{
		Owner:     owner,
		ItemID:    food.ID,
		ItemName:  food.ItemName,
		ImageRef:  food.ImageRef,
		UnitPrice: food.UnitPrice,
	}
	if err := s.repo.Add(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, owner string, itemID int64) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, owner, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// IsFavorite reports whether the owner has favorited the item.
func (s *service) IsFavorite(ctx context.Context, owner string, itemID int64) (bool, error) {
	if err := validateOwner(owner); err != nil {
		return false, err
	}
	found, err := s.repo.Exists(ctx, owner, itemID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return found, nil
}

func validateOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	return nil
}
