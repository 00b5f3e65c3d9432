package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/config"
	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/feed"
	"github.com/serhattastan/foodfleet/pkg/logger"
	"github.com/serhattastan/foodfleet/pkg/redis"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   *Repository
	Cache  redis.Cache
	Logger *logger.Logger
	Config config.CatalogConfig
}

// Service exposes catalog reads plus a live feed of the full menu. Watch
// subscribers always receive the latest snapshot first, so a client that
// connects after startup still sees the current menu immediately.
type Service interface {
	List(ctx context.Context) ([]models.Food, error)
	ListByCategory(ctx context.Context, category string) ([]models.Food, error)
	Categories(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*models.Food, error)
	Watch(ctx context.Context) <-chan []models.Food
	Run(ctx context.Context) error
}

// Category is one menu section with a derived image locator.
type Category struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
}

type service struct {
	repo  *Repository
	cache redis.Cache
	logg  *logger.Logger
	cfg   config.CatalogConfig
	feed  *feed.Feed[[]models.Food]
}

// NewService builds a catalog service with the required dependencies. Cache is
// optional; without it every list goes to the database.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Config.RefreshInterval <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refresh interval must be positive")
	}
	return &service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
		cfg:   params.Config,
		feed:  feed.New[[]models.Food](),
	}, nil
}

// List returns the full catalog, served from cache when fresh.
func (s *service) List(ctx context.Context) ([]models.Food, error) {
	if s.cache != nil {
		var cached []models.Food
		key := s.cache.CacheKey("foods")
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logg.Warn(ctx, "catalog cache read failed, falling back to database")
		}
	}

	foods, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list foods")
	}

	if s.cache != nil {
		key := s.cache.CacheKey("foods")
		if err := s.cache.SetJSON(ctx, key, foods, s.cfg.CacheTTL); err != nil {
			s.logg.Warn(ctx, "catalog cache write failed")
		}
	}
	return foods, nil
}

// ListByCategory returns catalog entries in one category.
func (s *service) ListByCategory(ctx context.Context, category string) ([]models.Food, error) {
	if strings.TrimSpace(category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	foods, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list foods by category")
	}
	return foods, nil
}

// Categories returns the distinct menu sections. Image locators follow a
// fixed naming convention so clients can resolve section art without an
// extra lookup.
func (s *service) Categories(ctx context.Context) ([]Category, error) {
	names, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, Category{
			Name:     name,
			ImageRef: "img/categories/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".png",
		})
	}
	return categories, nil
}

// Get returns a single catalog entry.
func (s *service) Get(ctx context.Context, id int64) (*models.Food, error) {
	food, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	return food, nil
}

// Watch subscribes to menu snapshots. The subscription ends with ctx.
func (s *service) Watch(ctx context.Context) <-chan []models.Food {
	return s.feed.Subscribe(ctx)
}

// Run polls the database on the configured interval and republishes the menu
// to watchers whenever it changes. It blocks until ctx is done.
func (s *service) Run(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		s.logg.Error(ctx, "initial catalog refresh failed", err)
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()
	defer s.feed.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.logg.Error(ctx, "catalog refresh failed", err)
			}
		}
	}
}

func (s *service) refresh(ctx context.Context) error {
	foods, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.feed.Publish(foods)
	if s.cache != nil {
		key := s.cache.CacheKey("foods")
		if err := s.cache.SetJSON(ctx, key, foods, s.cfg.CacheTTL); err != nil {
			s.logg.Warn(ctx, "catalog cache write failed")
		}
	}
	return nil
}
