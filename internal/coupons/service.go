package coupons

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

const listCacheTTL = 5 * time.Minute

// ServiceParams groups dependencies for the coupon service.
type ServiceParams struct {
	Repo   *Repository
	Cache  redis.Cache
	Logger *logger.Logger
	Config config.CouponsConfig
}

// Service exposes coupon lookups plus a live feed of the available coupons.
// Match resolves a redemption code; a miss is reported as (nil, nil), not an
// error, because an unknown code simply leaves the cart undiscounted.
type Service interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Match(ctx context.Context, code string) (*models.Coupon, error)
	Watch(ctx context.Context) <-chan []models.Coupon
	Run(ctx context.Context) error
}

type service struct {
	repo  *Repository
	cache redis.Cache
	logg  *logger.Logger
	cfg   config.CouponsConfig
	feed  *feed.Feed[[]models.Coupon]
}

// NewService builds a coupon service with the required dependencies. Cache is
// optional; without it every list goes to the database.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon repo is required")
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
		feed:  feed.New[[]models.Coupon](),
	}, nil
}

// List returns all coupons, served from cache when fresh.
func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	if s.cache != nil {
		var cached []models.Coupon
		key := s.cache.CacheKey("coupons")
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logg.Warn(ctx, "coupon cache read failed, falling back to database")
		}
	}

	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}

	if s.cache != nil {
		key := s.cache.CacheKey("coupons")
		if err := s.cache.SetJSON(ctx, key, coupons, listCacheTTL); err != nil {
			s.logg.Warn(ctx, "coupon cache write failed")
		}
	}
	return coupons, nil
}

// Match resolves a coupon code with an exact, case-sensitive comparison.
func (s *service) Match(ctx context.Context, code string) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find coupon")
	}
	return coupon, nil
}

// Watch subscribes to coupon snapshots. New subscribers receive the latest
// snapshot first; the subscription ends with ctx.
func (s *service) Watch(ctx context.Context) <-chan []models.Coupon {
	return s.feed.Subscribe(ctx)
}

// Run polls the database on the configured interval and republishes the
// coupon list to watchers. It blocks until ctx is done.
func (s *service) Run(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		s.logg.Error(ctx, "initial coupon refresh failed", err)
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
				s.logg.Error(ctx, "coupon refresh failed", err)
			}
		}
	}
}

func (s *service) refresh(ctx context.Context) error {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.feed.Publish(coupons)
	if s.cache != nil {
		key := s.cache.CacheKey("coupons")
		if err := s.cache.SetJSON(ctx, key, coupons, listCacheTTL); err != nil {
			s.logg.Warn(ctx, "coupon cache write failed")
		}
	}
	return nil
}
