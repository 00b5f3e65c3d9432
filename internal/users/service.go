package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

// UpdateInput carries a partial profile update. Nil fields are left as they
// are; empty strings overwrite.
type UpdateInput struct {
	UserName *string `json:"user_name"`
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	ImageRef *string `json:"image_ref"`
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service exposes profile reads and merge-style updates. A profile that was
// never written reads back as an empty document rather than an error.
type Service interface {
	Get(ctx context.Context, owner string) (models.User, error)
	Update(ctx context.Context, owner string, input UpdateInput) (models.User, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Get returns the owner's profile, or an empty document when none exists yet.
func (s *service) Get(ctx context.Context, owner string) (models.User, error) {
	if err := validateOwner(owner); err != nil {
		return models.User{}, err
	}
	user, err := s.repo.Find(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{Owner: owner}, nil
		}
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return *user, nil
}

// Update merges the provided fields into the stored profile and writes it
// back, creating the document on first touch.
func (s *service) Update(ctx context.Context, owner string, input UpdateInput) (models.User, error) {
	current, err := s.Get(ctx, owner)
	if err != nil {
		return models.User{}, err
	}

	applyField(&current.UserName, input.UserName)
	applyField(&current.Name, input.Name)
	applyField(&current.Surname, input.Surname)
	applyField(&current.Email, input.Email)
	applyField(&current.Phone, input.Phone)
	applyField(&current.Address, input.Address)
	applyField(&current.ImageRef, input.ImageRef)

	if err := s.repo.Upsert(ctx, current); err != nil {
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return current, nil
}

func applyField(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func validateOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	return nil
}
