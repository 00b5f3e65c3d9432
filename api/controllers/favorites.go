package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/serhattastan/foodfleet/api/middleware"
	"github.com/serhattastan/foodfleet/api/responses"
	"github.com/serhattastan/foodfleet/api/validators"
	"github.com/serhattastan/foodfleet/internal/favorites"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

type addFavoritePayload struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// FavoritesList returns the caller's favorites.
func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		items, err := svc.List(ctx, middleware.OwnerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// FavoritesAdd marks a catalog entry as a favorite.
func FavoritesAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Add(ctx, middleware.OwnerFromContext(ctx), payload.ItemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"item_id": payload.ItemID})
	}
}

// FavoritesRemove drops a favorite regardless of prior state.
func FavoritesRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, middleware.OwnerFromContext(ctx), itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": itemID})
	}
}

// FavoritesCheck reports whether one catalog entry is favorited.
func FavoritesCheck(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		found, err := svc.IsFavorite(ctx, middleware.OwnerFromContext(ctx), itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"item_id": itemID, "is_favorite": found})
	}
}

func parseItemID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemID"))
	itemID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || itemID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item id must be a positive integer")
	}
	return itemID, nil
}
