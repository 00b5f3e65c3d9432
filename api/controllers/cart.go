package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/serhattastan/foodfleet/api/middleware"
	"github.com/serhattastan/foodfleet/api/responses"
	"github.com/serhattastan/foodfleet/api/validators"
	"github.com/serhattastan/foodfleet/internal/cart"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

type applyCouponPayload struct {
	Code string `json:"code" validate:"required"`
}

// CartList returns the caller's cart lines together with the current totals.
// An optional coupon query parameter prices the cart with that code redeemed.
func CartList(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.OwnerFromContext(ctx)
		couponCode := strings.TrimSpace(r.URL.Query().Get("coupon"))

		lines, err := svc.List(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		coupon, err := svc.ApplyCoupon(ctx, couponCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// Totals come from the same snapshot as the listed lines.
		responses.WriteSuccess(w, cart.CartDTO{Lines: lines, Totals: cart.TotalsFor(lines, coupon)})
	}
}

// CartAdd reconciles one item into the caller's cart.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := svc.AddOrUpdate(ctx, middleware.OwnerFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

// CartIncrease steps one line's quantity up.
func CartIncrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartQuantityStep(svc, logg, func(r *http.Request, owner string, lineID int64) (any, error) {
		return svc.IncreaseQuantity(r.Context(), owner, lineID)
	})
}

// CartDecrease steps one line's quantity down, stopping at one.
func CartDecrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartQuantityStep(svc, logg, func(r *http.Request, owner string, lineID int64) (any, error) {
		return svc.DecreaseQuantity(r.Context(), owner, lineID)
	})
}

func cartQuantityStep(svc cart.Service, logg *logger.Logger, step func(*http.Request, string, int64) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := parseLineID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := step(r, middleware.OwnerFromContext(ctx), lineID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, line)
	}
}

// CartRemove deletes one line. Removing an absent line still succeeds.
func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := parseLineID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, middleware.OwnerFromContext(ctx), lineID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": lineID})
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.ClearAll(ctx, middleware.OwnerFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cleared": true})
	}
}

// CartApplyCoupon resolves a coupon code against the catalog of coupons. A
// miss returns a null coupon, not an error.
func CartApplyCoupon(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyCouponPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		coupon, err := svc.ApplyCoupon(ctx, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"coupon": coupon})
	}
}

func parseLineID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "lineID"))
	lineID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || lineID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "line id must be a positive integer")
	}
	return lineID, nil
}
