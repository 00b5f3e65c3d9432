package controllers

import (
	"net/http"

	"github.com/serhattastan/foodfleet/api/middleware"
	"github.com/serhattastan/foodfleet/api/responses"
	"github.com/serhattastan/foodfleet/api/validators"
	"github.com/serhattastan/foodfleet/internal/orders"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

type checkoutPayload struct {
	CouponCode string `json:"coupon_code"`
}

// OrdersCheckout freezes the caller's cart into an order.
func OrdersCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload checkoutPayload
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		record, err := svc.Checkout(ctx, middleware.OwnerFromContext(ctx), payload.CouponCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// OrdersHistory returns the caller's past orders.
func OrdersHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		records, err := svc.History(ctx, middleware.OwnerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
