package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/serhattastan/foodfleet/api/responses"
	"github.com/serhattastan/foodfleet/internal/coupons"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
	"github.com/serhattastan/foodfleet/pkg/logger"
)

// CouponsList returns every published coupon.
func CouponsList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CouponsWatch streams coupon snapshots over server-sent events, newest
// snapshot first.
func CouponsWatch(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ch := svc.Watch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(snapshot)
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "encoding coupon snapshot failed", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: coupons\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
