package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhattastan/foodfleet/api/middleware"
	"github.com/serhattastan/foodfleet/internal/cart"
	"github.com/serhattastan/foodfleet/pkg/db/models"
	pkgerrors "github.com/serhattastan/foodfleet/pkg/errors"
)

type stubCartService struct {
	lines      []models.CartLine
	listCalls  int
	totals     cart.TotalsDTO
	added      *cart.AddItemInput
	removed    []int64
	cleared    bool
	coupon     *models.Coupon
	listErr    error
	addErr     error
	removeErr  error
	stepResult models.CartLine
	stepErr    error
}

func (s *stubCartService) List(_ context.Context, _ string) ([]models.CartLine, error) {
	s.listCalls++
	return s.lines, s.listErr
}

func (s *stubCartService) AddOrUpdate(_ context.Context, _ string, input cart.AddItemInput) (models.CartLine, error) {
	if s.addErr != nil {
		return models.CartLine{}, s.addErr
	}
	s.added = &input
	return models.CartLine{LineID: 1, ItemName: input.ItemName, Quantity: input.Quantity}, nil
}

func (s *stubCartService) IncreaseQuantity(_ context.Context, _ string, _ int64) (models.CartLine, error) {
	return s.stepResult, s.stepErr
}

func (s *stubCartService) DecreaseQuantity(_ context.Context, _ string, _ int64) (models.CartLine, error) {
	return s.stepResult, s.stepErr
}

func (s *stubCartService) Remove(_ context.Context, _ string, lineID int64) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, lineID)
	return nil
}

func (s *stubCartService) ClearAll(_ context.Context, _ string) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) ApplyCoupon(_ context.Context, _ string) (*models.Coupon, error) {
	return s.coupon, nil
}

func (s *stubCartService) Totals(_ context.Context, _ string, _ string) (cart.TotalsDTO, error) {
	return s.totals, nil
}

func newCartRequest(t *testing.T, method, target, body string, params map[string]string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithOwner(ctx, "owner-1")
	return req.WithContext(ctx)
}

func TestCartListReturnsLinesAndTotals(t *testing.T) {
	svc := &stubCartService{
		lines: []models.CartLine{{LineID: 1, ItemName: "Soup", TotalPrice: 1000, Quantity: 2, Owner: "owner-1"}},
	}

	resp := httptest.NewRecorder()
	CartList(svc, nil)(resp, newCartRequest(t, http.MethodGet, "/api/v1/cart", "", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data cart.CartDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Lines, 1)
	assert.Equal(t, int64(1000), envelope.Data.Totals.Subtotal)
	assert.Equal(t, int64(1000), envelope.Data.Totals.Total)

	// Lines and totals come from one snapshot: a single fetch per request.
	assert.Equal(t, 1, svc.listCalls)
}

func TestCartListPricesCouponFromSameSnapshot(t *testing.T) {
	svc := &stubCartService{
		lines:  []models.CartLine{{LineID: 1, ItemName: "Soup", TotalPrice: 1000, Quantity: 2, Owner: "owner-1"}},
		coupon: &models.Coupon{Code: "TEN", DiscountAmount: 10},
	}

	resp := httptest.NewRecorder()
	CartList(svc, nil)(resp, newCartRequest(t, http.MethodGet, "/api/v1/cart?coupon=TEN", "", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data cart.CartDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, int64(990), envelope.Data.Totals.Total)
	assert.Equal(t, "TEN", envelope.Data.Totals.CouponCode)
	assert.Equal(t, 1, svc.listCalls)
}

func TestCartAddValidatesBody(t *testing.T) {
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, newCartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"unit_price":500,"quantity":1}`, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Nil(t, svc.added)
}

func TestCartAddCreatesLine(t *testing.T) {
	svc := &stubCartService{}

	body := `{"item_name":"Soup","image_ref":"img/soup.png","unit_price":500,"quantity":2}`
	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, newCartRequest(t, http.MethodPost, "/api/v1/cart/items", body, nil))

	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, svc.added)
	assert.Equal(t, "Soup", svc.added.ItemName)
	assert.Equal(t, 2, svc.added.Quantity)
}

func TestCartIncreaseRejectsBadLineID(t *testing.T) {
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartIncrease(svc, nil)(resp, newCartRequest(t, http.MethodPost, "/api/v1/cart/items/abc/increase", "", map[string]string{"lineID": "abc"}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartIncreaseMissingLine(t *testing.T) {
	svc := &stubCartService{stepErr: pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")}

	resp := httptest.NewRecorder()
	CartIncrease(svc, nil)(resp, newCartRequest(t, http.MethodPost, "/api/v1/cart/items/42/increase", "", map[string]string{"lineID": "42"}))

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartRemove(svc, nil)(resp, newCartRequest(t, http.MethodDelete, "/api/v1/cart/items/7", "", map[string]string{"lineID": "7"}))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []int64{7}, svc.removed)

	resp = httptest.NewRecorder()
	CartClear(svc, nil)(resp, newCartRequest(t, http.MethodDelete, "/api/v1/cart", "", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, svc.cleared)
}

func TestCartApplyCouponMissReturnsNull(t *testing.T) {
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartApplyCoupon(svc, nil)(resp, newCartRequest(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"NOPE"}`, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data struct {
			Coupon *models.Coupon `json:"coupon"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Data.Coupon)
}
