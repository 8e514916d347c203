package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
)

type stubCartService struct {
	summary      *cart.Summary
	count        int
	addedSnackID uint
	addedQty     int
	updateSnack  uint
	updateAction enums.CartItemAction
	err          error
}

func (s *stubCartService) GetOrCreateCart(ctx context.Context, customerID uint) (*models.Cart, error) {
	return &models.Cart{CustomerID: customerID}, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, customerID, snackID uint, qty int) error {
	s.addedSnackID = snackID
	s.addedQty = qty
	return s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, customerID, snackID uint, action enums.CartItemAction) error {
	s.updateSnack = snackID
	s.updateAction = action
	return s.err
}

func (s *stubCartService) Count(ctx context.Context, customerID uint) (int, error) {
	return s.count, s.err
}

func (s *stubCartService) GetSummary(ctx context.Context, customerID uint) (*cart.Summary, error) {
	return s.summary, s.err
}

func TestCartSummaryReturnsLines(t *testing.T) {
	svc := &stubCartService{summary: &cart.Summary{
		CartID: 2,
		Lines: []cart.Line{
			{SnackID: 1, Name: "Samosa", UnitPrice: 15, Quantity: 2, LineTotal: 30},
		},
		Total: 30,
	}}

	req := authedRequest(http.MethodGet, "/api/v1/cart", "", 4)
	resp := httptest.NewRecorder()
	CartSummary(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cart.Summary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 30 || len(envelope.Data.Lines) != 1 {
		t.Fatalf("unexpected summary: %+v", envelope.Data)
	}
}

func TestCartCount(t *testing.T) {
	svc := &stubCartService{count: 5}

	req := authedRequest(http.MethodGet, "/api/v1/cart/count", "", 4)
	resp := httptest.NewRecorder()
	CartCount(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["count"] != 5 {
		t.Fatalf("unexpected count payload: %+v", envelope.Data)
	}
}

func TestCartAddItem(t *testing.T) {
	svc := &stubCartService{}

	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"snack_id":3,"quantity":2}`, 4)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.addedSnackID != 3 || svc.addedQty != 2 {
		t.Fatalf("unexpected add call: snack=%d qty=%d", svc.addedSnackID, svc.addedQty)
	}
}

func TestCartAddItemRequiresSnackID(t *testing.T) {
	svc := &stubCartService{}

	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":2}`, 4)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.addedSnackID != 0 {
		t.Fatal("service must not be called without a snack id")
	}
}

func TestCartUpdateItemParsesAction(t *testing.T) {
	svc := &stubCartService{}

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/3", `{"action":"decrease"}`, 4)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("snackId", "3")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CartUpdateItem(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updateSnack != 3 || svc.updateAction != enums.CartItemActionDecrease {
		t.Fatalf("unexpected update call: snack=%d action=%s", svc.updateSnack, svc.updateAction)
	}
}

func TestCartUpdateItemRejectsUnknownAction(t *testing.T) {
	svc := &stubCartService{}

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/3", `{"action":"double"}`, 4)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("snackId", "3")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CartUpdateItem(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
