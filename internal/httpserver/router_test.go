package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type stubCartService struct {
	cart        *domain.Cart
	err         error
	checkoutRes *cartsvc.CheckoutResult
	checkoutErr error
}

func (s *stubCartService) Create(_ context.Context) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetItems(_ context.Context, _ string, _ []domain.CartItem) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubCartService) Checkout(_ context.Context, _ string, _ cartsvc.Purchaser) (*cartsvc.CheckoutResult, error) {
	return s.checkoutRes, s.checkoutErr
}

type stubTicketService struct {
	tickets []domain.Ticket
	ticket  *domain.Ticket
	err     error
}

func (s *stubTicketService) List(_ context.Context) ([]domain.Ticket, error) {
	return s.tickets, s.err
}

func (s *stubTicketService) GetByCode(_ context.Context, _ string) (*domain.Ticket, error) {
	return s.ticket, s.err
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := log.New(os.Stdout, "[test] ", 0)
	return buildRouter(logger, nil, deps)
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, Deps{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestCheckout_Success(t *testing.T) {
	svc := &stubCartService{checkoutRes: &cartsvc.CheckoutResult{
		Ticket:        domain.Ticket{Code: "1", AmountCents: 2500, Purchaser: "ada@example.com"},
		Fulfilled:     []cartsvc.FulfilledItem{{ProductID: "p1", Quantity: 2, UnitPriceCents: 1250}},
		PaymentStatus: domain.PaymentPaid,
	}}
	router := testRouter(t, Deps{CartSvc: svc})

	body := strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/carts/c1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result cartsvc.CheckoutResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.Ticket.Code != "1" || result.Ticket.AmountCents != 2500 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckout_MissingBody(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{}})

	req := httptest.NewRequest(http.MethodPost, "/carts/c1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCheckout_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"out of stock", domain.ErrOutOfStock, http.StatusConflict},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(t, Deps{CartSvc: &stubCartService{checkoutErr: tc.err}})
			body := strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`)
			req := httptest.NewRequest(http.MethodPost, "/carts/c1/checkout", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestGetCart_NotFound(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{err: domain.ErrNotFound}})
	req := httptest.NewRequest(http.MethodGet, "/carts/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestCreateCart(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1", Enabled: true, Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: svc})
	req := httptest.NewRequest(http.MethodPost, "/carts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var cart domain.Cart
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if cart.ID != "c1" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestSetCartItems_ValidationError(t *testing.T) {
	svc := &stubCartService{err: domain.ErrValidation}
	router := testRouter(t, Deps{CartSvc: svc})
	body := strings.NewReader(`{"items":[{"productId":"p1","quantity":-1}]}`)
	req := httptest.NewRequest(http.MethodPut, "/carts/c1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestListTickets(t *testing.T) {
	svc := &stubTicketService{tickets: []domain.Ticket{{Code: "1"}, {Code: "2"}}}
	router := testRouter(t, Deps{TicketSvc: svc})
	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload struct {
		Tickets []domain.Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(payload.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(payload.Tickets))
	}
}
