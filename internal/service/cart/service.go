package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/mail"
	productrepo "storefront/internal/repository/product"
	ticketrepo "storefront/internal/repository/ticket"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
	ticketRepo  ticketRepo
	payments    paymentClient
	mailer      mailer
	logger      *log.Logger
	now         func() time.Time
}

type cartRepo interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	SetItems(ctx context.Context, id string, items []domain.CartItem) (*domain.Cart, error)
	SetItem(ctx context.Context, id, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, id, productID string) (*domain.Cart, error)
	ClearItems(ctx context.Context, id string) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ReserveStock(ctx context.Context, id string, quantity int) (*productrepo.Reservation, error)
	ReleaseStock(ctx context.Context, id string, quantity int) error
}

type ticketRepo interface {
	Create(ctx context.Context, in ticketrepo.CreateTicketInput) (*domain.Ticket, error)
	SetPaymentOutcome(ctx context.Context, id, status, ref string) error
}

type paymentClient interface {
	Enabled() bool
	Capture(ctx context.Context, amountCents int64) (string, error)
}

type mailer interface {
	Enabled() bool
	SendPurchaseConfirmation(to string, data mail.PurchaseConfirmation) error
}

func New(repo cartRepo, productRepo productRepo, ticketRepo ticketRepo, payments paymentClient, mailer mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		ticketRepo:  ticketRepo,
		payments:    payments,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context) (*domain.Cart, error) {
	return s.repo.Create(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// SetItems replaces the cart's line items. Every product must exist and no
// product may appear twice.
func (s *Service) SetItems(ctx context.Context, id string, items []domain.CartItem) (*domain.Cart, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
		}
		if _, err := s.productRepo.GetByID(ctx, item.ProductID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s not found", domain.ErrValidation, item.ProductID)
			}
			return nil, err
		}
		if seen[item.ProductID] {
			return nil, fmt.Errorf("%w: product %s already added", domain.ErrValidation, item.ProductID)
		}
		seen[item.ProductID] = true
	}

	return s.repo.SetItems(ctx, id, items)
}

// AddItem adds one unit of a product to the cart, incrementing the existing
// line when the product is already present.
func (s *Service) AddItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	if _, err := s.repo.GetByID(ctx, cartID); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s not found", domain.ErrValidation, productID)
		}
		return nil, err
	}
	return s.repo.SetItem(ctx, cartID, productID, 1)
}

func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	present := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			present = true
			break
		}
	}
	if !present {
		return nil, domain.ErrNotFound
	}
	return s.repo.RemoveItem(ctx, cartID, productID)
}

func (s *Service) Clear(ctx context.Context, id string) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.ClearItems(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Purchaser identifies who is checking out.
type Purchaser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FulfilledItem is a line item actually committed against stock.
type FulfilledItem struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// CheckoutResult reports everything that happened during a checkout: the
// persisted ticket, what was committed, the remainder that could not be
// fulfilled, and the side-effect outcomes.
type CheckoutResult struct {
	Ticket           domain.Ticket     `json:"ticket"`
	Fulfilled        []FulfilledItem   `json:"fulfilled"`
	Unfulfilled      []domain.CartItem `json:"unfulfilled,omitempty"`
	PaymentStatus    string            `json:"paymentStatus"`
	NotificationSent bool              `json:"notificationSent"`
}

// Checkout turns a cart into a ticket. Stock is reserved per line through the
// product repository's conditional decrement, so a concurrent checkout against
// the same product can never deduct the same units twice. If the cart or the
// ticket cannot be committed afterwards, every reservation is released before
// the error propagates.
func (s *Service) Checkout(ctx context.Context, cartID string, purchaser Purchaser) (*CheckoutResult, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var (
		fulfilled   []FulfilledItem
		unfulfilled []domain.CartItem
		amountCents int64
	)
	for _, item := range cart.Items {
		if item.Quantity == 0 {
			continue
		}
		res, err := s.productRepo.ReserveStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseReservations(ctx, fulfilled)
			return nil, err
		}
		if res.Committed == 0 {
			unfulfilled = append(unfulfilled, item)
			continue
		}
		fulfilled = append(fulfilled, FulfilledItem{
			ProductID:      item.ProductID,
			Quantity:       res.Committed,
			UnitPriceCents: res.UnitPriceCents,
		})
		amountCents += res.UnitPriceCents * int64(res.Committed)
		if res.Committed < item.Quantity {
			unfulfilled = append(unfulfilled, domain.CartItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity - res.Committed,
			})
		}
	}

	if len(fulfilled) == 0 {
		return nil, domain.ErrOutOfStock
	}

	if err := s.repo.Delete(ctx, cartID); err != nil {
		s.releaseReservations(ctx, fulfilled)
		return nil, err
	}

	ticket, err := s.ticketRepo.Create(ctx, ticketrepo.CreateTicketInput{
		PurchaseDatetime: s.now().UTC(),
		AmountCents:      amountCents,
		Purchaser:        purchaser.Email,
	})
	if err != nil {
		s.releaseReservations(ctx, fulfilled)
		return nil, err
	}
	s.logger.Printf("checkout: cart=%s ticket=%s amount_cents=%d fulfilled=%d unfulfilled=%d",
		cartID, ticket.Code, amountCents, len(fulfilled), len(unfulfilled))

	result := &CheckoutResult{
		Ticket:        *ticket,
		Fulfilled:     fulfilled,
		Unfulfilled:   unfulfilled,
		PaymentStatus: domain.PaymentSkipped,
	}

	if s.payments != nil && s.payments.Enabled() {
		ref, err := s.payments.Capture(ctx, amountCents)
		if err != nil {
			s.logger.Printf("checkout: payment capture failed ticket=%s error=%v", ticket.Code, err)
			result.PaymentStatus = domain.PaymentPending
		} else {
			result.PaymentStatus = domain.PaymentPaid
			result.Ticket.PaymentRef = ref
		}
		result.Ticket.PaymentStatus = result.PaymentStatus
		if err := s.ticketRepo.SetPaymentOutcome(ctx, ticket.ID, result.PaymentStatus, result.Ticket.PaymentRef); err != nil {
			s.logger.Printf("checkout: record payment outcome ticket=%s error=%v", ticket.Code, err)
		}
	}

	if s.mailer != nil && s.mailer.Enabled() {
		err := s.mailer.SendPurchaseConfirmation(purchaser.Email, mail.PurchaseConfirmation{
			Name:        purchaser.Name,
			Code:        ticket.Code,
			AmountCents: amountCents,
		})
		if err != nil {
			s.logger.Printf("checkout: confirmation mail failed ticket=%s error=%v", ticket.Code, err)
		} else {
			result.NotificationSent = true
		}
	}

	return result, nil
}

func (s *Service) releaseReservations(ctx context.Context, items []FulfilledItem) {
	for _, item := range items {
		if err := s.productRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Printf("checkout: release product=%s qty=%d error=%v", item.ProductID, item.Quantity, err)
		}
	}
}
