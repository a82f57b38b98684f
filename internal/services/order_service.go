package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"megastore/internal/domain"
	applog "megastore/internal/log"
	"megastore/internal/repos"
	"megastore/internal/validate"
)

var (
	ErrInvalidCheckout = errors.New("invalid checkout form")
	ErrCartEmpty       = errors.New("cart empty")
	ErrSubmitInFlight  = errors.New("order submission already in progress")
	ErrSubmitFailed    = errors.New("order submission failed")
)

// OrderSubmitter delivers an order to the CMS.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o domain.Order) error
}

type OrderService struct {
	Carts  *CartService
	Orders *repos.OrderRepo
	CMS    OrderSubmitter

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewOrderService(carts *CartService, orders *repos.OrderRepo, cms OrderSubmitter) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, CMS: cms, inflight: map[string]struct{}{}}
}

func (s *OrderService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *OrderService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}

// Place submits the session's cart with the contact form. The submitted lines
// leave the cart only after the CMS accepted the order; lines added meanwhile
// stay. On failure the cart is left as it was.
// Every attempt that reaches the CMS is journaled.
func (s *OrderService) Place(ctx context.Context, sessionID string, form validate.Checkout) (domain.JournalEntry, error) {
	if err := form.Validate(); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("%w: %w", ErrInvalidCheckout, err)
	}
	if !s.begin(sessionID) {
		return domain.JournalEntry{}, ErrSubmitInFlight
	}
	defer s.end(sessionID)

	cart, err := s.Carts.View(sessionID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if cart.Empty() {
		return domain.JournalEntry{}, ErrCartEmpty
	}

	order := domain.NewOrder(strings.TrimSpace(form.Name), form.Phone, cart)
	if err := s.CMS.SubmitOrder(ctx, order); err != nil {
		entry, jerr := s.Orders.Record(sessionID, order, domain.OrderFailed, err)
		if jerr != nil {
			applog.Error(nil, "order.journal_fail", jerr, map[string]any{"status": domain.OrderFailed})
		}
		return entry, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	entry, err := s.Orders.Record(sessionID, order, domain.OrderSent, nil)
	if err != nil {
		// the CMS already accepted the order
		applog.Error(nil, "order.journal_fail", err, map[string]any{"status": domain.OrderSent})
		entry = domain.JournalEntry{SessionID: sessionID, ClientName: order.ClientName, Total: order.Total,
			OrderDetails: order.OrderDetails, Status: domain.OrderSent}
	}
	if err := s.Carts.RemoveItems(sessionID, cart.Items); err != nil {
		applog.Error(nil, "cart.clear_fail", err, map[string]any{"order": entry.ID})
	}
	return entry, nil
}

// Journal lists the session's submission attempts, newest first.
func (s *OrderService) Journal(sessionID string) ([]domain.JournalEntry, error) {
	return s.Orders.ListBySession(sessionID)
}
