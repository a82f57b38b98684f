package services

import (
	"sync"

	"megastore/internal/domain"
	"megastore/internal/repos"
)

// CartService is the per-session cart. Each mutation loads, changes and
// saves the whole cart under one lock.
type CartService struct {
	Carts *repos.CartRepo
	mu    sync.Mutex
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts}
}

func (s *CartService) Add(sessionID string, p domain.Product) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.Carts.Load(sessionID)
	if err != nil {
		return nil, err
	}
	cart.Add(p)
	if err := s.Carts.Save(sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveAt drops line i. removed is false and nothing is written when i is
// out of range.
func (s *CartService) RemoveAt(sessionID string, i int) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.Carts.Load(sessionID)
	if err != nil {
		return false, err
	}
	if !cart.RemoveAt(i) {
		return false, nil
	}
	return true, s.Carts.Save(sessionID, cart)
}

func (s *CartService) View(sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Carts.Load(sessionID)
}

// RemoveItems drops the given lines and keeps anything added since they were
// read.
func (s *CartService) RemoveItems(sessionID string, items []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.Carts.Load(sessionID)
	if err != nil {
		return err
	}
	cart.RemoveItems(items)
	if cart.Empty() {
		return s.Carts.Clear(sessionID)
	}
	return s.Carts.Save(sessionID, cart)
}
