package services

import (
	"shopease/internal/domain"
	"shopease/internal/repos"
)

// CartService mutates one cart partition at a time. Mutations are
// serialized per owner so two concurrent updates to the same cart cannot
// lose each other's writes.
type CartService struct {
	Carts *repos.CartRepo
	locks *keyLock
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts, locks: newKeyLock()}
}

func (s *CartService) Items(owner domain.CartOwner) ([]domain.CartItem, error) {
	return s.Carts.Items(owner)
}

// Add puts qty units of the product into the cart (summing with an existing
// line) and returns the updated cart.
func (s *CartService) Add(owner domain.CartOwner, it domain.CartItem) ([]domain.CartItem, error) {
	if it.Qty < 1 {
		it.Qty = 1
	}
	unlock := s.locks.Lock(owner.Key())
	defer unlock()

	if err := s.Carts.Upsert(owner, it); err != nil {
		return nil, err
	}
	return s.Carts.Items(owner)
}

// UpdateQty sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQty(owner domain.CartOwner, productID string, qty int) ([]domain.CartItem, error) {
	unlock := s.locks.Lock(owner.Key())
	defer unlock()

	found, err := s.Carts.SetQty(owner, productID, qty)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return s.Carts.Items(owner)
}

func (s *CartService) Remove(owner domain.CartOwner, productID string) ([]domain.CartItem, error) {
	unlock := s.locks.Lock(owner.Key())
	defer unlock()

	if err := s.Carts.Remove(owner, productID); err != nil {
		return nil, err
	}
	return s.Carts.Items(owner)
}

func (s *CartService) Clear(owner domain.CartOwner) error {
	unlock := s.locks.Lock(owner.Key())
	defer unlock()

	return s.Carts.Clear(owner)
}
