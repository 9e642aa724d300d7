package services

import (
	"time"

	"shopease/internal/domain"
	"shopease/internal/repos"
)

type WishlistService struct {
	Repo *repos.WishlistRepo
}

func NewWishlistService(r *repos.WishlistRepo) *WishlistService { return &WishlistService{Repo: r} }

func (s *WishlistService) List(owner domain.CartOwner) ([]domain.WishlistItem, error) {
	return s.Repo.List(owner)
}

// Save adds the product once; saving an already-saved product is a no-op.
func (s *WishlistService) Save(owner domain.CartOwner, it domain.WishlistItem) ([]domain.WishlistItem, error) {
	if it.AddedAt == 0 {
		it.AddedAt = time.Now().UnixMilli()
	}
	if err := s.Repo.Add(owner, it); err != nil {
		return nil, err
	}
	return s.Repo.List(owner)
}

func (s *WishlistService) Unsave(owner domain.CartOwner, productID string) ([]domain.WishlistItem, error) {
	if err := s.Repo.Remove(owner, productID); err != nil {
		return nil, err
	}
	return s.Repo.List(owner)
}
