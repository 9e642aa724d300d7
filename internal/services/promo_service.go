package services

import (
	"database/sql"
	"errors"

	"shopease/internal/domain"
	"shopease/internal/repos"
)

type PromoService struct {
	Promos *repos.PromoRepo
}

func NewPromoService(r *repos.PromoRepo) *PromoService { return &PromoService{Promos: r} }

// Validate looks up a discount code, case-insensitively. An unknown code is
// a user-correctable ErrNotFound, not a fault. Valid codes have no expiry
// or usage limit.
func (s *PromoService) Validate(code string) (domain.Promo, error) {
	p, err := s.Promos.ByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Promo{}, ErrNotFound
	}
	return p, err
}
