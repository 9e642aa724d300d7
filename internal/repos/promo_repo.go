package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PromoRepo struct{ db *sqlx.DB }

func NewPromoRepo(db *sqlx.DB) *PromoRepo { return &PromoRepo{db: db} }

// ByCode does a case-insensitive exact-match lookup. sql.ErrNoRows means
// the code does not exist.
func (r *PromoRepo) ByCode(code string) (domain.Promo, error) {
	var p domain.Promo
	err := r.db.Get(&p, `SELECT code, discount, kind FROM promos WHERE LOWER(code)=LOWER(?)`, code)
	return p, err
}
