package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) ListByProduct(productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT id, product_id, user_id, user_name, rating, title, comment, created_at, helpful
	  FROM reviews
	  WHERE product_id = ?
	  ORDER BY created_at DESC
	`, productID)
	return out, err
}

func (r *ReviewRepo) Add(rev domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(product_id,user_id,user_name,rating,title,comment,created_at,helpful)
	  VALUES(?,?,?,?,?,?,?,0)
	`, rev.ProductID, rev.UserID, rev.UserName, rev.Rating, rev.Title, rev.Comment, rev.CreatedAt)
	return err
}
