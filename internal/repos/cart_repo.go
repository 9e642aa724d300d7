package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Items(owner domain.CartOwner) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `
	  SELECT product_id, title, price, qty
	  FROM cart_items
	  WHERE owner = ?
	  ORDER BY created_at, product_id
	`, owner.Key())
	return out, err
}

// Upsert adds qty to an existing line or inserts a new one.
func (r *CartRepo) Upsert(owner domain.CartOwner, it domain.CartItem) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(owner,product_id,title,price,qty,created_at)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(owner,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, owner.Key(), it.ProductID, it.Title, it.Price, it.Qty)
	return err
}

// SetQty replaces a line's quantity; qty <= 0 removes the line, so a zero
// quantity is never stored.
func (r *CartRepo) SetQty(owner domain.CartOwner, productID string, qty int) (bool, error) {
	if qty <= 0 {
		res, err := r.db.Exec(`DELETE FROM cart_items WHERE owner=? AND product_id=?`, owner.Key(), productID)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		return n > 0, nil
	}
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty=?, updated_at=CURRENT_TIMESTAMP
		WHERE owner=? AND product_id=?`, qty, owner.Key(), productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Remove(owner domain.CartOwner, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE owner=? AND product_id=?`, owner.Key(), productID)
	return err
}

func (r *CartRepo) Clear(owner domain.CartOwner) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE owner=?`, owner.Key())
	return err
}

// MergeInto folds the guest partition into the user partition, summing
// quantities per product, then drops the guest rows. Called exactly once
// at the sign-in (or sign-up) transition.
func (r *CartRepo) MergeInto(guest, user domain.CartOwner) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lines []domain.CartItem
	if err := tx.Select(&lines, `SELECT product_id, title, price, qty FROM cart_items WHERE owner=?`, guest.Key()); err != nil {
		return err
	}
	for _, it := range lines {
		if _, err := tx.Exec(`
			INSERT INTO cart_items(owner,product_id,title,price,qty,created_at,updated_at)
			VALUES (?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
			ON CONFLICT(owner,product_id) DO UPDATE SET
			  qty = cart_items.qty + excluded.qty,
			  updated_at = CURRENT_TIMESTAMP
		`, user.Key(), it.ProductID, it.Title, it.Price, it.Qty); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE owner=?`, guest.Key()); err != nil {
		return err
	}

	return tx.Commit()
}
