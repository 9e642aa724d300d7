package repos

import (
	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) List(owner domain.CartOwner) ([]domain.WishlistItem, error) {
	out := []domain.WishlistItem{}
	err := r.db.Select(&out, `
	  SELECT product_id, title, price, img, added_at
	  FROM wishlist_items
	  WHERE owner = ?
	  ORDER BY added_at, product_id
	`, owner.Key())
	return out, err
}

// Add inserts the item unless the product is already saved.
func (r *WishlistRepo) Add(owner domain.CartOwner, it domain.WishlistItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(owner,product_id,title,price,img,added_at)
	  VALUES(?,?,?,?,?,?)
	  ON CONFLICT(owner,product_id) DO NOTHING
	`, owner.Key(), it.ProductID, it.Title, it.Price, it.Img, it.AddedAt)
	return err
}

func (r *WishlistRepo) Remove(owner domain.CartOwner, productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE owner=? AND product_id=?`, owner.Key(), productID)
	return err
}

// MergeInto unions the guest wishlist into the user's; existing entries win,
// then guest rows are dropped.
func (r *WishlistRepo) MergeInto(guest, user domain.CartOwner) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO wishlist_items(owner,product_id,title,price,img,added_at)
		SELECT ?, product_id, title, price, img, added_at
		FROM wishlist_items WHERE owner=?
		ON CONFLICT(owner,product_id) DO NOTHING
	`, user.Key(), guest.Key()); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM wishlist_items WHERE owner=?`, guest.Key()); err != nil {
		return err
	}

	return tx.Commit()
}
