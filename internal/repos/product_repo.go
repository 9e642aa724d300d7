package repos

import (
	"time"

	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, title, price, img, category, description, inventory, popular, created_at, updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

// Search filters by title substring and/or category, both case-insensitive.
func (r *ProductRepo) Search(q, category string, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+q+"%")
	}
	if category != "" {
		where += ` AND LOWER(category) = LOWER(?)`
		args = append(args, category)
	}

	query := `
	  SELECT id, title, price, img, category, description, inventory, popular, created_at, updated_at
	  FROM products
	  WHERE ` + where + `
	  ORDER BY id
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) (int64, error) {
	now := time.Now().UnixMilli()
	res, err := r.db.Exec(`
	  INSERT INTO products(title,price,img,category,description,inventory,popular,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, p.Title, p.Price, p.Img, p.Category, p.Description, p.Inventory, p.Popular, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update overwrites the given product row. Callers patch fields on a copy
// obtained from Get, so absent request fields keep their stored values.
func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET title=?, price=?, img=?, category=?, description=?, inventory=?, popular=?, updated_at=?
	  WHERE id=?
	`, p.Title, p.Price, p.Img, p.Category, p.Description, p.Inventory, p.Popular, time.Now().UnixMilli(), p.ID)
	return err
}

func (r *ProductRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
