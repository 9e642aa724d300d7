package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Baseline data: promos, demo users, starter catalog (idempotent; safe
	// to run every start).
	if err := seedPromos(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedProducts(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  dark_mode INTEGER NOT NULL DEFAULT 0,
  role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS addresses(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT, phone TEXT, street TEXT, city TEXT, state TEXT, zip TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Carts & Wishlists, partitioned by owner key ("g:<sid>" or "u:<uid>")
CREATE TABLE IF NOT EXISTS cart_items(
  owner TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price INTEGER NOT NULL,            -- paise
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (owner, product_id)
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  owner TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price INTEGER NOT NULL,
  img TEXT NOT NULL DEFAULT '',
  added_at INTEGER NOT NULL,
  PRIMARY KEY (owner, product_id)
);

-- Promos
CREATE TABLE IF NOT EXISTS promos(
  code TEXT PRIMARY KEY,
  discount INTEGER NOT NULL,
  kind TEXT NOT NULL CHECK (kind IN ('percent','fixed'))
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_promos_code_nocase ON promos(LOWER(code));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  price INTEGER NOT NULL CHECK (price >= 0),
  img TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT 'general',
  description TEXT NOT NULL DEFAULT '',
  inventory INTEGER NOT NULL DEFAULT 0 CHECK (inventory >= 0),
  popular INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_title    ON products(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(LOWER(category));

-- Orders (line items stored as an immutable JSON snapshot)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL REFERENCES users(id),
  items_json TEXT NOT NULL DEFAULT '[]',
  total INTEGER NOT NULL,
  shipping_json TEXT NOT NULL DEFAULT '',
  promo_code TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'confirmed',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  gateway_order_id TEXT NOT NULL DEFAULT '',
  gateway_payment_id TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  estimated_delivery INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC);
-- Idempotency guard: a gateway payment settles into at most one order.
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_gateway_payment
  ON orders(gateway_payment_id) WHERE gateway_payment_id != '';

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id TEXT NOT NULL,
  user_id INTEGER NOT NULL,
  user_name TEXT NOT NULL,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  title TEXT NOT NULL DEFAULT '',
  comment TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  helpful INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id, created_at DESC);

-- Queued notifications (append-only email log)
CREATE TABLE IF NOT EXISTS emails(
  id TEXT PRIMARY KEY,
  recipient TEXT NOT NULL,
  subject TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedPromos(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	promos := []struct {
		Code     string
		Discount int64
		Kind     string
	}{
		{"SAVE10", 10, "percent"},
		{"SAVE100", 10000, "fixed"}, // flat 100.00 off, in paise
	}
	for _, p := range promos {
		if _, err := tx.Exec(`INSERT INTO promos(code,discount,kind) VALUES(?,?,?)
			ON CONFLICT(code) DO NOTHING`, p.Code, p.Discount, p.Kind); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures one demo USER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		Email, Name, Role, Hash string
	}
	mk := func(email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 10)
		return u{Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("user@example.com", "Demo User", "USER", "password"),
		mk("admin@example.com", "Admin", "ADMIN", "admin123"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(email,name,password_hash,role)
			VALUES(?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedProducts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting starter catalog")

	now := time.Now().UnixMilli()
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products(title,price,img,category,description,inventory,popular,created_at,updated_at) VALUES
	  ('Wireless Headphones', 299900, '/img/headphones.jpg', 'electronics', 'Over-ear, 30h battery', 25, 1, ?, ?),
	  ('Classic Sneakers',    199900, '/img/sneakers.jpg',   'shoes',       'Canvas low-tops',      40, 1, ?, ?),
	  ('Ceramic Mug',          49900, '/img/mug.jpg',        'home',        '350ml stoneware',      100, 0, ?, ?)`,
		now, now, now, now, now, now)

	return tx.Commit()
}
