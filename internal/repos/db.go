package repos

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// TimeLayout keeps a fixed fraction width so TEXT timestamps sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func now() string { return time.Now().UTC().Format(TimeLayout) }

// SeedPassword is the password of every demo account.
const SeedPassword = "Passw0rd!"

// HashCost is the bcrypt cost for seeded accounts. Tests lower it.
var HashCost = 12

// OpenDB opens the SQLite database, applies the schema and seeds demo data.
// The pool holds a single connection: SQLite allows one writer at a time and
// ":memory:" databases are private to the connection that created them.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withOptions(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if DB is empty (categories/products)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

// withOptions appends driver parameters unless the caller already set them.
// IMMEDIATE transactions take the write lock at BEGIN so a read-then-write
// unit cannot interleave with another process's writer.
func withOptions(dsn string) string {
	opts := []string{}
	if !strings.Contains(dsn, "foreign_keys") {
		opts = append(opts, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		opts = append(opts, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "_txlock") {
		opts = append(opts, "_txlock=immediate")
	}
	if len(opts) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(opts, "&")
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (length(trim(name)) > 0),
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products (deleting a category removes its products)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  name TEXT NOT NULL CHECK (length(trim(name)) > 0),
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL CHECK (CAST(price AS REAL) >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','STAFF')),
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  ordered_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_product    ON orders(product_id);
CREATE INDEX IF NOT EXISTS idx_orders_ordered_at ON orders(ordered_at);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	ts := now()
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,created_at) VALUES
	  ('lighting','Lighting',?),
	  ('furniture','Furniture',?),
	  ('stationery','Stationery',?)`, ts, ts, ts)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,image_url,stock_quantity,created_at) VALUES
	  ('lamp-001','lighting','Brass Desk Lamp','Adjustable arm, warm bulb included','49.99','https://cdn.example.com/lamp-001.jpg',100,?),
	  ('chair-001','furniture','Oak Reading Chair','Solid oak with linen cushion','189.00','https://cdn.example.com/chair-001.jpg',5,?),
	  ('desk-001','furniture','Walnut Writing Desk','Two drawers, hand finished','420.00','',0,?),
	  ('pen-001','stationery','Fountain Pen','Medium nib, piston filler','35.50','',40,?)`, ts, ts, ts, ts)

	return tx.Commit()
}

// seedUsers ensures two USERs and one STAFF account exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Email, Role string
	}
	users := []u{
		{"u-alice", "alice", "alice@storefront.test", "USER"},
		{"u-bob", "bob", "bob@storefront.test", "USER"},
		{"u-staff", "staff", "staff@storefront.test", "STAFF"},
	}

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		var exists int
		if err := tx.Get(&exists, `SELECT COUNT(*) FROM users WHERE id=?`, x.ID); err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), HashCost)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Username, x.Email, string(h), x.Role, now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
