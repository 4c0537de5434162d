package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

// SQLStore implements Store on MySQL or PostgreSQL. Queries are written with
// ? placeholders and rebound per dialect.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLStore) exec(ctx context.Context, q queryer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, q queryer, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, q queryer, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// insertID runs an INSERT and returns the generated id.
func (s *SQLStore) insertID(ctx context.Context, q queryer, query string, args ...any) (int64, error) {
	if s.dialect == DialectPostgres {
		var id int64
		if err := s.queryRow(ctx, q, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := s.exec(ctx, q, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLStore) UpsertProduct(ctx context.Context, p domain.Product) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()

	var id int64
	err = s.queryRow(ctx, tx, `SELECT id FROM products WHERE slug = ?`, p.Slug).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id, err = s.insertID(ctx, tx, `
INSERT INTO products
  (upstream_id, slug, title, description, materials, colors, room, category, badges,
   price, compare_at_price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.UpstreamID, p.Slug, p.Title, p.Description,
			encodeList(p.Materials), encodeList(p.Colors), nullString(p.Room), nullString(p.Category), encodeList(p.Badges),
			p.Price, nullInt64(p.CompareAtPrice), now, now,
		)
		if err != nil {
			return 0, false, fmt.Errorf("insert product %s: %w", p.Slug, err)
		}
		if err := tx.Commit(); err != nil {
			return 0, false, err
		}
		return id, true, nil

	case err != nil:
		return 0, false, err
	}

	_, err = s.exec(ctx, tx, `
UPDATE products
SET upstream_id = ?, title = ?, description = ?, materials = ?, colors = ?, room = ?,
    category = ?, badges = ?, price = ?, compare_at_price = ?, updated_at = ?
WHERE id = ?`,
		p.UpstreamID, p.Title, p.Description,
		encodeList(p.Materials), encodeList(p.Colors), nullString(p.Room), nullString(p.Category), encodeList(p.Badges),
		p.Price, nullInt64(p.CompareAtPrice), now, id,
	)
	if err != nil {
		return 0, false, fmt.Errorf("update product %s: %w", p.Slug, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return id, false, nil
}

func (s *SQLStore) ReplaceImages(ctx context.Context, productID int64, images []domain.Image) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.exec(ctx, tx, `DELETE FROM product_images WHERE product_id = ?`, productID); err != nil {
		return err
	}

	for _, img := range images {
		_, err := s.exec(ctx, tx, `
INSERT INTO product_images (product_id, position, url, alt_text)
VALUES (?, ?, ?, ?)`,
			productID, img.Position, img.URL, nullString(img.AltText),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) ReplaceVariants(ctx context.Context, productID int64, variants []domain.Variant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.exec(ctx, tx, `DELETE FROM product_variants WHERE product_id = ?`, productID); err != nil {
		return err
	}

	for _, v := range variants {
		opts, err := v.Options.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = s.exec(ctx, tx, `
INSERT INTO product_variants
  (product_id, position, name, options, price, compare_at_price, sku, inventory, available)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			productID, v.Position, v.Name, string(opts),
			v.Price, nullInt64(v.CompareAtPrice), nullString(v.SKU), v.Inventory, v.Available,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) UpsertCollection(ctx context.Context, c domain.Collection) (int64, error) {
	if s.dialect == DialectPostgres {
		var id int64
		err := s.queryRow(ctx, s.db, `
INSERT INTO collections (handle, title, description)
VALUES (?, ?, ?)
ON CONFLICT (handle) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
RETURNING id`,
			c.Handle, c.Title, nullString(c.Description),
		).Scan(&id)
		return id, err
	}

	res, err := s.exec(ctx, s.db, `
INSERT INTO collections (handle, title, description)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  title = VALUES(title),
  description = VALUES(description),
  id = LAST_INSERT_ID(id)`,
		c.Handle, c.Title, nullString(c.Description),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLStore) EnsureMembership(ctx context.Context, productID, collectionID int64) (bool, error) {
	res, err := s.exec(ctx, s.db, s.dialect.insertIgnore("product_collections", "product_id, collection_id"), productID, collectionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const productColumns = `id, upstream_id, slug, title, description, materials, colors, room, category, badges,
price, compare_at_price, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var (
		p                       domain.Product
		materials, colors, bdgs sql.NullString
		room, category          sql.NullString
		compareAt               sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.UpstreamID, &p.Slug, &p.Title, &p.Description,
		&materials, &colors, &room, &category, &bdgs,
		&p.Price, &compareAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if p.Materials, err = decodeList(materials); err != nil {
		return domain.Product{}, err
	}
	if p.Colors, err = decodeList(colors); err != nil {
		return domain.Product{}, err
	}
	if p.Badges, err = decodeList(bdgs); err != nil {
		return domain.Product{}, err
	}
	p.Room = stringFromNull(room)
	p.Category = stringFromNull(category)
	p.CompareAtPrice = int64FromNull(compareAt)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (s *SQLStore) GetProductBySlug(ctx context.Context, slug string) (domain.Product, bool, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}

func (s *SQLStore) ListImages(ctx context.Context, productID int64) ([]domain.Image, error) {
	rows, err := s.query(ctx, s.db, `
SELECT product_id, position, url, alt_text
FROM product_images
WHERE product_id = ?
ORDER BY position ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Image, 0)
	for rows.Next() {
		var (
			img domain.Image
			alt sql.NullString
		)
		if err := rows.Scan(&img.ProductID, &img.Position, &img.URL, &alt); err != nil {
			return nil, err
		}
		img.AltText = stringFromNull(alt)
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListVariants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	rows, err := s.query(ctx, s.db, `
SELECT product_id, position, name, options, price, compare_at_price, sku, inventory, available
FROM product_variants
WHERE product_id = ?
ORDER BY position ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Variant, 0)
	for rows.Next() {
		var (
			v         domain.Variant
			opts      string
			compareAt sql.NullInt64
			sku       sql.NullString
		)
		if err := rows.Scan(&v.ProductID, &v.Position, &v.Name, &opts, &v.Price, &compareAt, &sku, &v.Inventory, &v.Available); err != nil {
			return nil, err
		}
		if err := v.Options.UnmarshalJSON([]byte(opts)); err != nil {
			return nil, fmt.Errorf("variant options for product %d: %w", productID, err)
		}
		v.CompareAtPrice = int64FromNull(compareAt)
		v.SKU = stringFromNull(sku)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListProductCollections(ctx context.Context, productID int64) ([]domain.Collection, error) {
	rows, err := s.query(ctx, s.db, `
SELECT c.id, c.handle, c.title, c.description
FROM collections c
JOIN product_collections pc ON pc.collection_id = c.id
WHERE pc.product_id = ?
ORDER BY c.id ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Collection, 0)
	for rows.Next() {
		var (
			c    domain.Collection
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Handle, &c.Title, &desc); err != nil {
			return nil, err
		}
		c.Description = stringFromNull(desc)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListUncategorized(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+productColumns+` FROM products WHERE category IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetCategory(ctx context.Context, productID int64, category string) error {
	_, err := s.exec(ctx, s.db, `UPDATE products SET category = ? WHERE id = ?`, category, productID)
	return err
}
