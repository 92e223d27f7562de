package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
)

// InsertProduct adds a product to the pantry. A product is keyed by its
// name and expiration date.
func (s *Store) InsertProduct(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, expires_on, category, quantity, price) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.ExpiresOn.Format(domain.DateLayout), p.Category, p.Quantity, p.Price)
	if err != nil {
		return classify(fmt.Sprintf("insert product %q", p.Name), err)
	}
	return nil
}

// DeleteProduct removes a pantry product. Returns ErrNotFound when no row
// matches.
func (s *Store) DeleteProduct(ctx context.Context, name string, expiresOn time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM products WHERE name = ? AND expires_on = ?`,
		name, expiresOn.Format(domain.DateLayout))
	if err != nil {
		return classify(fmt.Sprintf("delete product %q", name), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(fmt.Sprintf("delete product %q", name), err)
	}
	if n == 0 {
		return fmt.Errorf("product %q expiring %s: %w", name, expiresOn.Format(domain.DateLayout), domain.ErrNotFound)
	}
	return nil
}

// ListProducts returns the pantry ordered by expiration date.
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, expires_on, category, quantity, price FROM products ORDER BY expires_on, name`)
	if err != nil {
		return nil, classify("list products", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var expires string
		if err := rows.Scan(&p.Name, &expires, &p.Category, &p.Quantity, &p.Price); err != nil {
			return nil, classify("scan product", err)
		}
		p.ExpiresOn, err = time.ParseInLocation(domain.DateLayout, expires, time.Local)
		if err != nil {
			return nil, fmt.Errorf("product %q has malformed date %q: %w", p.Name, expires, domain.ErrStorage)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list products", err)
	}
	return out, nil
}

// AvailableProducts returns the distinct names of products that expire
// after the given day.
func (s *Store) AvailableProducts(ctx context.Context, asOf time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT name FROM products WHERE expires_on > ? ORDER BY name`,
		asOf.Format(domain.DateLayout))
	if err != nil {
		return nil, classify("available products", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify("scan product name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("available products", err)
	}
	return names, nil
}
