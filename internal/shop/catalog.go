package shop

import (
	"context"

	"github.com/ariefcatur/go-minimart/internal/money"
)

// ListProducts returns the whole catalog, ascending by id.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name, description, price_cents, created_at
	                              FROM catalog_products ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		var cents int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &cents, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Price = money.FromCents(cents)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProduct persists a validated product. The id and creation time
// are server-assigned; products are immutable afterwards.
func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	p := Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO catalog_products(name, description, price_cents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, in.Name, in.Description, in.Price.Cents()).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}
