package shop

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-minimart/internal/money"
	"github.com/jackc/pgx/v5"
)

type cartRow struct {
	CartItemID int64
	ProductID  int64
	Name       string
	PriceCents int64
	Quantity   int64
}

// buildSummary computes line totals and the grand total with exact
// decimal arithmetic.
func buildSummary(rows []cartRow) CartSummary {
	sum := CartSummary{Items: make([]CartLine, 0, len(rows))}
	total := money.Zero()
	for _, r := range rows {
		unit := money.FromCents(r.PriceCents)
		line := unit.MulInt(r.Quantity)
		total = total.Add(line)
		sum.Items = append(sum.Items, CartLine{
			CartItemID: r.CartItemID,
			ProductID:  r.ProductID,
			Name:       r.Name,
			Price:      unit,
			Quantity:   r.Quantity,
			LineTotal:  line,
		})
	}
	sum.Total = total
	return sum
}

// CartSummary joins the cart's items with their products. An empty cart
// yields an empty item list and a 0.00 total.
func (s *Store) CartSummary(ctx context.Context, cartID string) (CartSummary, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price_cents, ci.quantity
		FROM cart_items ci
		JOIN catalog_products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
	`, cartID)
	if err != nil {
		return CartSummary{}, err
	}
	defer rows.Close()

	var out []cartRow
	for rows.Next() {
		var r cartRow
		if err := rows.Scan(&r.CartItemID, &r.ProductID, &r.Name, &r.PriceCents, &r.Quantity); err != nil {
			return CartSummary{}, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return CartSummary{}, err
	}
	return buildSummary(out), nil
}

// AddToCart increments the (cart_id, product_id) line by qty, inserting
// it if absent. The existence check and the upsert share one transaction
// so concurrent adds can neither lose increments nor duplicate lines.
func (s *Store) AddToCart(ctx context.Context, cartID string, productID, qty int64) (CartSummary, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CartSummary{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var one int
	err = tx.QueryRow(ctx, `SELECT 1 FROM catalog_products WHERE id=$1`, productID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return CartSummary{}, ErrProductNotFound
	} else if err != nil {
		return CartSummary{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items(cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, cartID, productID, qty)
	if err != nil {
		return CartSummary{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return CartSummary{}, err
	}
	return s.CartSummary(ctx, cartID)
}

// ClearCart removes every item for cartID. Idempotent.
func (s *Store) ClearCart(ctx context.Context, cartID string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}
