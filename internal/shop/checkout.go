package shop

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-minimart/internal/money"
	"github.com/jackc/pgx/v5"
)

type checkoutLine struct {
	ProductID  int64
	Quantity   int64
	PriceCents int64
}

func orderTotal(lines []checkoutLine) money.Money {
	total := money.Zero()
	for _, l := range lines {
		total = total.Add(money.FromCents(l.PriceCents).MulInt(l.Quantity))
	}
	return total
}

// Checkout converts the cart into a persisted order in one transaction:
// load and lock the cart lines, snapshot each product's current price
// into an order item, write the order with the computed total, delete
// the cart rows, commit. If anything fails nothing is persisted and the
// cart stays intact.
//
// The FOR UPDATE lock on the cart rows is what arbitrates concurrent
// checkouts of the shared cart: the loser blocks, re-reads after the
// winner commits, finds the rows gone and fails with ErrEmptyCart. Two
// checkouts never both charge the same cart state.
func (s *Store) Checkout(ctx context.Context, cartID string) (Receipt, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Receipt{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT ci.product_id, ci.quantity, p.price_cents
		FROM cart_items ci
		JOIN catalog_products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
		FOR UPDATE OF ci
	`, cartID)
	if err != nil {
		return Receipt{}, err
	}
	var lines []checkoutLine
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.PriceCents); err != nil {
			rows.Close()
			return Receipt{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Receipt{}, err
	}
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	rec := Receipt{
		Total: orderTotal(lines),
		Items: make([]ReceiptItem, 0, len(lines)),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(total_cents) VALUES ($1)
		RETURNING id, created_at
	`, rec.Total.Cents()).Scan(&rec.OrderID, &rec.CreatedAt)
	if err != nil {
		return Receipt{}, err
	}

	for _, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
		`, rec.OrderID, l.ProductID, l.Quantity, l.PriceCents)
		if err != nil {
			return Receipt{}, err
		}
		rec.Items = append(rec.Items, ReceiptItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: money.FromCents(l.PriceCents),
		})
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return Receipt{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

// GetOrder loads a persisted order with its frozen unit prices.
func (s *Store) GetOrder(ctx context.Context, orderID int64) (Receipt, error) {
	rec := Receipt{OrderID: orderID}
	var cents int64
	err := s.DB.QueryRow(ctx, `SELECT created_at, total_cents FROM orders WHERE id=$1`, orderID).
		Scan(&rec.CreatedAt, &cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, ErrOrderNotFound
	} else if err != nil {
		return Receipt{}, err
	}
	rec.Total = money.FromCents(cents)

	rows, err := s.DB.Query(ctx, `
		SELECT product_id, quantity, unit_price_cents
		FROM order_items WHERE order_id=$1 ORDER BY id ASC
	`, orderID)
	if err != nil {
		return Receipt{}, err
	}
	defer rows.Close()

	rec.Items = make([]ReceiptItem, 0)
	for rows.Next() {
		var it ReceiptItem
		var unit int64
		if err := rows.Scan(&it.ProductID, &it.Quantity, &unit); err != nil {
			return Receipt{}, err
		}
		it.UnitPrice = money.FromCents(unit)
		rec.Items = append(rec.Items, it)
	}
	return rec, rows.Err()
}
