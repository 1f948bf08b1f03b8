package shop

import "github.com/jackc/pgx/v5/pgxpool"

// Store is the persistence layer for the catalog, the cart, and orders.
// Every write method runs inside a single transaction.
type Store struct {
	DB *pgxpool.Pool
}
