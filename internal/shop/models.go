package shop

import (
	"time"

	"github.com/ariefcatur/go-minimart/internal/money"
)

// DefaultCartID is the single logical cart shared by every request.
// There is no per-user scoping; requests route it through the same
// store paths any other cart id would take.
const DefaultCartID = "default"

type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
	CreatedAt   time.Time   `json:"-"`
}

// CartLine is one cart row joined with its product.
type CartLine struct {
	CartItemID int64       `json:"cart_item_id"`
	ProductID  int64       `json:"product_id"`
	Name       string      `json:"name"`
	Price      money.Money `json:"price"`
	Quantity   int64       `json:"quantity"`
	LineTotal  money.Money `json:"line_total"`
}

type CartSummary struct {
	Items []CartLine  `json:"items"`
	Total money.Money `json:"total"`
}

// Receipt is the read model for a persisted order. UnitPrice is the
// price frozen at checkout time, not the product's current price.
type Receipt struct {
	OrderID   int64         `json:"order_id"`
	CreatedAt time.Time     `json:"created_at"`
	Total     money.Money   `json:"total"`
	Items     []ReceiptItem `json:"items"`
}

type ReceiptItem struct {
	ProductID int64       `json:"product_id"`
	Quantity  int64       `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
}
