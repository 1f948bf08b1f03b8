package shop

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-minimart/internal/money"
)

// Write payloads are decoded with raw fields so that "12.34" and 12.34
// (or "2" and 2) are both accepted, like the dynamic clients this API
// serves send them. Validation normalizes and classifies in one place.

type ProductInput struct {
	Name        string
	Description string
	Price       money.Money
}

func ValidateProductInput(name, description string, price json.RawMessage) (ProductInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProductInput{}, invalid("name is required")
	}
	if fieldAbsent(price) {
		return ProductInput{}, invalid("price is required")
	}
	m, err := money.Parse(rawScalar(price))
	if err != nil {
		return ProductInput{}, invalid("price must be a number")
	}
	if m.IsNegative() {
		return ProductInput{}, invalid("price must be >= 0")
	}
	return ProductInput{
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       m.Round(),
	}, nil
}

type CartInput struct {
	ProductID int64
	Quantity  int64
}

// ValidateCartInput applies the add-to-cart rules: product_id required,
// both fields integral, quantity defaults to 1 and must be >= 1.
func ValidateCartInput(productID, quantity json.RawMessage) (CartInput, error) {
	if fieldAbsent(productID) {
		return CartInput{}, invalid("product_id is required")
	}
	pid, err := rawInt(productID)
	if err != nil {
		return CartInput{}, invalid("product_id and quantity must be integers")
	}
	qty := int64(1)
	if !fieldAbsent(quantity) {
		qty, err = rawInt(quantity)
		if err != nil {
			return CartInput{}, invalid("product_id and quantity must be integers")
		}
	}
	if qty <= 0 {
		return CartInput{}, invalid("quantity must be >= 1")
	}
	return CartInput{ProductID: pid, Quantity: qty}, nil
}

func fieldAbsent(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// rawScalar strips quotes off a JSON string so numeric strings parse
// the same as numbers.
func rawScalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

func rawInt(raw json.RawMessage) (int64, error) {
	return strconv.ParseInt(rawScalar(raw), 10, 64)
}
