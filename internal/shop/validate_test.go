package shop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProductInput(t *testing.T) {
	tests := []struct {
		name    string
		inName  string
		price   string
		wantErr string
	}{
		{"missing name", "", `9.99`, "name is required"},
		{"blank name", "   ", `9.99`, "name is required"},
		{"missing price", "Tea", ``, "price is required"},
		{"null price", "Tea", `null`, "price is required"},
		{"non-numeric price", "Tea", `"cheap"`, "price must be a number"},
		{"negative price", "Tea", `-1`, "price must be >= 0"},
		{"ok number", "Tea", `9.99`, ""},
		{"ok string price", "Tea", `"9.99"`, ""},
		{"ok zero", "Tea", `0`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ValidateProductInput(tt.inName, "", json.RawMessage(tt.price))
			if tt.wantErr != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantErr, ve.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Tea", in.Name)
		})
	}
}

func TestValidateProductInputQuantizes(t *testing.T) {
	in, err := ValidateProductInput(" Mug ", "  ceramic  ", json.RawMessage(`2.005`))
	require.NoError(t, err)
	assert.Equal(t, "Mug", in.Name)
	assert.Equal(t, "ceramic", in.Description)
	assert.Equal(t, "2.01", in.Price.String())
}

func TestValidateCartInput(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  string
		wantErr   string
		wantQty   int64
	}{
		{"missing product_id", ``, `1`, "product_id is required", 0},
		{"null product_id", `null`, `1`, "product_id is required", 0},
		{"non-integer product_id", `"abc"`, `1`, "product_id and quantity must be integers", 0},
		{"fractional quantity", `1`, `1.5`, "product_id and quantity must be integers", 0},
		{"zero quantity", `1`, `0`, "quantity must be >= 1", 0},
		{"negative quantity", `1`, `-3`, "quantity must be >= 1", 0},
		{"defaults to one", `1`, ``, "", 1},
		{"string forms", `"2"`, `"3"`, "", 3},
		{"plain numbers", `2`, `5`, "", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ValidateCartInput(json.RawMessage(tt.productID), json.RawMessage(tt.quantity))
			if tt.wantErr != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantErr, ve.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, in.Quantity)
		})
	}
}
