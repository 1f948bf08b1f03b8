package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-minimart/internal/money"
	"github.com/ariefcatur/go-minimart/internal/shop"
)

type fakeStore struct {
	products []shop.Product
	summary  shop.CartSummary
	receipt  shop.Receipt
	err      error

	gotCartID    string
	gotProductID int64
	gotQty       int64
	gotInput     shop.ProductInput
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]shop.Product, error) {
	return f.products, f.err
}

func (f *fakeStore) CreateProduct(ctx context.Context, in shop.ProductInput) (shop.Product, error) {
	f.gotInput = in
	if f.err != nil {
		return shop.Product{}, f.err
	}
	return shop.Product{ID: 1, Name: in.Name, Description: in.Description, Price: in.Price}, nil
}

func (f *fakeStore) CartSummary(ctx context.Context, cartID string) (shop.CartSummary, error) {
	f.gotCartID = cartID
	return f.summary, f.err
}

func (f *fakeStore) AddToCart(ctx context.Context, cartID string, productID, qty int64) (shop.CartSummary, error) {
	f.gotCartID, f.gotProductID, f.gotQty = cartID, productID, qty
	return f.summary, f.err
}

func (f *fakeStore) Checkout(ctx context.Context, cartID string) (shop.Receipt, error) {
	f.gotCartID = cartID
	return f.receipt, f.err
}

func (f *fakeStore) GetOrder(ctx context.Context, orderID int64) (shop.Receipt, error) {
	return f.receipt, f.err
}

func newTestServer(t *testing.T, fs *fakeStore) *httptest.Server {
	t.Helper()
	r := NewRouter()
	h := &ShopHandler{Store: fs, Service: "minimart-api-test"}
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func mustMoney(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.Parse(s)
	require.NoError(t, err)
	return m
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestListProducts(t *testing.T) {
	fs := &fakeStore{products: []shop.Product{
		{ID: 1, Name: "Tea", Description: "loose leaf", Price: mustMoney(t, "9.9")},
	}}
	srv := newTestServer(t, fs)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/products", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// prices always carry two fraction digits on the wire
	assert.JSONEq(t, `[{"id":1,"name":"Tea","description":"loose leaf","price":9.90}]`, body)
}

func TestCreateProduct(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		fs := &fakeStore{}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/products",
			`{"name":"  Tea  ","description":"loose leaf","price":"9.99"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Product created","product":{"id":1,"name":"Tea","description":"loose leaf","price":9.99}}`, body)
		assert.Equal(t, "Tea", fs.gotInput.Name)
	})

	t.Run("validation", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{})
		for body, wantMsg := range map[string]string{
			`{"price":9.99}`:                 "name is required",
			`{"name":"Tea"}`:                 "price is required",
			`{"name":"Tea","price":"cheap"}`: "price must be a number",
			`{"name":"Tea","price":-1}`:      "price must be >= 0",
			`not json at all`:                "name is required",
		} {
			resp, got := doJSON(t, http.MethodPost, srv.URL+"/api/products", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			assert.JSONEq(t, `{"error":"`+wantMsg+`"}`, got, body)
		}
	})
}

func TestGetCart(t *testing.T) {
	fs := &fakeStore{summary: shop.CartSummary{
		Items: []shop.CartLine{{
			CartItemID: 4, ProductID: 1, Name: "Tea",
			Price: mustMoney(t, "9.99"), Quantity: 2, LineTotal: mustMoney(t, "19.98"),
		}},
		Total: mustMoney(t, "19.98"),
	}}
	srv := newTestServer(t, fs)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/cart", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[{"cart_item_id":4,"product_id":1,"name":"Tea","price":9.99,"quantity":2,"line_total":19.98}],"total":19.98}`, body)
	assert.Equal(t, shop.DefaultCartID, fs.gotCartID)
}

func TestAddToCart(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		fs := &fakeStore{summary: shop.CartSummary{Items: []shop.CartLine{}, Total: money.Zero()}}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/cart", `{"product_id":1,"quantity":2}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Added to cart","cart":{"items":[],"total":0.00}}`, body)
		assert.Equal(t, shop.DefaultCartID, fs.gotCartID)
		assert.Equal(t, int64(1), fs.gotProductID)
		assert.Equal(t, int64(2), fs.gotQty)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		fs := &fakeStore{summary: shop.CartSummary{Items: []shop.CartLine{}, Total: money.Zero()}}
		srv := newTestServer(t, fs)
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/cart", `{"product_id":1}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(1), fs.gotQty)
	})

	t.Run("unknown product", func(t *testing.T) {
		fs := &fakeStore{err: shop.ErrProductNotFound}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/cart", `{"product_id":99}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"product not found"}`, body)
	})

	t.Run("validation", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{})
		for body, wantMsg := range map[string]string{
			`{}`:                             "product_id is required",
			`{"product_id":"x"}`:             "product_id and quantity must be integers",
			`{"product_id":1,"quantity":0}`:  "quantity must be >= 1",
			`{"product_id":1,"quantity":-2}`: "quantity must be >= 1",
			`{"product_id":1,"quantity":"1.5"}`: "product_id and quantity must be integers",
		} {
			resp, got := doJSON(t, http.MethodPost, srv.URL+"/api/cart", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			assert.JSONEq(t, `{"error":"`+wantMsg+`"}`, got, body)
		}
	})
}

func TestCheckout(t *testing.T) {
	t.Run("successful", func(t *testing.T) {
		fs := &fakeStore{receipt: shop.Receipt{
			OrderID:   7,
			CreatedAt: time.Now(),
			Total:     mustMoney(t, "24.98"),
			Items: []shop.ReceiptItem{
				{ProductID: 1, Quantity: 2, UnitPrice: mustMoney(t, "9.99")},
				{ProductID: 2, Quantity: 1, UnitPrice: mustMoney(t, "5.00")},
			},
		}}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Checkout successful","order_id":7,"total":24.98}`, body)
	})

	t.Run("empty cart", func(t *testing.T) {
		fs := &fakeStore{err: shop.ErrEmptyCart}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Cart is empty"}`, body)
	})
}

func TestGetOrder(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		fs := &fakeStore{receipt: shop.Receipt{
			OrderID:   7,
			CreatedAt: created,
			Total:     mustMoney(t, "24.98"),
			Items:     []shop.ReceiptItem{{ProductID: 1, Quantity: 2, UnitPrice: mustMoney(t, "9.99")}},
		}}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/orders/7", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"order_id":7,"created_at":"2026-08-30T12:00:00Z","total":24.98,"items":[{"product_id":1,"quantity":2,"unit_price":9.99}]}`, body)
	})

	t.Run("missing", func(t *testing.T) {
		fs := &fakeStore{err: shop.ErrOrderNotFound}
		srv := newTestServer(t, fs)
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/orders/999", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"order not found"}`, body)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{})
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/orders/abc", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
