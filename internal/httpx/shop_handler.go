package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-minimart/internal/kafka"
	"github.com/ariefcatur/go-minimart/internal/redisx"
	"github.com/ariefcatur/go-minimart/internal/shop"
)

// Store is what the handlers need from the persistence layer.
type Store interface {
	ListProducts(ctx context.Context) ([]shop.Product, error)
	CreateProduct(ctx context.Context, in shop.ProductInput) (shop.Product, error)
	CartSummary(ctx context.Context, cartID string) (shop.CartSummary, error)
	AddToCart(ctx context.Context, cartID string, productID, qty int64) (shop.CartSummary, error)
	Checkout(ctx context.Context, cartID string) (shop.Receipt, error)
	GetOrder(ctx context.Context, orderID int64) (shop.Receipt, error)
}

type ShopHandler struct {
	Store    Store
	Redis    *redis.Client // optional; caches are best-effort
	Producer *kafkax.Producer
	Service  string
}

func (h *ShopHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/cart", h.getCart)
	r.Post("/api/cart", h.addToCart)
	r.Post("/api/checkout", h.checkout)
	r.Get("/api/orders/{id}", h.getOrder)
}

// cartIDFromRequest always resolves the shared cart. Extend here (e.g.
// an X-Cart-Id header) when per-session carts arrive.
func cartIDFromRequest(r *http.Request) string {
	return shop.DefaultCartID
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *shop.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
	case errors.Is(err, shop.ErrProductNotFound), errors.Is(err, shop.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, shop.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Cart is empty"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *ShopHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyProductList).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	ps, err := h.Store.ListProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := json.Marshal(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, redisx.KeyProductList, b, redisx.TTLProductList).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *ShopHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       json.RawMessage `json:"price"`
	}
	// a malformed body is treated as an empty one; validation reports
	// the missing fields
	_ = json.NewDecoder(r.Body).Decode(&req)

	in, err := shop.ValidateProductInput(req.Name, req.Description, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.CreateProduct(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, redisx.KeyProductList).Err()
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created",
		"product": p,
	})
}

func (h *ShopHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sum, err := h.Store.CartSummary(ctx, cartIDFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *ShopHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID json.RawMessage `json:"product_id"`
		Quantity  json.RawMessage `json:"quantity"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	in, err := shop.ValidateCartInput(req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sum, err := h.Store.AddToCart(ctx, cartIDFromRequest(r), in.ProductID, in.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Added to cart",
		"cart":    sum,
	})
}

func (h *ShopHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Store.Checkout(ctx, cartIDFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderReceipt, rec.OrderID)
		if b, err := json.Marshal(rec); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderReceipt).Err()
		}
	}
	h.publishOrderPlaced(r, rec)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Checkout successful",
		"order_id": rec.OrderID,
		"total":    rec.Total,
	})
}

func (h *ShopHandler) publishOrderPlaced(r *http.Request, rec shop.Receipt) {
	if h.Producer == nil {
		return
	}
	items := make([]shop.OrderPlacedItem, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, shop.OrderPlacedItem{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPrice.Cents(),
		})
	}
	ev := shop.Envelope{
		EventID:      uuid.NewString(),
		EventType:    shop.EventOrderPlaced,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
		TraceID:      r.Header.Get("X-Request-Id"),
	}
	ev.Payload = kafkax.MustMarshal(shop.OrderPlacedPayload{
		OrderID:    rec.OrderID,
		CartID:     cartIDFromRequest(r),
		TotalCents: rec.Total.Cents(),
		Items:      items,
	})
	h.Producer.Publish(shop.PartitionKey(rec.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(shop.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *ShopHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, shop.ErrOrderNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderReceipt, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	rec, err := h.Store.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(rec); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderReceipt).Err()
		}
	}
	writeJSON(w, http.StatusOK, rec)
}
