package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rasoi/internal/cart"
	"rasoi/internal/catalog"
	"rasoi/internal/events"
	"rasoi/internal/inventory"

	"github.com/gin-gonic/gin"
)

// newTestRouter wires cart + orders + inventory against in-memory
// stores, with a stub auth middleware injecting the staff identity.
func newTestRouter(t *testing.T) (*gin.Engine, *cart.Store, *inventory.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.NewService(catalog.NewInMemoryRepository(), nil)
	ctx := context.Background()
	if err := cat.CreateMenuItem(ctx, &catalog.MenuItem{ID: "pizza", Name: "Margherita", Price: 12}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	carts := cart.NewStore(cat, 0.08, 0.10)
	inv := inventory.NewService(inventory.NewInMemoryRepository(), events.NopPublisher{})
	svc := NewService(NewInMemoryRepository(), inv, events.NopPublisher{})
	h := NewHandler(svc, carts)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "staff-1") })
	r.POST("/orders", h.Create)
	r.GET("/orders/:id", h.Get)
	r.POST("/orders/:id/transition", h.Transition)
	return r, carts, inv
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderFromCart(t *testing.T) {
	r, carts, _ := newTestRouter(t)

	if _, err := carts.AddLine(context.Background(), "staff-1", "pizza", 2, nil, ""); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/orders", gin.H{"type": "takeout"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var o Order
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Status != StatusPending || o.Type != TypeTakeout {
		t.Errorf("order = %s/%s, want pending takeout", o.Status, o.Type)
	}
	if o.Subtotal != 24.00 {
		t.Errorf("subtotal = %v, want 24.00", o.Subtotal)
	}

	// Cart must be consumed by checkout.
	snapshot, _ := carts.Snapshot("staff-1")
	if len(snapshot.Lines) != 0 {
		t.Errorf("cart still holds %d lines after checkout", len(snapshot.Lines))
	}
}

func TestCreateOrderInvalidTypeKeepsCart(t *testing.T) {
	r, carts, _ := newTestRouter(t)

	carts.AddLine(context.Background(), "staff-1", "pizza", 1, nil, "")

	w := doJSON(r, http.MethodPost, "/orders", gin.H{"type": "drive_by"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown type", w.Code)
	}

	// A rejected request must not consume the cart.
	snapshot, _ := carts.Snapshot("staff-1")
	if len(snapshot.Lines) != 1 {
		t.Errorf("cart lines after rejected create = %d, want 1", len(snapshot.Lines))
	}
}

func TestCreateOrderEmptyCartFails(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/orders", gin.H{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty cart", w.Code)
	}
}

func TestTransitionEndpointInvalidMove(t *testing.T) {
	r, carts, _ := newTestRouter(t)

	carts.AddLine(context.Background(), "staff-1", "pizza", 1, nil, "")
	w := doJSON(r, http.MethodPost, "/orders", gin.H{}, nil)

	var o Order
	json.Unmarshal(w.Body.Bytes(), &o)

	w = doJSON(r, http.MethodPost, "/orders/"+o.ID+"/transition", gin.H{"status": StatusPaid}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var resp struct {
		Kind string `json:"kind"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Kind != "invalid_transition" {
		t.Errorf("kind = %s, want invalid_transition", resp.Kind)
	}
}

func TestTransitionEndpointInsufficientStock(t *testing.T) {
	r, carts, inv := newTestRouter(t)
	ctx := context.Background()

	if err := inv.CreateItem(ctx, &inventory.Item{ID: "flour", Name: "Flour", Unit: "kg", Stock: 1}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	if err := inv.SetRecipe(ctx, "pizza", []inventory.RecipeIngredient{{ItemID: "flour", Quantity: 1}}); err != nil {
		t.Fatalf("set recipe: %v", err)
	}

	carts.AddLine(ctx, "staff-1", "pizza", 3, nil, "")
	w := doJSON(r, http.MethodPost, "/orders", gin.H{}, nil)

	var o Order
	json.Unmarshal(w.Body.Bytes(), &o)

	w = doJSON(r, http.MethodPost, "/orders/"+o.ID+"/transition", gin.H{"status": StatusPreparing}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Kind       string                `json:"kind"`
		Shortfalls []inventory.Shortfall `json:"shortfalls"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Kind != "insufficient_stock" {
		t.Errorf("kind = %s, want insufficient_stock", resp.Kind)
	}
	if len(resp.Shortfalls) != 1 || resp.Shortfalls[0].Required != 3 {
		t.Errorf("shortfalls = %+v, want flour needing 3", resp.Shortfalls)
	}
}

func TestIdempotencyKeyHeaderOnCreate(t *testing.T) {
	r, carts, _ := newTestRouter(t)
	ctx := context.Background()

	carts.AddLine(ctx, "staff-1", "pizza", 1, nil, "")
	headers := map[string]string{"Idempotency-Key": "abc-123"}

	w := doJSON(r, http.MethodPost, "/orders", gin.H{}, headers)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}
	var first Order
	json.Unmarshal(w.Body.Bytes(), &first)

	// A retried request checks out a fresh cart, but the key replay
	// returns the original order instead of creating a second one.
	carts.AddLine(ctx, "staff-1", "pizza", 1, nil, "")
	w = doJSON(r, http.MethodPost, "/orders", gin.H{}, headers)
	if w.Code != http.StatusCreated {
		t.Fatalf("retry status = %d, body %s", w.Code, w.Body.String())
	}
	var second Order
	json.Unmarshal(w.Body.Bytes(), &second)

	if first.ID != second.ID {
		t.Errorf("retried create made a new order")
	}
}
