package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-gateway-key")
	c.httpClient = srv.Client()
	return c
}

func TestLogin(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req loginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "jwt-token",
			"user": map[string]string{
				"id": "u1", "username": "alice", "email": "alice@example.com", "role": "ROLE_USER",
			},
		})
	}))

	ident, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if ident.Token != "jwt-token" || ident.UserID != "u1" || ident.Role != model.RoleShopper {
		t.Errorf("identity = %+v", ident)
	}

	_, err = c.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, model.ErrAuthRejected) {
		t.Errorf("bad credentials err = %v, want ErrAuthRejected", err)
	}
}

func TestLoginAdminRole(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "jwt-token",
			"user":  map[string]string{"id": "u9", "username": "root", "role": "ROLE_ADMIN"},
		})
	}))

	ident, err := c.Login(context.Background(), "root", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if ident.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", ident.Role)
	}
}

func TestFetchProductsConvertsPrices(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "p1", "name": "Shirt", "price": 19.99, "sizes": []string{"S", "M"}},
		})
	}))

	products, err := c.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("len = %d, want 1", len(products))
	}
	if products[0].PriceCents != 1999 {
		t.Errorf("PriceCents = %d, want 1999", products[0].PriceCents)
	}
}

func TestFetchCartWire(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/u1/cart" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Gateway-Key"); got != "test-gateway-key" {
			t.Errorf("X-Gateway-Key = %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"product":      map[string]any{"id": "p1", "name": "Shirt", "price": 10.00},
				"quantity":     2,
				"selectedSize": "M",
			},
		})
	}))

	lines, err := c.FetchCart(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("FetchCart: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 || lines[0].Variant != "M" {
		t.Errorf("lines = %+v", lines)
	}
}

func TestReplaceCartSendsFullDocument(t *testing.T) {
	var got []wireCartItem
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/u1/cart" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))

	lines := []model.CartLine{
		{Product: model.Product{ID: "p1", PriceCents: 1999}, Quantity: 3, Variant: "L"},
	}
	if err := c.ReplaceCart(context.Background(), "tok", "u1", lines); err != nil {
		t.Fatalf("ReplaceCart: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 3 || got[0].SelectedSize != "L" {
		t.Errorf("wire payload = %+v", got)
	}
	if got[0].Product.Price != 19.99 {
		t.Errorf("wire price = %v, want 19.99", got[0].Product.Price)
	}
}

func TestPlaceOrder(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req wireOrder
		json.NewDecoder(r.Body).Decode(&req)
		req.ID = "o1"
		req.Status = "PENDING"
		json.NewEncoder(w).Encode(req)
	}))

	order := model.Order{
		UserID:     "u1",
		Username:   "alice",
		Items:      []model.OrderItem{{ProductID: "p1", Quantity: 1, PriceCents: 1999}},
		TotalCents: 1999,
	}
	placed, err := c.PlaceOrder(context.Background(), "tok", order)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if placed.ID != "o1" || placed.Status != "PENDING" || placed.TotalCents != 1999 {
		t.Errorf("placed = %+v", placed)
	}
}

func TestUpstreamErrors(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/api/products/broken":
			w.Write([]byte(`{not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	_, err := c.FetchProduct(context.Background(), "missing")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("404 err = %v, want ErrNotFound", err)
	}

	_, err = c.FetchProduct(context.Background(), "broken")
	if !errors.Is(err, model.ErrParseFailure) {
		t.Errorf("malformed body err = %v, want ErrParseFailure", err)
	}

	_, err = c.FetchProducts(context.Background())
	if !errors.Is(err, model.ErrUpstreamError) {
		t.Errorf("500 err = %v, want ErrUpstreamError", err)
	}
}
