package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/transport"
)

const userAgent = "ShopNest-Gateway/1.0"

// Client is the HTTP client for the ShopNest backend API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	gatewayKey string
}

// NewClient creates a backend client for the given base URL, e.g.
// "https://api.shopnest.example". gatewayKey, when non-empty, is sent
// on every request so the backend can tell trusted gateways from
// direct traffic.
func NewClient(baseURL, gatewayKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport.NewBrowserTransport(30 * time.Second),
		},
		baseURL:    baseURL,
		gatewayKey: gatewayKey,
	}
}

// === Authentication ===

func (c *Client) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return identityFromAuth(resp)
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*model.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("creating register request: %w", err)
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return identityFromAuth(resp)
}

func identityFromAuth(resp authResponse) (*model.Identity, error) {
	if resp.Token == "" {
		return nil, model.NewParseError("auth response", fmt.Errorf("missing token"))
	}
	role := model.RoleShopper
	if resp.User.Role == "ROLE_ADMIN" {
		role = model.RoleAdmin
	}
	return &model.Identity{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		FullName: resp.User.FullName,
		Token:    resp.Token,
		Role:     role,
	}, nil
}

// === Catalog ===

func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	return c.fetchProductList(ctx, "/api/products")
}

func (c *Client) FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return c.fetchProductList(ctx, "/api/products/category/"+url.PathEscape(category))
}

func (c *Client) fetchProductList(ctx context.Context, path string) ([]model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("creating products request: %w", err)
	}

	var resp []wireProduct
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(resp))
	for _, w := range resp {
		products = append(products, productFromWire(w))
	}
	return products, nil
}

func (c *Client) FetchProduct(ctx context.Context, id string) (*model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, fmt.Errorf("creating product request: %w", err)
	}

	var resp wireProduct
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	p := productFromWire(resp)
	return &p, nil
}

// === Cart ===

func (c *Client) FetchCart(ctx context.Context, token, userID string) ([]model.CartLine, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/cart", nil, token)
	if err != nil {
		return nil, fmt.Errorf("creating cart request: %w", err)
	}

	var resp []wireCartItem
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return cartFromWire(resp), nil
}

// ReplaceCart overwrites the server cart with the given lines. The
// server document is a full replacement, never a patch.
func (c *Client) ReplaceCart(ctx context.Context, token, userID string, lines []model.CartLine) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/cart", cartToWire(lines), token)
	if err != nil {
		return fmt.Errorf("creating cart update request: %w", err)
	}
	return c.do(req, nil)
}

// === Wishlist ===

func (c *Client) FetchWishlist(ctx context.Context, token, userID string) ([]model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/wishlist", nil, token)
	if err != nil {
		return nil, fmt.Errorf("creating wishlist request: %w", err)
	}

	var resp []wireProduct
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	entries := make([]model.Product, 0, len(resp))
	for _, w := range resp {
		entries = append(entries, productFromWire(w))
	}
	return entries, nil
}

func (c *Client) ReplaceWishlist(ctx context.Context, token, userID string, entries []model.Product) error {
	wire := make([]wireProduct, 0, len(entries))
	for _, p := range entries {
		wire = append(wire, productToWire(p))
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/wishlist", wire, token)
	if err != nil {
		return fmt.Errorf("creating wishlist update request: %w", err)
	}
	return c.do(req, nil)
}

// === Orders ===

func (c *Client) PlaceOrder(ctx context.Context, token string, order model.Order) (*model.Order, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/orders", orderToWire(order), token)
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}

	var resp wireOrder
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	placed := orderFromWire(resp)
	return &placed, nil
}

func (c *Client) FetchOrders(ctx context.Context, token, userID string) ([]model.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/orders/user/"+url.PathEscape(userID), nil, token)
	if err != nil {
		return nil, fmt.Errorf("creating orders request: %w", err)
	}

	var resp []wireOrder
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(resp))
	for _, w := range resp {
		orders = append(orders, orderFromWire(w))
	}
	return orders, nil
}

// === HTTP helpers ===

// newRequest creates an HTTP request. token is empty for public
// endpoints and a bearer credential for authenticated ones.
func (c *Client) newRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.gatewayKey != "" {
		req.Header.Set("X-Gateway-Key", c.gatewayKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and decodes the response.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("backend", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewUpstreamError("backend", fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return c.parseError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return model.NewParseError("backend response", err)
		}
	}
	return nil
}

// parseError converts backend API errors to model.APIError.
func (c *Client) parseError(statusCode int, body []byte) error {
	var berr backendError
	json.Unmarshal(body, &berr) // best effort

	msg := berr.Message
	if msg == "" {
		msg = berr.Error
	}

	switch statusCode {
	case 401, 403:
		if msg == "" {
			msg = "invalid credentials"
		}
		return model.NewAuthError(msg)
	case 404:
		return model.NewNotFoundError("resource")
	case 400:
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	default:
		return model.NewUpstreamError("backend",
			fmt.Errorf("status %d: %s", statusCode, msg))
	}
}
