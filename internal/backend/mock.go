package backend

import (
	"context"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Mock is a test double for Service. Set only the function fields a
// test needs; unset methods fail loudly via nil dereference.
type Mock struct {
	LoginFunc                   func(ctx context.Context, username, password string) (*model.Identity, error)
	RegisterFunc                func(ctx context.Context, username, email, password string) (*model.Identity, error)
	FetchProductsFunc           func(ctx context.Context) ([]model.Product, error)
	FetchProductFunc            func(ctx context.Context, id string) (*model.Product, error)
	FetchProductsByCategoryFunc func(ctx context.Context, category string) ([]model.Product, error)
	FetchCartFunc               func(ctx context.Context, token, userID string) ([]model.CartLine, error)
	ReplaceCartFunc             func(ctx context.Context, token, userID string, lines []model.CartLine) error
	FetchWishlistFunc           func(ctx context.Context, token, userID string) ([]model.Product, error)
	ReplaceWishlistFunc         func(ctx context.Context, token, userID string, entries []model.Product) error
	PlaceOrderFunc              func(ctx context.Context, token string, order model.Order) (*model.Order, error)
	FetchOrdersFunc             func(ctx context.Context, token, userID string) ([]model.Order, error)
}

func (m *Mock) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	return m.LoginFunc(ctx, username, password)
}

func (m *Mock) Register(ctx context.Context, username, email, password string) (*model.Identity, error) {
	return m.RegisterFunc(ctx, username, email, password)
}

func (m *Mock) FetchProducts(ctx context.Context) ([]model.Product, error) {
	return m.FetchProductsFunc(ctx)
}

func (m *Mock) FetchProduct(ctx context.Context, id string) (*model.Product, error) {
	return m.FetchProductFunc(ctx, id)
}

func (m *Mock) FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return m.FetchProductsByCategoryFunc(ctx, category)
}

func (m *Mock) FetchCart(ctx context.Context, token, userID string) ([]model.CartLine, error) {
	return m.FetchCartFunc(ctx, token, userID)
}

func (m *Mock) ReplaceCart(ctx context.Context, token, userID string, lines []model.CartLine) error {
	return m.ReplaceCartFunc(ctx, token, userID, lines)
}

func (m *Mock) FetchWishlist(ctx context.Context, token, userID string) ([]model.Product, error) {
	return m.FetchWishlistFunc(ctx, token, userID)
}

func (m *Mock) ReplaceWishlist(ctx context.Context, token, userID string, entries []model.Product) error {
	return m.ReplaceWishlistFunc(ctx, token, userID, entries)
}

func (m *Mock) PlaceOrder(ctx context.Context, token string, order model.Order) (*model.Order, error) {
	return m.PlaceOrderFunc(ctx, token, order)
}

func (m *Mock) FetchOrders(ctx context.Context, token, userID string) ([]model.Order, error) {
	return m.FetchOrdersFunc(ctx, token, userID)
}
