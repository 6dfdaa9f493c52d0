// Package backend talks to the ShopNest REST API. The gateway is a pure
// client here: it authenticates, reads the catalog, and replaces the
// server's cart and wishlist documents wholesale.
package backend

import (
	"context"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Service is the backend surface the gateway depends on. Authenticated
// calls take the bearer token per call; the client holds no session.
type Service interface {
	Login(ctx context.Context, username, password string) (*model.Identity, error)
	Register(ctx context.Context, username, email, password string) (*model.Identity, error)

	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchProduct(ctx context.Context, id string) (*model.Product, error)
	FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error)

	FetchCart(ctx context.Context, token, userID string) ([]model.CartLine, error)
	ReplaceCart(ctx context.Context, token, userID string, lines []model.CartLine) error

	FetchWishlist(ctx context.Context, token, userID string) ([]model.Product, error)
	ReplaceWishlist(ctx context.Context, token, userID string, entries []model.Product) error

	PlaceOrder(ctx context.Context, token string, order model.Order) (*model.Order, error)
	FetchOrders(ctx context.Context, token, userID string) ([]model.Order, error)
}
