// Package wishlist holds the shopper's saved products. It follows the
// same guest/server lifecycle as the cart, but entries are a set keyed
// by product id rather than quantity-bearing lines.
package wishlist

import (
	"log/slog"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/backend"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/reconcile"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
)

// Service owns the in-memory wishlist for the shopper slot.
type Service struct {
	st *reconcile.State[model.Product]
}

func New(be backend.Service, local localstore.Store, sessions *session.Store, logger *slog.Logger) *Service {
	return &Service{
		st: reconcile.NewState(reconcile.Config[model.Product]{
			Name:     "wishlist",
			Bucket:   localstore.BucketGuestWishlist,
			Local:    local,
			Sessions: sessions,
			Logger:   logger,
			Fetch:    be.FetchWishlist,
			Replace:  be.ReplaceWishlist,
			Merge:    reconcile.MergeWishlist,
		}),
	}
}

// Add saves the product. Adding a product that is already saved is a
// no-op; the first snapshot wins.
func (s *Service) Add(product model.Product) {
	s.st.Mutate(func(entries []model.Product) []model.Product {
		for _, p := range entries {
			if p.ID == product.ID {
				return entries
			}
		}
		return append(entries, product)
	})
}

// Remove drops the product by id. Absent ids are a no-op.
func (s *Service) Remove(productID string) {
	s.st.Mutate(func(entries []model.Product) []model.Product {
		for i, p := range entries {
			if p.ID == productID {
				return append(entries[:i], entries[i+1:]...)
			}
		}
		return entries
	})
}

// Toggle adds the product when absent and removes it when present.
// Returns true when the product ends up saved.
func (s *Service) Toggle(product model.Product) bool {
	saved := false
	s.st.Mutate(func(entries []model.Product) []model.Product {
		for i, p := range entries {
			if p.ID == product.ID {
				return append(entries[:i], entries[i+1:]...)
			}
		}
		saved = true
		return append(entries, product)
	})
	return saved
}

// Contains reports whether the product is saved.
func (s *Service) Contains(productID string) bool {
	for _, p := range s.st.Snapshot() {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Entries returns a copy of the saved products.
func (s *Service) Entries() []model.Product {
	return s.st.Snapshot()
}

// Count returns the number of saved products.
func (s *Service) Count() int {
	return len(s.st.Snapshot())
}

// Flush blocks until queued uploads finish.
func (s *Service) Flush() { s.st.Flush() }

// Close stops the upload queue.
func (s *Service) Close() { s.st.Close() }
