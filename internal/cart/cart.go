// Package cart holds the shopper's cart and keeps it in step with the
// backend. Anonymous mutations persist locally; authenticated mutations
// upload the full cart through a coalescing push queue. Signing in
// merges the guest cart into the server cart exactly once.
package cart

import (
	"log/slog"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/backend"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/reconcile"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
)

// Service owns the in-memory cart for the shopper slot.
type Service struct {
	st *reconcile.State[model.CartLine]
}

// New builds the cart service, loads any persisted guest cart, and
// subscribes to shopper session transitions. Construct before the
// session restore so a restored login reconciles the loaded guest
// lines.
func New(be backend.Service, local localstore.Store, sessions *session.Store, logger *slog.Logger) *Service {
	return &Service{
		st: reconcile.NewState(reconcile.Config[model.CartLine]{
			Name:     "cart",
			Bucket:   localstore.BucketGuestCart,
			Local:    local,
			Sessions: sessions,
			Logger:   logger,
			Fetch:    be.FetchCart,
			Replace:  be.ReplaceCart,
			Merge:    reconcile.MergeCartLines,
		}),
	}
}

// AddLine puts one unit of product into the cart. A line with the same
// product and variant accumulates; otherwise a new line appends with
// quantity one. The product is snapshotted into the line, so later
// catalog edits do not reprice it.
func (s *Service) AddLine(product model.Product, variant string) error {
	if product.RequiresVariant() {
		if variant == "" {
			return model.NewValidationError("size", "required for this product")
		}
		if !product.HasSize(variant) {
			return model.NewValidationError("size", "not offered for this product")
		}
	}
	s.st.Mutate(func(lines []model.CartLine) []model.CartLine {
		key := model.LineKey{ProductID: product.ID, Variant: variant}
		for i := range lines {
			if lines[i].Key() == key {
				lines[i].Quantity++
				return lines
			}
		}
		return append(lines, model.CartLine{Product: product, Quantity: 1, Variant: variant})
	})
	return nil
}

// RemoveLine drops the line for the given key. Removing an absent line
// is a no-op.
func (s *Service) RemoveLine(key model.LineKey) {
	s.st.Mutate(func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].Key() == key {
				return append(lines[:i], lines[i+1:]...)
			}
		}
		return lines
	})
}

// AdjustQuantity changes the line's quantity by delta, floored at one.
// Lines leave the cart through RemoveLine, never by counting down to
// zero.
func (s *Service) AdjustQuantity(key model.LineKey, delta int) {
	s.st.Mutate(func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].Key() == key {
				q := lines[i].Quantity + delta
				if q < 1 {
					q = 1
				}
				lines[i].Quantity = q
				return lines
			}
		}
		return lines
	})
}

// Clear empties the cart, typically after an order is placed.
func (s *Service) Clear() {
	s.st.Mutate(func([]model.CartLine) []model.CartLine { return nil })
}

// Lines returns a copy of the current cart.
func (s *Service) Lines() []model.CartLine {
	return s.st.Snapshot()
}

// Total returns the cart total in cents, derived from the line
// snapshots on every call.
func (s *Service) Total() int64 {
	return model.CartTotal(s.st.Snapshot())
}

// Count returns the number of units in the cart.
func (s *Service) Count() int {
	return model.CartCount(s.st.Snapshot())
}

// Flush blocks until queued uploads finish.
func (s *Service) Flush() { s.st.Flush() }

// Close stops the upload queue.
func (s *Service) Close() { s.st.Close() }
