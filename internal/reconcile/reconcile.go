// Package reconcile merges guest-accumulated state with the server copy
// when a shopper signs in. The functions are pure; the cart and wishlist
// services decide what to do with the result.
package reconcile

import "github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"

// MergeCartLines combines the server cart with guest lines. Lines with
// the same product and variant collapse into one line whose quantity is
// the sum; the server's product snapshot wins for collapsed lines.
// Guest-only lines append after the server lines in their original
// order. Neither input is modified.
func MergeCartLines(server, guest []model.CartLine) []model.CartLine {
	merged := make([]model.CartLine, len(server))
	copy(merged, server)

	index := make(map[model.LineKey]int, len(merged))
	for i, l := range merged {
		index[l.Key()] = i
	}

	for _, g := range guest {
		if i, ok := index[g.Key()]; ok {
			merged[i].Quantity += g.Quantity
			continue
		}
		index[g.Key()] = len(merged)
		merged = append(merged, g)
	}
	return merged
}

// MergeWishlist unions the server wishlist with guest entries by product
// id. The server's copy of a product wins on overlap; guest-only entries
// append after the server entries.
func MergeWishlist(server, guest []model.Product) []model.Product {
	merged := make([]model.Product, len(server))
	copy(merged, server)

	seen := make(map[string]bool, len(merged))
	for _, p := range merged {
		seen[p.ID] = true
	}

	for _, g := range guest {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		merged = append(merged, g)
	}
	return merged
}
