// MCP transport for agent clients, built on the official MCP Go SDK.
// Exposes the storefront session as tools: an agent can browse the
// catalog, work the cart and wishlist, and place orders, all against
// the same in-memory state the HTTP API serves.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// === Tool Input Types ===

// ListProductsInput is the input schema for the list_products tool.
type ListProductsInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category"`
	Gender   string `json:"gender,omitempty" jsonschema:"filter by gender"`
	Query    string `json:"query,omitempty" jsonschema:"free-text search over name and category"`
}

// GetProductInput is the input schema for the get_product tool.
type GetProductInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
}

// AddToCartInput is the input schema for the add_to_cart tool.
type AddToCartInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
	Size      string `json:"size,omitempty" jsonschema:"size variant, required when the product offers sizes"`
}

// UpdateQuantityInput is the input schema for the update_cart_quantity tool.
type UpdateQuantityInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
	Size      string `json:"size,omitempty" jsonschema:"size variant of the line"`
	Delta     int    `json:"delta" jsonschema:"quantity change, positive or negative,required"`
}

// RemoveFromCartInput is the input schema for the remove_from_cart tool.
type RemoveFromCartInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
	Size      string `json:"size,omitempty" jsonschema:"size variant of the line"`
}

// ToggleWishlistInput is the input schema for the toggle_wishlist tool.
type ToggleWishlistInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
}

// PlaceOrderInput is the input schema for the place_order tool.
type PlaceOrderInput struct {
	FullName string `json:"full_name" jsonschema:"recipient name,required"`
	Address  string `json:"address" jsonschema:"street address,required"`
	City     string `json:"city" jsonschema:"city,required"`
	Zip      string `json:"zip" jsonschema:"postal code,required"`
	Phone    string `json:"phone" jsonschema:"contact phone,required"`
}

type emptyInput struct{}

// productListView wraps product lists in an object, as tool output
// schemas must be.
type productListView struct {
	Products []productView `json:"products"`
}

// NewMCPServer creates an MCP server with the storefront tools
// registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "shopnest-gateway",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "ShopNest storefront session. Browse products, manage the " +
				"cart and wishlist, and place orders. Cart changes made while signed " +
				"out merge into the account cart at sign-in.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List catalog products, optionally filtered by category, gender, or a search query.",
	}, h.mcpListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get one product by ID, including its available sizes.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_cart",
		Description: "Show the current cart with line subtotals and the derived total.",
	}, h.mcpViewCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add one unit of a product to the cart. Products with sizes require a size.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_quantity",
		Description: "Change a cart line's quantity by a delta. Quantity never drops below one.",
	}, h.mcpUpdateQuantity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_from_cart",
		Description: "Remove a cart line entirely.",
	}, h.mcpRemoveFromCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_wishlist",
		Description: "Show the saved products.",
	}, h.mcpViewWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_wishlist",
		Description: "Save a product, or remove it if already saved.",
	}, h.mcpToggleWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "place_order",
		Description: "Place an order from the current cart. Requires a signed-in shopper and shipping details.",
	}, h.mcpPlaceOrder)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint. Mount
// this at /mcp on the mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpListProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListProductsInput,
) (*mcp.CallToolResult, *productListView, error) {
	var products []model.Product
	var err error
	if input.Category != "" {
		products, err = h.backend.FetchProductsByCategory(ctx, input.Category)
	} else {
		products, err = h.backend.FetchProducts(ctx)
	}
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	views := viewsOf(products)
	if input.Gender != "" || query != "" {
		filtered := views[:0]
		for _, p := range views {
			if input.Gender != "" && !strings.EqualFold(p.Gender, input.Gender) {
				continue
			}
			if query != "" && !matchesSearch(p, query) {
				continue
			}
			filtered = append(filtered, p)
		}
		views = filtered
	}
	return nil, &productListView{Products: views}, nil
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *productView, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	p, err := h.backend.FetchProduct(ctx, input.ProductID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	view := h.viewOfProductWishlisted(*p)
	return nil, &view, nil
}

func (h *Handler) mcpViewCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input emptyInput,
) (*mcp.CallToolResult, *cartView, error) {
	view := viewOfCart(h.cart.Lines())
	return nil, &view, nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, *cartView, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	p, err := h.backend.FetchProduct(ctx, input.ProductID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if err := h.cart.AddLine(*p, input.Size); err != nil {
		return nil, nil, h.mcpError(err)
	}
	view := viewOfCart(h.cart.Lines())
	return nil, &view, nil
}

func (h *Handler) mcpUpdateQuantity(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateQuantityInput,
) (*mcp.CallToolResult, *cartView, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	if input.Delta == 0 {
		return nil, nil, fmt.Errorf("delta must be non-zero")
	}
	h.cart.AdjustQuantity(model.LineKey{ProductID: input.ProductID, Variant: input.Size}, input.Delta)
	view := viewOfCart(h.cart.Lines())
	return nil, &view, nil
}

func (h *Handler) mcpRemoveFromCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveFromCartInput,
) (*mcp.CallToolResult, *cartView, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	h.cart.RemoveLine(model.LineKey{ProductID: input.ProductID, Variant: input.Size})
	view := viewOfCart(h.cart.Lines())
	return nil, &view, nil
}

func (h *Handler) mcpViewWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input emptyInput,
) (*mcp.CallToolResult, *productListView, error) {
	return nil, &productListView{Products: viewsOf(h.wishlist.Entries())}, nil
}

func (h *Handler) mcpToggleWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ToggleWishlistInput,
) (*mcp.CallToolResult, *toggleWishlistResponse, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	p, err := h.backend.FetchProduct(ctx, input.ProductID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	saved := h.wishlist.Toggle(*p)
	return nil, &toggleWishlistResponse{
		Saved:   saved,
		Entries: viewsOf(h.wishlist.Entries()),
	}, nil
}

func (h *Handler) mcpPlaceOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PlaceOrderInput,
) (*mcp.CallToolResult, *orderView, error) {
	ident, err := h.shopper()
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	shipping := checkoutRequest{
		FullName: input.FullName,
		Address:  input.Address,
		City:     input.City,
		Zip:      input.Zip,
		Phone:    input.Phone,
	}
	if err := shipping.validate(); err != nil {
		return nil, nil, h.mcpError(err)
	}

	lines := h.cart.Lines()
	if len(lines) == 0 {
		return nil, nil, h.mcpError(model.NewValidationError("cart", "cart is empty"))
	}

	items, total := model.OrderFromCart(lines)
	placed, err := h.backend.PlaceOrder(ctx, ident.Token, model.Order{
		UserID:     ident.UserID,
		Username:   ident.Username,
		Items:      items,
		TotalCents: total,
		Shipping: model.ShippingDetails{
			FullName: input.FullName,
			Address:  input.Address,
			City:     input.City,
			Zip:      input.Zip,
			Phone:    input.Phone,
		},
	})
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	h.cart.Clear()
	view := viewOfOrder(*placed)
	return nil, &view, nil
}

// mcpError converts service errors to MCP-friendly errors without
// leaking internals.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
