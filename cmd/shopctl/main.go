// shopctl drives a running storefront gateway from the command line.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	shopctl products [-category NAME] [-gender NAME] [-search TEXT]
//	shopctl product -id ID
//	shopctl login -user NAME -pass SECRET [-role shopper|admin]
//	shopctl logout [-role shopper|admin]
//	shopctl cart [add -id ID [-size S] | rm -id ID [-size S] | qty -id ID -delta N [-size S] | clear]
//	shopctl wish [toggle -id ID | rm -id ID]
//	shopctl order [-list] (checkout flags: -name -address -city -zip -phone)
//	shopctl theme [-set light|dark]
//
// Examples:
//
//	shopctl products -category Jackets
//	shopctl cart add -id 42 -size M
//	shopctl login -user alice -pass secret
//	shopctl order -name "Alice Smith" -address "1 Main St" -city Springfield -zip 12345 -phone 555-0100
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	gatewayURL string
	quiet      bool
	noColor    bool
	verbose    bool
)

// agentHeader identifies shopctl to the gateway's version negotiation.
const agentHeader = `profile="cli";version="2.1.0"`

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorBlue, colorCyan, colorGray, colorBold = "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "products":
		runProducts(args)
	case "product":
		runProduct(args)
	case "login":
		runLogin(args)
	case "logout":
		runLogout(args)
	case "cart":
		runCart(args)
	case "wish":
		runWish(args)
	case "order":
		runOrder(args)
	case "theme":
		runTheme(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `shopctl - storefront gateway command line client

Usage:
  shopctl <command> [options]

Commands:
  products  List catalog products
  product   Show one product
  login     Sign in to the backend through the gateway
  logout    Sign out
  cart      Show or change the cart (subcommands: add, rm, qty, clear)
  wish      Show or change the wishlist (subcommands: toggle, rm)
  order     Place an order from the cart, or list past orders (-list)
  theme     Show or set the UI theme

Examples:
  # Browse and fill the cart while signed out
  shopctl products -category Jackets
  shopctl cart add -id 42 -size M

  # Sign in; the guest cart merges into the account cart
  shopctl login -user alice -pass secret
  shopctl cart

  # Check out
  shopctl order -name "Alice Smith" -address "1 Main St" -city Springfield -zip 12345 -phone 555-0100

Run 'shopctl <command> -h' for command-specific options.
`)
}

// addCommonFlags registers the flags every command shares.
func addCommonFlags(fs *flag.FlagSet) {
	fs.StringVar(&gatewayURL, "gateway", "http://localhost:8600", "Storefront gateway base URL")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - minimal output")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - show full request/response")
}

func parseFlags(fs *flag.FlagSet, args []string) {
	fs.Parse(args)
	if noColor {
		disableColors()
	}
}

// =============================================================================
// CATALOG COMMANDS
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	addCommonFlags(fs)
	var category, gender, search string
	fs.StringVar(&category, "category", "", "Filter by category")
	fs.StringVar(&gender, "gender", "", "Filter by gender")
	fs.StringVar(&search, "search", "", "Free-text search")
	parseFlags(fs, args)

	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if gender != "" {
		q.Set("gender", gender)
	}
	if search != "" {
		q.Set("q", search)
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var products []map[string]interface{}
	if err := doRequest("GET", path, nil, &products); err != nil {
		fatal("Failed to list products: %v", err)
	}

	if quiet {
		for _, p := range products {
			fmt.Println(p["id"])
		}
		return
	}
	printSuccess("%d products", len(products))
	for _, p := range products {
		sizes := ""
		if raw, ok := p["sizes"].([]interface{}); ok && len(raw) > 0 {
			parts := make([]string, 0, len(raw))
			for _, s := range raw {
				parts = append(parts, fmt.Sprintf("%v", s))
			}
			sizes = "  [" + strings.Join(parts, " ") + "]"
		}
		fmt.Printf("  %s%v%s  %s%v%s  %v%s\n",
			colorCyan, p["id"], colorReset,
			colorBold, p["name"], colorReset,
			p["priceDisplay"], sizes)
	}
}

func runProduct(args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	addCommonFlags(fs)
	var id string
	fs.StringVar(&id, "id", "", "Product ID (required)")
	parseFlags(fs, args)
	if id == "" {
		fs.Usage()
		os.Exit(1)
	}

	var p map[string]interface{}
	if err := doRequest("GET", "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		fatal("Failed to get product: %v", err)
	}
	printJSONValue(p)
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	addCommonFlags(fs)
	var user, pass, role string
	fs.StringVar(&user, "user", "", "Username (required)")
	fs.StringVar(&pass, "pass", "", "Password (required)")
	fs.StringVar(&role, "role", "shopper", "Slot to open: shopper or admin")
	parseFlags(fs, args)
	if user == "" || pass == "" {
		fs.Usage()
		os.Exit(1)
	}

	body := map[string]string{"username": user, "password": pass, "role": role}
	var view map[string]interface{}
	if err := doRequest("POST", "/api/session/login", body, &view); err != nil {
		fatal("Login failed: %v", err)
	}
	printSuccess("Signed in as %s%v%s (%v)", colorCyan, view["username"], colorReset, view["role"])
}

func runLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	addCommonFlags(fs)
	var role string
	fs.StringVar(&role, "role", "shopper", "Slot to clear: shopper or admin")
	parseFlags(fs, args)

	if err := doRequest("POST", "/api/session/logout", map[string]string{"role": role}, nil); err != nil {
		fatal("Logout failed: %v", err)
	}
	printSuccess("Signed out")
}

// =============================================================================
// CART COMMANDS
// =============================================================================

func runCart(args []string) {
	sub := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	addCommonFlags(fs)
	var id, size string
	var delta int
	fs.StringVar(&id, "id", "", "Product ID")
	fs.StringVar(&size, "size", "", "Size variant")
	fs.IntVar(&delta, "delta", 0, "Quantity change (qty subcommand)")
	parseFlags(fs, args)

	var view map[string]interface{}
	var err error
	switch sub {
	case "":
		err = doRequest("GET", "/api/cart", nil, &view)
	case "add":
		requireID(fs, id)
		err = doRequest("POST", "/api/cart/lines", map[string]string{"productId": id, "size": size}, &view)
	case "rm":
		requireID(fs, id)
		path := "/api/cart/lines/" + url.PathEscape(id)
		if size != "" {
			path += "?size=" + url.QueryEscape(size)
		}
		err = doRequest("DELETE", path, nil, &view)
	case "qty":
		requireID(fs, id)
		if delta == 0 {
			fatal("qty needs a non-zero -delta")
		}
		err = doRequest("PATCH", "/api/cart/lines/"+url.PathEscape(id),
			map[string]interface{}{"size": size, "delta": delta}, &view)
	case "clear":
		err = doRequest("DELETE", "/api/cart", nil, &view)
	default:
		fatal("Unknown cart subcommand: %s", sub)
	}
	if err != nil {
		fatal("Cart operation failed: %v", err)
	}

	printCart(view)
}

func printCart(view map[string]interface{}) {
	lines, _ := view["lines"].([]interface{})
	if quiet {
		fmt.Println(len(lines))
		return
	}
	if len(lines) == 0 {
		printInfo("Cart is empty")
		return
	}
	for _, raw := range lines {
		line, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		product, _ := line["product"].(map[string]interface{})
		size := ""
		if s, ok := line["selectedSize"].(string); ok && s != "" {
			size = " (" + s + ")"
		}
		fmt.Printf("  %v× %s%v%s%s  %v\n",
			line["quantity"], colorBold, product["name"], colorReset, size,
			line["subtotalDisplay"])
	}
	fmt.Printf("  %sTotal: %v (%v items)%s\n", colorGreen, view["totalDisplay"], view["count"], colorReset)
}

// =============================================================================
// WISHLIST COMMANDS
// =============================================================================

func runWish(args []string) {
	sub := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("wish", flag.ExitOnError)
	addCommonFlags(fs)
	var id string
	fs.StringVar(&id, "id", "", "Product ID")
	parseFlags(fs, args)

	switch sub {
	case "":
		var entries []map[string]interface{}
		if err := doRequest("GET", "/api/wishlist", nil, &entries); err != nil {
			fatal("Failed to get wishlist: %v", err)
		}
		if len(entries) == 0 {
			printInfo("Wishlist is empty")
			return
		}
		for _, p := range entries {
			fmt.Printf("  %s%v%s  %s%v%s  %v\n",
				colorCyan, p["id"], colorReset,
				colorBold, p["name"], colorReset,
				p["priceDisplay"])
		}
	case "toggle":
		requireID(fs, id)
		var resp map[string]interface{}
		if err := doRequest("POST", "/api/wishlist/toggle", map[string]string{"productId": id}, &resp); err != nil {
			fatal("Failed to toggle wishlist: %v", err)
		}
		if saved, _ := resp["saved"].(bool); saved {
			printSuccess("Saved")
		} else {
			printSuccess("Removed")
		}
	case "rm":
		requireID(fs, id)
		if err := doRequest("DELETE", "/api/wishlist/"+url.PathEscape(id), nil, nil); err != nil {
			fatal("Failed to remove from wishlist: %v", err)
		}
		printSuccess("Removed")
	default:
		fatal("Unknown wish subcommand: %s", sub)
	}
}

// =============================================================================
// ORDER COMMANDS
// =============================================================================

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	addCommonFlags(fs)
	var list bool
	var name, address, city, zip, phone string
	fs.BoolVar(&list, "list", false, "List past orders instead of checking out")
	fs.StringVar(&name, "name", "", "Recipient full name")
	fs.StringVar(&address, "address", "", "Street address")
	fs.StringVar(&city, "city", "", "City")
	fs.StringVar(&zip, "zip", "", "Postal code")
	fs.StringVar(&phone, "phone", "", "Contact phone")
	parseFlags(fs, args)

	if list {
		var orders []map[string]interface{}
		if err := doRequest("GET", "/api/orders", nil, &orders); err != nil {
			fatal("Failed to list orders: %v", err)
		}
		if len(orders) == 0 {
			printInfo("No orders")
			return
		}
		for _, o := range orders {
			fmt.Printf("  %s%v%s  %v  %s%v%s\n",
				colorCyan, o["id"], colorReset,
				o["totalDisplay"],
				colorYellow, o["status"], colorReset)
		}
		return
	}

	body := map[string]string{
		"fullName": name,
		"address":  address,
		"city":     city,
		"zip":      zip,
		"phone":    phone,
	}
	var placed map[string]interface{}
	if err := doRequest("POST", "/api/checkout", body, &placed); err != nil {
		fatal("Checkout failed: %v", err)
	}
	if quiet {
		fmt.Println(placed["id"])
		return
	}
	printSuccess("Order placed")
	fmt.Printf("  ID: %s%v%s\n", colorCyan, placed["id"], colorReset)
	fmt.Printf("  Total: %s%v%s\n", colorGreen, placed["totalDisplay"], colorReset)
}

// =============================================================================
// THEME COMMAND
// =============================================================================

func runTheme(args []string) {
	fs := flag.NewFlagSet("theme", flag.ExitOnError)
	addCommonFlags(fs)
	var set string
	fs.StringVar(&set, "set", "", "Set the theme: light or dark")
	parseFlags(fs, args)

	var resp map[string]interface{}
	var err error
	if set != "" {
		err = doRequest("PUT", "/api/preferences/theme", map[string]string{"theme": set}, &resp)
	} else {
		err = doRequest("GET", "/api/preferences/theme", nil, &resp)
	}
	if err != nil {
		fatal("Theme operation failed: %v", err)
	}
	fmt.Println(resp["theme"])
}

// =============================================================================
// HTTP HELPERS
// =============================================================================

func doRequest(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		var err error
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	reqURL := gatewayURL + path
	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Shop-Agent", agentHeader)

	if verbose {
		printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if verbose {
		printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, gatewayErrorMessage(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// gatewayErrorMessage extracts the message from a gateway error body,
// falling back to the raw body.
func gatewayErrorMessage(body []byte) string {
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Code != "" {
		return fmt.Sprintf("%s: %s", resp.Error.Code, resp.Error.Message)
	}
	return string(body)
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printRequest(method, path string, body []byte) {
	fmt.Printf("\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		printJSON(body, "  ")
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Printf("\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	printJSON(body, "  ")
}

func printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Printf("%s%s\n", prefix, string(data))
		return
	}

	output := pretty.String()
	if !verbose {
		lines := strings.Split(output, "\n")
		if len(lines) > 30 {
			lines = append(lines[:25], fmt.Sprintf("%s  %s(%d more lines, use -v for full output)%s", prefix, colorGray, len(lines)-25, colorReset))
			output = strings.Join(lines, "\n")
		}
	}
	fmt.Println(output)
}

func printJSONValue(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func requireID(fs *flag.FlagSet, id string) {
	if id == "" {
		fs.Usage()
		os.Exit(1)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
