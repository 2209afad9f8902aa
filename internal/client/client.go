// Package client is a typed HTTP client for the storefront API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/models"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// TokenStore supplies the bearer token and forgets the session on 401.
// session.Cache satisfies it.
type TokenStore interface {
	GetToken() string
	ClearAuthData()
}

// Client calls the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout changes the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.GetToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.tokens.ClearAuthData()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		apiErr.Fields = body.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
}

// AddCartItemRequest is the body of POST /cart-items.
type AddCartItemRequest struct {
	CartID    int   `json:"cart_id,omitempty"`
	ProductID int   `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price,omitempty"`
}

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	ShippingAddressID int   `json:"shipping_address_id"`
	Subtotal          int64 `json:"subtotal,omitempty"`
	TotalAmount       int64 `json:"total_amount,omitempty"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Profile resolves the stored token into the caller's profile.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products lists the catalog, restricted to one category when categoryID > 0.
func (c *Client) Products(ctx context.Context, categoryID int) ([]models.Product, error) {
	path := "/products"
	if categoryID > 0 {
		path += "?" + url.Values{"category_id": {strconv.Itoa(categoryID)}}.Encode()
	}
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Cart returns the caller's cart, creating it on the server on first use.
func (c *Client) Cart(ctx context.Context) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	if err := c.do(ctx, http.MethodGet, "/shopping-cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (*models.CartItem, error) {
	var item models.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart-items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/cart-items/%d", itemID), map[string]int{"quantity": quantity}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteCartItem(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart-items/%d", itemID), nil, nil)
}

// EmptyCart removes every item of the caller's server-side cart.
func (c *Client) EmptyCart(ctx context.Context) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	if err := c.do(ctx, http.MethodDelete, "/shopping-cart/items", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, address models.Address) (*models.Address, error) {
	var created models.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", address, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
