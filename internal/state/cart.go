package state

import (
	"context"
	"errors"
	"log"
	"sync"

	"storefront/internal/client"
	"storefront/internal/models"
)

// ErrNoCart is returned when the server did not hand out a cart to add to.
var ErrNoCart = errors.New("no cart available")

// CartAPI is the part of the API client the cart state calls.
type CartAPI interface {
	Cart(ctx context.Context) (*models.ShoppingCart, error)
	AddCartItem(ctx context.Context, req client.AddCartItemRequest) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, itemID int) error
	EmptyCart(ctx context.Context) (*models.ShoppingCart, error)
	PlaceOrder(ctx context.Context, req client.PlaceOrderRequest) (*models.Order, error)
}

// Session is the part of Auth the cart follows.
type Session interface {
	IsAuthenticated() bool
	Subscribe(fn Listener) (unsubscribe func())
}

// Cart mirrors the signed-in user's server cart. Every mutation is followed
// by a full refetch; a refetch result is applied only if no later refetch
// has been applied already.
type Cart struct {
	auth        Session
	api         CartAPI
	unsubscribe func()

	mu      sync.Mutex
	cart    *models.ShoppingCart
	loading bool
	issued  uint64
	applied uint64
}

// NewCart creates a cart that follows auth: signing in refetches the cart and
// signing out empties it. Call Close to stop following.
func NewCart(auth Session, api CartAPI) *Cart {
	c := &Cart{auth: auth, api: api}
	c.unsubscribe = auth.Subscribe(func(profile *models.UserProfile) {
		if profile == nil {
			c.reset()
			return
		}
		if err := c.Refresh(context.Background()); err != nil {
			log.Printf("cart: refresh after sign-in failed: %v", err)
		}
	})
	return c
}

func (c *Cart) Close() {
	c.unsubscribe()
}

// Refresh refetches the cart. It is a no-op while signed out.
//
// The ticket is taken before the session is checked, so a sign-out that
// lands after the check still fences this refetch out.
func (c *Cart) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	ticket := c.issued
	c.loading = true
	c.mu.Unlock()

	if !c.auth.IsAuthenticated() {
		c.reset()
		return nil
	}

	cart, err := c.api.Cart(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket == c.issued {
		c.loading = false
	}
	if err != nil {
		return err
	}
	if ticket > c.applied {
		c.applied = ticket
		c.cart = cart
	}
	return nil
}

// AddToCart adds a new line for product at its current price. Adding the
// same product twice yields two lines.
func (c *Cart) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if !c.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	cartID := c.cartID()
	if cartID == 0 {
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		if cartID = c.cartID(); cartID == 0 {
			return ErrNoCart
		}
	}

	_, err := c.api.AddCartItem(ctx, client.AddCartItemRequest{
		CartID:    cartID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveFromCart(ctx, itemID)
	}
	if !c.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (c *Cart) RemoveFromCart(ctx context.Context, itemID int) error {
	if !c.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.api.DeleteCartItem(ctx, itemID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ClearCart empties the local mirror only. The server cart keeps its items;
// use EmptyCart to clear both.
func (c *Cart) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fence()
	if c.cart != nil {
		c.cart = &models.ShoppingCart{ID: c.cart.ID, UserID: c.cart.UserID, CreatedAt: c.cart.CreatedAt}
	}
}

// EmptyCart removes every item from the server cart and refetches.
func (c *Cart) EmptyCart(ctx context.Context) error {
	if !c.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.EmptyCart(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Checkout places an order for the current cart, shipping to addressID.
// The locally computed subtotal is sent along so the server rejects an
// order for a cart that changed underneath the user.
func (c *Cart) Checkout(ctx context.Context, addressID int) (*models.Order, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	subtotal := c.Subtotal()
	order, err := c.api.PlaceOrder(ctx, client.PlaceOrderRequest{
		ShippingAddressID: addressID,
		Subtotal:          subtotal,
		TotalAmount:       subtotal,
	})
	if err != nil {
		return nil, err
	}

	c.ClearCart()
	if err := c.Refresh(ctx); err != nil {
		log.Printf("cart: refresh after checkout failed: %v", err)
	}
	return order, nil
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.ItemCount()
}

// Subtotal is the sum of unit_price * quantity in minor units.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.Subtotal()
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return nil
	}
	items := make([]models.CartItem, len(c.cart.Items))
	copy(items, c.cart.Items)
	return items
}

func (c *Cart) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Cart) cartID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.ID
}

func (c *Cart) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fence()
	c.cart = nil
	c.loading = false
}

// fence drops every refetch still in flight. c.mu must be held.
func (c *Cart) fence() {
	c.issued++
	c.applied = c.issued
	c.loading = false
}
