package repositories

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartChanged       = errors.New("cart changed")
)

// Collection names inside the JSON document.
const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
	cartsCollection      = "carts"
	cartItemsCollection  = "cart_items"
	addressesCollection  = "addresses"
	ordersCollection     = "orders"
	orderItemsCollection = "order_items"
)
