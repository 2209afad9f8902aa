package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs fn once against the JSON store and once against in-memory SQLite.
func backends(t *testing.T, fn func(t *testing.T, set repositories.Set)) {
	t.Run("json", func(t *testing.T) {
		fn(t, repositories.NewJSONSet(store.NewMemory()))
	})
	t.Run("sqlite", func(t *testing.T) {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		db, err := database.Open(context.Background(), "sqlite", dsn)
		require.NoError(t, err)
		t.Cleanup(func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		fn(t, repositories.NewGORMSet(db))
	})
}

func intPtr(v int) *int { return &v }

func TestUserRepository(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		u := &models.User{Email: "a@x.com", Password: "hash", FirstName: "A", IsActive: true, CreatedAt: time.Now().UTC()}
		require.NoError(t, set.Users.Create(u))
		assert.Equal(t, 1, u.ID)

		dup := &models.User{Email: "A@x.com", Password: "hash"}
		err := set.Users.Create(dup)
		assert.True(t, errors.Is(err, repositories.ErrDuplicate))

		all, err := set.Users.GetAll()
		require.NoError(t, err)
		assert.Len(t, all, 1)

		got, err := set.Users.GetByEmail("a@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		updated, err := set.Users.Update(u.ID, map[string]any{"first_name": "Ann"})
		require.NoError(t, err)
		assert.Equal(t, "Ann", updated.FirstName)
		assert.Equal(t, "a@x.com", updated.Email)

		_, err = set.Users.Update(999, map[string]any{"first_name": "x"})
		assert.True(t, errors.Is(err, repositories.ErrNotFound))

		require.NoError(t, set.Users.Delete(u.ID))
		_, err = set.Users.GetByID(u.ID)
		assert.True(t, errors.Is(err, repositories.ErrNotFound))
		assert.True(t, errors.Is(set.Users.Delete(u.ID), repositories.ErrNotFound))
	})
}

func TestProductRepository(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		p := &models.Product{
			Name: "Mug", Price: 500, CategoryID: 2, StockQuantity: intPtr(3),
			Images: []models.ProductImage{{ImagePath: "mug.png", IsPrimary: true}},
		}
		require.NoError(t, set.Products.Create(p))
		require.NoError(t, set.Products.Create(&models.Product{Name: "Tee", Price: 300, CategoryID: 1}))

		inCategory, err := set.Products.GetAll(repositories.ProductFilter{CategoryID: 2})
		require.NoError(t, err)
		require.Len(t, inCategory, 1)
		assert.Equal(t, "Mug", inCategory[0].Name)
		require.Len(t, inCategory[0].Images, 1)
		assert.Equal(t, p.ID, inCategory[0].Images[0].ProductID)

		updated, err := set.Products.Update(p.ID, map[string]any{"price": 650, "stock_quantity": nil})
		require.NoError(t, err)
		assert.Equal(t, int64(650), updated.Price)
		assert.Nil(t, updated.StockQuantity)

		_, err = set.Products.GetByID(404)
		assert.True(t, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestCartRepository(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		cart, err := set.Carts.GetOrCreate(7)
		require.NoError(t, err)
		again, err := set.Carts.GetOrCreate(7)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, again.ID, "getOrCreate is idempotent")
		assert.Empty(t, again.Items)

		first := &models.CartItem{CartID: cart.ID, ProductID: 1, Quantity: 2, UnitPrice: 500}
		second := &models.CartItem{CartID: cart.ID, ProductID: 1, Quantity: 2, UnitPrice: 500}
		require.NoError(t, set.Carts.AddItem(first))
		require.NoError(t, set.Carts.AddItem(second))
		assert.NotEqual(t, first.ID, second.ID)

		err = set.Carts.AddItem(&models.CartItem{CartID: 999, ProductID: 1, Quantity: 1})
		assert.True(t, errors.Is(err, repositories.ErrNotFound))

		item, err := set.Carts.UpdateItemQuantity(first.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, int64(500), item.UnitPrice)

		require.NoError(t, set.Carts.DeleteItem(second.ID))
		loaded, err := set.Carts.GetByUserID(7)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 5, loaded.ItemCount())

		removed, err := set.Carts.ClearItems(cart.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}

func TestAddressRepository_SingleDefault(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		first := &models.Address{UserID: 1, AddressLine1: "A", City: "C"}
		require.NoError(t, set.Addresses.Create(first))
		assert.True(t, first.IsDefault, "first address becomes default")

		second := &models.Address{UserID: 1, AddressLine1: "B", City: "C", IsDefault: true}
		require.NoError(t, set.Addresses.Create(second))

		addresses, err := set.Addresses.GetByUserID(1)
		require.NoError(t, err)
		require.Len(t, addresses, 2)
		defaults := 0
		for _, a := range addresses {
			if a.IsDefault {
				defaults++
				assert.Equal(t, second.ID, a.ID)
			}
		}
		assert.Equal(t, 1, defaults)
	})
}

func TestOrderRepository_PlaceFromCart(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		tracked := &models.Product{Name: "Mug", Price: 500, StockQuantity: intPtr(2)}
		untracked := &models.Product{Name: "Ebook", Price: 300}
		require.NoError(t, set.Products.Create(tracked))
		require.NoError(t, set.Products.Create(untracked))

		cart, err := set.Carts.GetOrCreate(1)
		require.NoError(t, err)
		require.NoError(t, set.Carts.AddItem(&models.CartItem{CartID: cart.ID, ProductID: tracked.ID, Quantity: 2, UnitPrice: 500}))
		require.NoError(t, set.Carts.AddItem(&models.CartItem{CartID: cart.ID, ProductID: untracked.ID, Quantity: 1, UnitPrice: 300}))
		cart, err = set.Carts.GetByUserID(1)
		require.NoError(t, err)

		now := time.Now().UTC()
		order := &models.Order{
			OrderNumber: "ORD-1", UserID: 1, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending,
			Subtotal: 1300, TotalAmount: 1300, ShippingAddressID: 1, CreatedAt: now, UpdatedAt: now,
			Items: []models.OrderItem{
				{ProductID: tracked.ID, ProductName: "Mug", ProductPrice: 500, Quantity: 2, TotalPrice: 1000},
				{ProductID: untracked.ID, ProductName: "Ebook", ProductPrice: 300, Quantity: 1, TotalPrice: 300},
			},
		}
		require.NoError(t, set.Orders.PlaceFromCart(order, cart.Items))
		assert.NotZero(t, order.ID)
		require.Len(t, order.Items, 2)
		assert.Equal(t, order.ID, order.Items[0].OrderID)

		p, err := set.Products.GetByID(tracked.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, *p.StockQuantity)

		emptied, err := set.Carts.GetByUserID(1)
		require.NoError(t, err)
		assert.Empty(t, emptied.Items)

		// Stock is exhausted now; nothing of the second order is written.
		again := &models.Order{OrderNumber: "ORD-2", UserID: 1, Status: models.OrderStatusPending,
			Items: []models.OrderItem{{ProductID: tracked.ID, ProductName: "Mug", ProductPrice: 500, Quantity: 1, TotalPrice: 500}}}
		err = set.Orders.PlaceFromCart(again, nil)
		assert.True(t, errors.Is(err, repositories.ErrInsufficientStock))

		orders, err := set.Orders.GetByUserID(1)
		require.NoError(t, err)
		assert.Len(t, orders, 1)

		shipped, err := set.Orders.UpdateStatus(order.ID, models.OrderStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, shipped.Status)
		assert.Len(t, shipped.Items, 2)

		_, err = set.Orders.GetByID(999)
		assert.True(t, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestOrderRepository_PlaceFromCartKeepsLaterLines(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		shirt := &models.Product{Name: "Shirt", Price: 1000}
		tee := &models.Product{Name: "Tee", Price: 200, StockQuantity: intPtr(10)}
		require.NoError(t, set.Products.Create(shirt))
		require.NoError(t, set.Products.Create(tee))

		cart, err := set.Carts.GetOrCreate(1)
		require.NoError(t, err)
		require.NoError(t, set.Carts.AddItem(&models.CartItem{CartID: cart.ID, ProductID: shirt.ID, Quantity: 1, UnitPrice: 1000}))
		snapshot, err := set.Carts.GetByUserID(1)
		require.NoError(t, err)
		require.Len(t, snapshot.Items, 1)

		// a line added by another device after the order was built
		late := &models.CartItem{CartID: cart.ID, ProductID: tee.ID, Quantity: 7, UnitPrice: 200}
		require.NoError(t, set.Carts.AddItem(late))

		order := &models.Order{OrderNumber: "ORD-1", UserID: 1, Status: models.OrderStatusPending,
			Subtotal: 1000, TotalAmount: 1000,
			Items: []models.OrderItem{{ProductID: shirt.ID, ProductName: "Shirt", ProductPrice: 1000, Quantity: 1, TotalPrice: 1000}}}
		require.NoError(t, set.Orders.PlaceFromCart(order, snapshot.Items))

		after, err := set.Carts.GetByUserID(1)
		require.NoError(t, err)
		require.Len(t, after.Items, 1)
		assert.Equal(t, late.ID, after.Items[0].ID)
		assert.Equal(t, 7, after.Items[0].Quantity)

		p, err := set.Products.GetByID(tee.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, *p.StockQuantity)
	})
}

func TestOrderRepository_PlaceFromCartRejectsChangedLines(t *testing.T) {
	backends(t, func(t *testing.T, set repositories.Set) {
		mug := &models.Product{Name: "Mug", Price: 500, StockQuantity: intPtr(5)}
		require.NoError(t, set.Products.Create(mug))

		cart, err := set.Carts.GetOrCreate(1)
		require.NoError(t, err)
		line := &models.CartItem{CartID: cart.ID, ProductID: mug.ID, Quantity: 1, UnitPrice: 500}
		require.NoError(t, set.Carts.AddItem(line))
		snapshot, err := set.Carts.GetByUserID(1)
		require.NoError(t, err)

		_, err = set.Carts.UpdateItemQuantity(line.ID, 3)
		require.NoError(t, err)

		order := &models.Order{OrderNumber: "ORD-1", UserID: 1, Status: models.OrderStatusPending,
			Items: []models.OrderItem{{ProductID: mug.ID, ProductName: "Mug", ProductPrice: 500, Quantity: 1, TotalPrice: 500}}}
		err = set.Orders.PlaceFromCart(order, snapshot.Items)
		assert.True(t, errors.Is(err, repositories.ErrCartChanged))

		require.NoError(t, set.Carts.DeleteItem(line.ID))
		err = set.Orders.PlaceFromCart(order, snapshot.Items)
		assert.True(t, errors.Is(err, repositories.ErrCartChanged))

		orders, err := set.Orders.GetByUserID(1)
		require.NoError(t, err)
		assert.Empty(t, orders)
		p, err := set.Products.GetByID(mug.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, *p.StockQuantity)
	})
}
