package services_test

import (
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemSnapshotsPrice(t *testing.T) {
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	service := services.NewCartService(carts, products)

	mug := &models.Product{ID: 1, Name: "Mug", Price: 500, StockQuantity: intPtr(10)}
	products.On("GetByID", 1).Return(mug, nil)
	carts.On("GetOrCreate", 3).Return(&models.ShoppingCart{ID: 9, UserID: 3}, nil)
	carts.On("AddItem", mock.MatchedBy(func(it *models.CartItem) bool {
		return it.CartID == 9 && it.ProductID == 1 && it.Quantity == 2 && it.UnitPrice == 500
	})).Run(func(args mock.Arguments) { args.Get(0).(*models.CartItem).ID = 4 }).Return(nil).Once()

	item, err := service.AddItem(3, services.AddItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, item.ID)
	assert.Equal(t, int64(500), item.UnitPrice)
	assert.Equal(t, mug, item.Product)
	carts.AssertExpectations(t)
}

func TestCartService_AddItemRejected(t *testing.T) {
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	service := services.NewCartService(carts, products)

	products.On("GetByID", 1).Return(&models.Product{ID: 1, Name: "Mug", Price: 500, StockQuantity: intPtr(1)}, nil)
	products.On("GetByID", 2).Return(&models.Product{ID: 2, Name: "Sold out", Price: 100, StockQuantity: intPtr(0)}, nil)
	products.On("GetByID", 404).Return(nil, repositories.ErrNotFound)
	carts.On("GetOrCreate", 3).Return(&models.ShoppingCart{ID: 9, UserID: 3}, nil)

	tests := []struct {
		name string
		in   services.AddItemInput
		kind error
	}{
		{"zero quantity", services.AddItemInput{ProductID: 1, Quantity: 0}, services.ErrValidation},
		{"missing product", services.AddItemInput{ProductID: 404, Quantity: 1}, services.ErrNotFound},
		{"out of stock", services.AddItemInput{ProductID: 2, Quantity: 1}, services.ErrConflict},
		{"more than stock", services.AddItemInput{ProductID: 1, Quantity: 2}, services.ErrConflict},
		{"stale price", services.AddItemInput{ProductID: 1, Quantity: 1, UnitPrice: int64Ptr(450)}, services.ErrConflict},
		{"foreign cart", services.AddItemInput{CartID: intPtr(10), ProductID: 1, Quantity: 1}, services.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddItem(3, tt.in)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
	carts.AssertNotCalled(t, "AddItem", mock.Anything)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	service := services.NewCartService(carts, products)

	carts.On("GetItem", 4).Return(&models.CartItem{ID: 4, CartID: 9, ProductID: 1, Quantity: 1, UnitPrice: 500}, nil)
	carts.On("GetItem", 5).Return(&models.CartItem{ID: 5, CartID: 77, ProductID: 1, Quantity: 1}, nil)
	carts.On("GetByUserID", 3).Return(&models.ShoppingCart{ID: 9, UserID: 3}, nil)
	products.On("GetByID", 1).Return(&models.Product{ID: 1, Name: "Mug", Price: 650}, nil)
	carts.On("UpdateItemQuantity", 4, 3).Return(&models.CartItem{ID: 4, CartID: 9, ProductID: 1, Quantity: 3, UnitPrice: 500}, nil).Once()

	item, err := service.UpdateItemQuantity(3, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, int64(500), item.UnitPrice, "price snapshot survives catalog changes")

	_, err = service.UpdateItemQuantity(3, 5, 2)
	assert.True(t, errors.Is(err, services.ErrNotFound), "items of other carts are hidden")

	_, err = service.UpdateItemQuantity(3, 4, 0)
	assert.True(t, errors.Is(err, services.ErrValidation))
	carts.AssertExpectations(t)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	carts := new(MockCartRepository)
	service := services.NewCartService(carts, new(MockProductRepository))

	carts.On("GetItem", 4).Return(&models.CartItem{ID: 4, CartID: 9}, nil)
	carts.On("GetByUserID", 3).Return(&models.ShoppingCart{ID: 9, UserID: 3}, nil)
	carts.On("DeleteItem", 4).Return(nil).Once()
	require.NoError(t, service.RemoveItem(3, 4))

	carts.On("GetOrCreate", 3).Return(&models.ShoppingCart{ID: 9, UserID: 3, Items: []models.CartItem{{ID: 5}}}, nil)
	carts.On("ClearItems", 9).Return(1, nil).Once()
	cart, err := service.ClearCart(3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	carts.AssertExpectations(t)
}
