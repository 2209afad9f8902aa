package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func (m *MockSender) Close() error {
	return m.Called().Error(0)
}

func TestBrokerPublisher_Publish(t *testing.T) {
	sender := new(MockSender)
	var sent []byte
	sender.On("Send", mock.Anything, TypeOrderPlaced, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).([]byte) }).
		Return(nil).Once()

	order := models.Order{
		ID: 3, OrderNumber: "ORD-ABCDEF12", UserID: 1, Status: models.OrderStatusPending, TotalAmount: 1300,
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Mug", ProductPrice: 500, Quantity: 2, TotalPrice: 1000}},
	}
	require.NoError(t, NewBrokerPublisher(sender).Publish(context.Background(), OrderPlaced(order)))
	sender.AssertExpectations(t)

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			OrderNumber string `json:"order_number"`
			TotalAmount string `json:"total_amount"`
			Items       []struct {
				UnitPrice string `json:"unit_price"`
			} `json:"items"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(sent, &decoded))
	assert.Equal(t, TypeOrderPlaced, decoded.Type)
	assert.Equal(t, "ORD-ABCDEF12", decoded.Payload.OrderNumber)
	assert.Equal(t, "13", decoded.Payload.TotalAmount)
	require.Len(t, decoded.Payload.Items, 1)
	assert.Equal(t, "5", decoded.Payload.Items[0].UnitPrice)
}

func TestBrokerPublisher_SendError(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, TypeUserRegistered, mock.Anything).Return(errors.New("broker down"))

	err := NewBrokerPublisher(sender).Publish(context.Background(), UserRegistered(models.User{ID: 1, Email: "a@x.com"}))
	assert.ErrorContains(t, err, "broker down")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), OrderStatusChanged(models.Order{})))
	assert.NoError(t, Nop{}.Close())
}
