package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapeta-16/DevOpsPraktikum/models"
	"github.com/Kapeta-16/DevOpsPraktikum/store"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestOrderService(gw store.Gateway) *OrderService {
	s := NewOrderService(gw)
	s.now = func() time.Time { return testTime }
	s.randMinutes = func(lo, hi int) int { return lo }
	return s
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestCreateOrderTotalWithDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{
			{Name: "Pizza", Price: fptr(10), Quantity: iptr(2)},
			{Name: "Juha", Quantity: iptr(3)},       // missing price -> 0
			{Name: "Sendvic", Price: fptr(4)},       // missing quantity -> 1
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 24.0, receipt.Total)
	assert.Equal(t, "1", receipt.OrderID)
	assert.Equal(t, testTime.Add(15*time.Minute).Format(time.RFC3339), receipt.EtaDelivery)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	s := newTestOrderService(store.NewMemoryGateway())
	_, err := s.CreateOrder(context.Background(), models.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestSequentialOrderNumbers(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	for i := 1; i <= 3; i++ {
		receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
			Items: []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
		})
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i), receipt.OrderID)

		order, err := s.GetOrder(ctx, receipt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, i, order.OrderNumber)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	s := newTestOrderService(store.NewMemoryGateway())
	_, err := s.GetOrder(context.Background(), "42")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrderReturnsAllItems(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
		Username: "bob",
		Items: []models.OrderItemRequest{
			{Name: "Pizza", Price: fptr(10), Quantity: iptr(2)},
			{Name: "Cola", Price: fptr(2.5), Quantity: iptr(1)},
		},
	})
	require.NoError(t, err)

	order, err := s.GetOrder(ctx, receipt.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderItem{Name: "Pizza", Price: 10, Quantity: 2}, order.Items[0])
	assert.Equal(t, models.OrderItem{Name: "Cola", Price: 2.5, Quantity: 1}, order.Items[1])
	require.NotNil(t, order.CustomerInfo)
	assert.Equal(t, "bob", *order.CustomerInfo)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 22.5, order.Total)
}

func TestEtaBackfillPersists(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	s := newTestOrderService(gw)

	// Older order persisted before eta_delivery existed.
	placed := testTime.Format(time.RFC3339)
	require.NoError(t, gw.Collection("Orders").Set(ctx, "7", models.Order{
		OrderNumber: 7,
		Status:      models.StatusPending,
		PlacedAt:    placed,
		Total:       5,
	}))

	order, err := s.GetOrder(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, testTime.Add(15*time.Minute).Format(time.RFC3339), order.EtaDelivery)

	// Backfill must be written back, not recomputed per read.
	s.randMinutes = func(lo, hi int) int { return hi }
	again, err := s.GetOrder(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, order.EtaDelivery, again.EtaDelivery)
}

func TestEtaBackfillIgnoresBadTimestamp(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	s := newTestOrderService(gw)

	require.NoError(t, gw.Collection("Orders").Set(ctx, "8", models.Order{
		OrderNumber: 8,
		Status:      models.StatusPending,
		PlacedAt:    "not-a-timestamp",
		Total:       5,
	}))

	order, err := s.GetOrder(ctx, "8")
	require.NoError(t, err)
	assert.Empty(t, order.EtaDelivery)
}

func TestGetUserOrdersSkipsDanglingRefs(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	s := newTestOrderService(gw)

	receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
		Username: "bob",
		Items:    []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
	})
	require.NoError(t, err)

	// Reference to an order that no longer exists.
	ref := models.OrderRef{OrderID: "99", PlacedAt: testTime.Format(time.RFC3339)}
	require.NoError(t, gw.Collection("Users").Sub("bob", "ordered").Set(ctx, "99", ref))

	orders, err := s.GetUserOrders(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, receipt.OrderID, strconv.Itoa(orders[0].OrderNumber))
}

func TestGetUserOrdersAscending(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	for i := 0; i < 3; i++ {
		_, err := s.CreateOrder(ctx, models.CreateOrderRequest{
			Username: "bob",
			Items:    []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
		})
		require.NoError(t, err)
	}

	orders, err := s.GetUserOrders(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, order := range orders {
		assert.Equal(t, i+1, order.OrderNumber)
	}
}

func TestGetAllOrders(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	for i := 0; i < 2; i++ {
		_, err := s.CreateOrder(ctx, models.CreateOrderRequest{
			Items: []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
		})
		require.NoError(t, err)
	}

	orders, err := s.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 1, orders[0].OrderNumber)
	assert.Equal(t, 2, orders[1].OrderNumber)
	assert.Nil(t, orders[0].CustomerInfo)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateOrderStatus(ctx, receipt.OrderID, models.StatusDelivering))

	order, err := s.GetOrder(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivering, order.Status)
	assert.Equal(t, 10.0, order.Total)

	// Backward transitions stay allowed.
	require.NoError(t, s.UpdateOrderStatus(ctx, receipt.OrderID, models.StatusPending))
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestOrderService(store.NewMemoryGateway())

	receipt, err := s.CreateOrder(ctx, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{Name: "Pizza", Price: fptr(10)}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, receipt.OrderID, "bogus"), ErrInvalidStatus)
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, receipt.OrderID, ""), ErrMissingStatus)

	order, err := s.GetOrder(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	s := newTestOrderService(store.NewMemoryGateway())
	err := s.UpdateOrderStatus(context.Background(), "42", models.StatusDelivered)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListMenu(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	s := newTestOrderService(gw)

	require.NoError(t, gw.Collection("MenuItems").Set(ctx, "a1", models.MenuItem{Name: "Pizza", Price: 10}))
	require.NoError(t, gw.Collection("MenuItems").Set(ctx, "a2", models.MenuItem{Name: "Juha", Price: 3.5}))

	items, err := s.ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "Pizza", items[0].Name)
	assert.Equal(t, 10.0, items[0].Price)
}
