package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/Kapeta-16/DevOpsPraktikum/models"
	"github.com/Kapeta-16/DevOpsPraktikum/store"
)

const (
	menuCollection    = "MenuItems"
	usersCollection   = "Users"
	ordersCollection  = "Orders"
	counterCollection = "BrojNarudba"
	counterDocument   = "narudbe"
	counterField      = "trenutni"
	itemsSub          = "items"
	orderedSub        = "ordered"
)

var validStatuses = map[string]bool{
	models.StatusPending:    true,
	models.StatusPreparing:  true,
	models.StatusDelivering: true,
	models.StatusDelivered:  true,
	models.StatusRejected:   true,
}

// OrderReceipt is returned to the client after a successful order placement.
type OrderReceipt struct {
	OrderID     string
	Total       float64
	EtaDelivery string
}

type OrderService struct {
	store store.Gateway

	// Overridable in tests for deterministic timestamps and ETAs.
	now         func() time.Time
	randMinutes func(lo, hi int) int
}

func NewOrderService(gw store.Gateway) *OrderService {
	return &OrderService{
		store: gw,
		now:   time.Now,
		randMinutes: func(lo, hi int) int {
			return lo + rand.Intn(hi-lo+1)
		},
	}
}

// ListMenu returns every menu item with its store-assigned id attached.
func (s *OrderService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	docs, err := s.store.Collection(menuCollection).Stream(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, len(docs))
	for _, doc := range docs {
		var item models.MenuItem
		if err := doc.Decode(&item); err != nil {
			return nil, err
		}
		item.ID = doc.ID
		items = append(items, item)
	}
	return items, nil
}

// CreateOrder numbers the order from the atomic counter, computes the total,
// assigns the delivery estimate and persists the order, its items and the
// reference under the ordering user. Order numbers are unique and strictly
// increasing because the counter increment is a single server-side operation.
//
// Delivery policy: placed_at + 15..30 random minutes.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*OrderReceipt, error) {
	if len(req.Items) == 0 {
		return nil, ErrMissingData
	}

	now := s.now()
	eta := now.Add(time.Duration(s.randMinutes(15, 30)) * time.Minute)

	total := 0.0
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		price := 0.0
		if it.Price != nil {
			price = *it.Price
		}
		quantity := 1
		if it.Quantity != nil {
			quantity = *it.Quantity
		}
		total += price * float64(quantity)
		items = append(items, models.OrderItem{Name: it.Name, Price: price, Quantity: quantity})
	}

	number, err := s.store.Collection(counterCollection).Increment(ctx, counterDocument, counterField, 1)
	if err != nil {
		return nil, fmt.Errorf("assign order number: %w", err)
	}
	orderID := strconv.FormatInt(number, 10)

	order := models.Order{
		OrderNumber: int(number),
		Status:      models.StatusPending,
		PlacedAt:    now.Format(time.RFC3339),
		EtaDelivery: eta.Format(time.RFC3339),
		Total:       total,
	}
	if req.Username != "" {
		username := req.Username
		order.CustomerInfo = &username
	}

	orders := s.store.Collection(ordersCollection)
	if err := orders.Set(ctx, orderID, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	itemsCol := orders.Sub(orderID, itemsSub)
	for i, item := range items {
		if err := itemsCol.Set(ctx, strconv.Itoa(i+1), item); err != nil {
			return nil, fmt.Errorf("persist order item %d: %w", i+1, err)
		}
	}

	if req.Username != "" {
		ref := models.OrderRef{OrderID: orderID, PlacedAt: order.PlacedAt}
		if err := s.store.Collection(usersCollection).Sub(req.Username, orderedSub).Set(ctx, orderID, ref); err != nil {
			return nil, fmt.Errorf("persist order reference: %w", err)
		}
	}

	return &OrderReceipt{OrderID: orderID, Total: total, EtaDelivery: order.EtaDelivery}, nil
}

// GetOrder returns the order with its items sub-collection materialized,
// applying the ETA backfill to older records.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	orders := s.store.Collection(ordersCollection)
	doc, err := orders.Get(ctx, orderID)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := doc.Decode(&order); err != nil {
		return nil, err
	}
	s.backfillETA(ctx, orderID, &order)

	itemDocs, err := orders.Sub(orderID, itemsSub).Stream(ctx)
	if err != nil {
		return nil, err
	}
	sortByNumericID(itemDocs)

	order.Items = make([]models.OrderItem, 0, len(itemDocs))
	for _, itemDoc := range itemDocs {
		var item models.OrderItem
		if err := itemDoc.Decode(&item); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return &order, nil
}

// GetUserOrders resolves the user's ordered references in ascending
// order-number order. References whose order no longer exists are skipped.
func (s *OrderService) GetUserOrders(ctx context.Context, username string) ([]models.Order, error) {
	refDocs, err := s.store.Collection(usersCollection).Sub(username, orderedSub).Stream(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(refDocs))
	for _, refDoc := range refDocs {
		var ref models.OrderRef
		if err := refDoc.Decode(&ref); err != nil {
			return nil, err
		}
		id := ref.OrderID
		if id == "" {
			id = refDoc.ID
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return numericLess(ids[i], ids[j]) })

	orders := s.store.Collection(ordersCollection)
	result := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		doc, err := orders.Get(ctx, id)
		if errors.Is(err, store.ErrNoDocument) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var order models.Order
		if err := doc.Decode(&order); err != nil {
			return nil, err
		}
		s.backfillETA(ctx, id, &order)
		result = append(result, order)
	}
	return result, nil
}

// GetAllOrders streams every order, backfilling ETAs as needed. The full list
// is returned without pagination.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	docs, err := s.store.Collection(ordersCollection).Stream(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		var order models.Order
		if err := doc.Decode(&order); err != nil {
			return nil, err
		}
		s.backfillETA(ctx, doc.ID, &order)
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderNumber < orders[j].OrderNumber })
	return orders, nil
}

// UpdateOrderStatus overwrites only the status field. Transitions are not
// restricted.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if status == "" {
		return ErrMissingStatus
	}
	if !validStatuses[status] {
		return ErrInvalidStatus
	}

	err := s.store.Collection(ordersCollection).Update(ctx, orderID, map[string]interface{}{"status": status})
	if errors.Is(err, store.ErrNoDocument) {
		return ErrOrderNotFound
	}
	return err
}

// backfillETA lazily repairs orders that predate the eta_delivery field:
// placed_at + 15..60 random minutes, persisted back onto the document. A
// failure here is logged and never fails the surrounding request.
func (s *OrderService) backfillETA(ctx context.Context, orderID string, order *models.Order) {
	if order.EtaDelivery != "" || order.PlacedAt == "" {
		return
	}
	placed, err := time.Parse(time.RFC3339, order.PlacedAt)
	if err != nil {
		log.Printf("WARN eta backfill skipped order=%s placed_at=%q err=%v", orderID, order.PlacedAt, err)
		return
	}
	eta := placed.Add(time.Duration(s.randMinutes(15, 60)) * time.Minute).Format(time.RFC3339)
	if err := s.store.Collection(ordersCollection).Update(ctx, orderID, map[string]interface{}{"eta_delivery": eta}); err != nil {
		log.Printf("WARN eta backfill not persisted order=%s err=%v", orderID, err)
		return
	}
	order.EtaDelivery = eta
}

func sortByNumericID(docs []store.Doc) {
	sort.Slice(docs, func(i, j int) bool { return numericLess(docs[i].ID, docs[j].ID) })
}

func numericLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return na < nb
}
