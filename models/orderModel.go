package models

// Order statuses. Any status may move to any other, there is no transition
// state machine.
const (
	StatusPending    = "pending"
	StatusPreparing  = "preparing"
	StatusDelivering = "delivering"
	StatusDelivered  = "delivered"
	StatusRejected   = "rejected"
)

// Order is keyed in the Orders collection by its decimal order number.
// Timestamps are stored as RFC 3339 strings.
type Order struct {
	OrderNumber  int         `bson:"order_number" json:"order_number"`
	CustomerInfo *string     `bson:"customer_info" json:"customer_info"`
	Status       string      `bson:"status" json:"status"`
	PlacedAt     string      `bson:"placed_at" json:"placed_at"`
	EtaDelivery  string      `bson:"eta_delivery,omitempty" json:"eta_delivery,omitempty"`
	Total        float64     `bson:"total" json:"total"`
	Items        []OrderItem `bson:"-" json:"items,omitempty"`
}

// OrderItem lives in the order's items sub-collection, keyed "1".."N".
type OrderItem struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// OrderRef is the lightweight reference appended under a user's ordered
// sub-collection when that user places an order.
type OrderRef struct {
	OrderID  string `bson:"orderId" json:"orderId"`
	PlacedAt string `bson:"placed_at" json:"placed_at"`
}
