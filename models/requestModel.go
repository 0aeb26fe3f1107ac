package models

// Request bodies accepted by the HTTP layer. Pointer fields distinguish an
// absent value from an explicit zero so the documented defaults apply.

type OrderItemRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type CreateOrderRequest struct {
	Username string             `json:"username"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
