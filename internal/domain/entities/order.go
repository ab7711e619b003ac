package entities

import "time"

// OrderStatus mirrors the transaction state reported by the payment gateway.
//
// The relay never invents statuses: whatever the gateway returns on verify is
// stored as-is. The constants below are the values Paystack documents.
type OrderStatus string

const (
	OrderStatusSuccess   OrderStatus = "success"
	OrderStatusAbandoned OrderStatus = "abandoned"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusOngoing   OrderStatus = "ongoing"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReversed  OrderStatus = "reversed"
)

// Order is the purchase record created by the storefront and mutated here.
//
// Storage model:
//   - PK: id (the storefront's orderId)
//   - secondary index on reference
//
// Lifecycle inside this service:
//   - initialize attaches Reference
//   - verify sets Status
type Order struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference,omitempty"`
	Status    OrderStatus `json:"status,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}
