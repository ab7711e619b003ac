package interfaces

import (
	"context"
	"time"

	"payment_relay/internal/domain/entities"
)

//go:generate mockgen -source=payment_event_publisher_interface.go -destination=mocks/payment_event_publisher_interface_mock.go -package=mock_interfaces

// PaymentVerifiedEvent is emitted after an order status was updated from a
// gateway verification.
type PaymentVerifiedEvent struct {
	OrderID       string
	Reference     string
	Status        entities.OrderStatus
	AmountPaid    float64
	CustomerEmail string
	VerifiedAt    time.Time
}

type IPaymentEventPublisher interface {
	PublishPaymentVerified(ctx context.Context, event PaymentVerifiedEvent) error
}
