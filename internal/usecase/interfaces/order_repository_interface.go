package interfaces

import (
	"context"
	"errors"

	"payment_relay/internal/domain/entities"
)

//go:generate mockgen -source=order_repository_interface.go -destination=mocks/order_repository_interface_mock.go -package=mock_interfaces

// ErrOrderNotFound is returned by update operations when the target order does
// not exist (or no longer matches the update condition).
var ErrOrderNotFound = errors.New("order not found")

// IOrderRepository abstracts the document store holding orders.
//
// The relay never creates or deletes orders:
//   - UpdateReference attaches the gateway reference after initialize
//   - ListByReference resolves an order from a reference on verify
//   - UpdateStatus stores the verified gateway status
type IOrderRepository interface {
	UpdateReference(ctx context.Context, orderID, reference string) (entities.Order, error)
	ListByReference(ctx context.Context, reference string, limit int) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID, reference string, status entities.OrderStatus) (entities.Order, error)
}
