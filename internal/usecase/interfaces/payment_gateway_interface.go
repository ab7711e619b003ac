package interfaces

import (
	"context"
	"errors"

	"payment_relay/internal/domain/entities"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_interface_mock.go -package=mock_interfaces

// ErrGatewayDeclined is returned when the gateway answered but reported
// `status: false` for the operation.
var ErrGatewayDeclined = errors.New("payment gateway declined the request")

// IPaymentGateway abstracts the external payment provider (Paystack).
//
// Transport failures and unreadable responses are returned as plain errors;
// only an explicit provider refusal is ErrGatewayDeclined.
type IPaymentGateway interface {
	InitializeTransaction(ctx context.Context, email string, amountMinor int64, callbackURL string) (entities.InitializedTransaction, error)
	VerifyTransaction(ctx context.Context, reference string) (entities.VerifiedTransaction, error)
}
