package response

import (
	"encoding/json"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase"
)

const (
	MessageOrderInitialized = "Order initialized, awaiting payment"
	MessagePaymentVerified  = "Payment verified"
	MessageRouteNotFound    = "Route not found"
)

type InitializeTransactionResponse struct {
	Message string          `json:"message" example:"Order initialized, awaiting payment"`
	Data    json.RawMessage `json:"data" swaggertype:"object"`
}

// FromInitializedTransaction echoes the gateway data object verbatim.
func FromInitializedTransaction(tx entities.InitializedTransaction) InitializeTransactionResponse {
	data := tx.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return InitializeTransactionResponse{
		Message: MessageOrderInitialized,
		Data:    data,
	}
}

type VerifyPaymentResponse struct {
	Message       string  `json:"message" example:"Payment verified"`
	Status        string  `json:"status" example:"success"`
	AmountPaid    float64 `json:"amountPaid" example:"5000"`
	CustomerEmail string  `json:"customerEmail" example:"buyer@example.com"`
}

func FromVerificationResult(r usecase.VerificationResult) VerifyPaymentResponse {
	return VerifyPaymentResponse{
		Message:       MessagePaymentVerified,
		Status:        string(r.Status),
		AmountPaid:    r.AmountPaid,
		CustomerEmail: r.CustomerEmail,
	}
}

type RouteNotFoundResponse struct {
	Status  bool   `json:"status" example:"false"`
	Message string `json:"message" example:"Route not found"`
}

func NewRouteNotFoundResponse() RouteNotFoundResponse {
	return RouteNotFoundResponse{Status: false, Message: MessageRouteNotFound}
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
