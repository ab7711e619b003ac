package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"payment_relay/internal/usecase"
)

var (
	ErrInvalidAmount = errors.New("amount must be a number or a numeric string")
	ErrInvalidText   = errors.New("value must be a string or a number")
)

var (
	jsonNull  = []byte("null")
	jsonFalse = []byte("false")
)

// Amount is a major-unit amount that clients send either as a JSON number or
// as a numeric string. null, false and "" decode to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) || bytes.Equal(data, jsonFalse) {
		*a = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidAmount
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ErrInvalidAmount
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return ErrInvalidAmount
	}
	*a = Amount(v)
	return nil
}

// Text is a string field that clients may also send as a JSON number.
// null, false and 0 decode to "" so they read as missing.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, jsonNull), bytes.Equal(data, jsonFalse):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidText
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidText
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*t = ""
		return nil
	}
	*t = Text(n.String())
	return nil
}

type InitializeTransactionRequest struct {
	Email       Text   `json:"email" swaggertype:"string" example:"buyer@example.com"`
	Amount      Amount `json:"amount" swaggertype:"number" example:"5000"`
	CallbackURL Text   `json:"callback_url" swaggertype:"string" example:"https://shop.example.com/checkout/complete"`
	OrderID     Text   `json:"orderId" swaggertype:"string" example:"665f1c2e9b1e8a0012345678"`
}

func (r InitializeTransactionRequest) ToInput() usecase.InitializeTransactionInput {
	return usecase.InitializeTransactionInput{
		Email:       string(r.Email),
		Amount:      float64(r.Amount),
		CallbackURL: string(r.CallbackURL),
		OrderID:     string(r.OrderID),
	}
}

type VerifyPaymentRequest struct {
	Reference Text `json:"reference" swaggertype:"string" example:"7PVGX8MEk85tgeEpVDtD"`
}
