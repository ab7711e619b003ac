package entities

import (
	"encoding/json"
	"errors"
	"math"
)

var ErrAmountOutOfRange = errors.New("amount is not representable in minor units")

// InitializedTransaction is what the gateway hands back when a payment is opened.
//
// Data keeps the gateway's `data` object untouched so it can be echoed to the
// client (authorization_url, access_code, reference and whatever else the
// provider adds).
type InitializedTransaction struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	Data             json.RawMessage
}

// VerifiedTransaction is the gateway's view of a transaction after payment.
type VerifiedTransaction struct {
	Reference     string
	Status        OrderStatus
	AmountMinor   int64
	CustomerEmail string
	Data          json.RawMessage
}

// AmountPaid converts the gateway amount back to major units.
func (t VerifiedTransaction) AmountPaid() float64 {
	return FromMinorUnits(t.AmountMinor)
}

// ToMinorUnits converts a major-unit amount (e.g. naira) to the integer
// minor-unit amount (kobo) the gateway expects. NaN, infinities and values
// beyond the int64 range are rejected instead of wrapping.
func ToMinorUnits(amount float64) (int64, error) {
	v := math.Round(amount * 100)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, ErrAmountOutOfRange
	}
	return int64(v), nil
}

func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
