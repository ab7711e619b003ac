package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrMissingPaystackSecretKey = errors.New("missing PAYSTACK_SECRET_KEY")
var ErrPaystackGatewayNotConfigured = errors.New("paystack gateway not configured")
var ErrInvalidGatewayResponse = errors.New("invalid payment gateway response")

const DefaultPaystackBaseURL = "https://api.paystack.co"

// envelope is the shape of every Paystack API response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	CallbackURL string `json:"callback_url"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type PaystackOptions struct {
	SecretKey string
	BaseURL   string
	// Timeout bounds a single gateway call; zero means no timeout.
	Timeout time.Duration
	Mock    bool
}

// PaystackGateway talks to the Paystack transaction API.
//
// In mock mode no network call is made: initialize returns a fresh reference
// and verify reports "success" for any reference, which is enough to drive the
// relay locally against a real order store.
type PaystackGateway struct {
	client   *resty.Client
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*PaystackGateway)(nil)

func NewPaystackGateway(opts PaystackOptions) (*PaystackGateway, error) {
	if opts.Mock {
		log.Info("[payment][gateway] mock mode enabled")
		return &PaystackGateway{mockMode: true}, nil
	}

	secret := strings.TrimSpace(opts.SecretKey)
	if secret == "" {
		log.Error("[payment][gateway] missing PAYSTACK_SECRET_KEY")
		return nil, ErrMissingPaystackSecretKey
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultPaystackBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout).
		SetRetryCount(0)

	log.WithField("base_url", baseURL).Info("[payment][gateway] Paystack client initialized")
	return &PaystackGateway{client: client}, nil
}

func (g *PaystackGateway) InitializeTransaction(ctx context.Context, email string, amountMinor int64, callbackURL string) (entities.InitializedTransaction, error) {
	if g != nil && g.mockMode {
		return mockInitialize(email, amountMinor, callbackURL)
	}
	if g == nil || g.client == nil {
		return entities.InitializedTransaction{}, ErrPaystackGatewayNotConfigured
	}
	logger := log.WithField("amount_minor", amountMinor)
	logger.Info("[payment][gateway] initialize start")

	env, err := g.do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		CallbackURL: callbackURL,
	})
	if err != nil {
		logger.WithError(err).Error("[payment][gateway] initialize failed")
		return entities.InitializedTransaction{}, err
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return entities.InitializedTransaction{}, fmt.Errorf("%w: initialize data: %v", ErrInvalidGatewayResponse, err)
	}
	if data.Reference == "" {
		return entities.InitializedTransaction{}, fmt.Errorf("%w: initialize data has no reference", ErrInvalidGatewayResponse)
	}
	logger.WithField("reference", data.Reference).Info("[payment][gateway] initialize success")

	return entities.InitializedTransaction{
		Reference:        data.Reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Data:             env.Data,
	}, nil
}

func (g *PaystackGateway) VerifyTransaction(ctx context.Context, reference string) (entities.VerifiedTransaction, error) {
	if g != nil && g.mockMode {
		return mockVerify(reference)
	}
	if g == nil || g.client == nil {
		return entities.VerifiedTransaction{}, ErrPaystackGatewayNotConfigured
	}
	logger := log.WithField("reference", reference)
	logger.Info("[payment][gateway] verify start")

	env, err := g.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		logger.WithError(err).Warn("[payment][gateway] verify failed")
		return entities.VerifiedTransaction{}, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return entities.VerifiedTransaction{}, fmt.Errorf("%w: verify data: %v", ErrInvalidGatewayResponse, err)
	}
	if data.Reference == "" {
		data.Reference = reference
	}
	logger.WithField("gateway_status", data.Status).Info("[payment][gateway] verify success")

	return entities.VerifiedTransaction{
		Reference:     data.Reference,
		Status:        entities.OrderStatus(data.Status),
		AmountMinor:   data.Amount,
		CustomerEmail: data.Customer.Email,
		Data:          env.Data,
	}, nil
}

// do performs one call and decodes the Paystack envelope. The decision is made
// on the envelope's status flag, not on the HTTP status code: Paystack reports
// refusals as 4xx with a JSON body carrying status=false.
func (g *PaystackGateway) do(ctx context.Context, method, path string, body any) (envelope, error) {
	req := g.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return envelope{}, fmt.Errorf("paystack %s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return envelope{}, fmt.Errorf("%w: http %d: %v", ErrInvalidGatewayResponse, resp.StatusCode(), err)
	}
	if !env.Status {
		return envelope{}, fmt.Errorf("%w: http %d: %s", interfaces.ErrGatewayDeclined, resp.StatusCode(), env.Message)
	}
	return env, nil
}

func mockInitialize(email string, amountMinor int64, callbackURL string) (entities.InitializedTransaction, error) {
	ref := "mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	accessCode := ref[len(ref)-12:]
	data, err := json.Marshal(map[string]any{
		"authorization_url": "https://checkout.paystack.com/" + accessCode,
		"access_code":       accessCode,
		"reference":         ref,
		"email":             email,
		"amount":            amountMinor,
		"callback_url":      callbackURL,
	})
	if err != nil {
		return entities.InitializedTransaction{}, err
	}
	log.WithField("reference", ref).Info("[payment][gateway] mock initialize success")
	return entities.InitializedTransaction{
		Reference:        ref,
		AuthorizationURL: "https://checkout.paystack.com/" + accessCode,
		AccessCode:       accessCode,
		Data:             data,
	}, nil
}

func mockVerify(reference string) (entities.VerifiedTransaction, error) {
	data, err := json.Marshal(map[string]any{
		"reference": reference,
		"status":    string(entities.OrderStatusSuccess),
		"amount":    0,
		"paid_at":   time.Now().UTC().Format(time.RFC3339Nano),
		"customer":  map[string]any{"email": ""},
	})
	if err != nil {
		return entities.VerifiedTransaction{}, err
	}
	log.WithField("reference", reference).Info("[payment][gateway] mock verify success")
	return entities.VerifiedTransaction{
		Reference: reference,
		Status:    entities.OrderStatusSuccess,
		Data:      data,
	}, nil
}
