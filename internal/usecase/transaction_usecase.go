package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingRequiredFields    = errors.New("missing required fields")
	ErrTransactionInitFailed    = errors.New("failed to initialize transaction with payment gateway")
	ErrGatewayNotConfigured     = errors.New("payment gateway not configured")
	ErrOrderRepoNotConfigured   = errors.New("order repository not configured")
	ErrOrderReferenceNotUpdated = errors.New("failed to attach reference to order")
)

// InitializeTransactionInput is the initiation command as received from the client.
type InitializeTransactionInput struct {
	Email       string
	Amount      float64
	CallbackURL string
	OrderID     string
}

// Validate enforces "all four fields present and truthy".
func (in InitializeTransactionInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" ||
		in.Amount == 0 ||
		strings.TrimSpace(in.CallbackURL) == "" ||
		strings.TrimSpace(in.OrderID) == "" {
		return ErrMissingRequiredFields
	}
	return nil
}

// ITransactionUseCase opens a gateway transaction for an existing order.
type ITransactionUseCase interface {
	Initialize(ctx context.Context, in InitializeTransactionInput) (entities.InitializedTransaction, error)
}

type TransactionUseCase struct {
	repo    interfaces.IOrderRepository
	gateway interfaces.IPaymentGateway
}

var _ ITransactionUseCase = (*TransactionUseCase)(nil)

func NewTransactionUseCase(repo interfaces.IOrderRepository, gateway interfaces.IPaymentGateway) *TransactionUseCase {
	return &TransactionUseCase{repo: repo, gateway: gateway}
}

func (u *TransactionUseCase) Initialize(ctx context.Context, in InitializeTransactionInput) (entities.InitializedTransaction, error) {
	if err := in.Validate(); err != nil {
		log.WithField("order_id", in.OrderID).Info("[transaction][usecase] missing required fields")
		return entities.InitializedTransaction{}, err
	}
	if u.gateway == nil {
		return entities.InitializedTransaction{}, ErrGatewayNotConfigured
	}
	if u.repo == nil {
		return entities.InitializedTransaction{}, ErrOrderRepoNotConfigured
	}

	orderID := strings.TrimSpace(in.OrderID)
	amountMinor, err := entities.ToMinorUnits(in.Amount)
	if err != nil {
		log.WithField("order_id", orderID).WithError(err).Error("[transaction][usecase] invalid amount")
		return entities.InitializedTransaction{}, fmt.Errorf("%w: %v", err, in.Amount)
	}
	logger := log.WithFields(log.Fields{"order_id": orderID, "amount_minor": amountMinor})

	logger.Info("[transaction][usecase] calling payment gateway")
	tx, err := u.gateway.InitializeTransaction(ctx, strings.TrimSpace(in.Email), amountMinor, strings.TrimSpace(in.CallbackURL))
	if err != nil {
		logger.WithError(err).Error("[transaction][usecase] payment gateway failed")
		return entities.InitializedTransaction{}, fmt.Errorf("%w: %w", ErrTransactionInitFailed, err)
	}
	logger = logger.WithField("reference", tx.Reference)
	logger.Info("[transaction][usecase] payment gateway success")

	if _, err := u.repo.UpdateReference(ctx, orderID, tx.Reference); err != nil {
		logger.WithError(err).Error("[transaction][usecase] order reference update failed")
		return entities.InitializedTransaction{}, fmt.Errorf("%w: %w", ErrOrderReferenceNotUpdated, err)
	}
	logger.Info("[transaction][usecase] order initialized, awaiting payment")

	return tx, nil
}
