package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingReference          = errors.New("missing payment reference")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrOrderNotFound             = errors.New("order not found")
	ErrVerificationInProgress    = errors.New("payment verification already in progress")
)

// VerificationResult is what the client gets back after a successful verify.
type VerificationResult struct {
	OrderID       string
	Reference     string
	Status        entities.OrderStatus
	AmountPaid    float64
	CustomerEmail string
}

// IVerificationUseCase checks a transaction with the gateway and records the
// outcome on the matching order.
type IVerificationUseCase interface {
	Verify(ctx context.Context, reference string) (VerificationResult, error)
}

type VerificationUseCase struct {
	repo      interfaces.IOrderRepository
	gateway   interfaces.IPaymentGateway
	locker    interfaces.IVerificationLocker
	publisher interfaces.IPaymentEventPublisher
	now       func() time.Time
}

var _ IVerificationUseCase = (*VerificationUseCase)(nil)

// NewVerificationUseCase wires the verify flow. locker and publisher are
// optional; nil disables per-reference locking and event publishing.
func NewVerificationUseCase(
	repo interfaces.IOrderRepository,
	gateway interfaces.IPaymentGateway,
	locker interfaces.IVerificationLocker,
	publisher interfaces.IPaymentEventPublisher,
) *VerificationUseCase {
	return &VerificationUseCase{
		repo:      repo,
		gateway:   gateway,
		locker:    locker,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *VerificationUseCase) Verify(ctx context.Context, reference string) (VerificationResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		log.Info("[verify][usecase] missing reference")
		return VerificationResult{}, ErrMissingReference
	}
	if u.gateway == nil {
		return VerificationResult{}, ErrGatewayNotConfigured
	}
	if u.repo == nil {
		return VerificationResult{}, ErrOrderRepoNotConfigured
	}
	logger := log.WithField("reference", reference)

	if u.locker != nil {
		release, err := u.locker.Acquire(ctx, reference)
		if err != nil {
			if errors.Is(err, interfaces.ErrLockHeld) {
				logger.Warn("[verify][usecase] verification already in progress")
				return VerificationResult{}, ErrVerificationInProgress
			}
			logger.WithError(err).Error("[verify][usecase] lock acquire failed")
			return VerificationResult{}, err
		}
		defer release()
	}

	logger.Info("[verify][usecase] calling payment gateway")
	tx, err := u.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, interfaces.ErrGatewayDeclined) {
			logger.WithError(err).Warn("[verify][usecase] payment gateway declined verification")
			return VerificationResult{}, fmt.Errorf("%w: %w", ErrPaymentVerificationFailed, err)
		}
		logger.WithError(err).Error("[verify][usecase] payment gateway failed")
		return VerificationResult{}, err
	}
	logger = logger.WithField("gateway_status", tx.Status)

	orders, err := u.repo.ListByReference(ctx, reference, 1)
	if err != nil {
		logger.WithError(err).Error("[verify][usecase] order lookup failed")
		return VerificationResult{}, err
	}
	if len(orders) == 0 {
		logger.Info("[verify][usecase] order not found")
		return VerificationResult{}, ErrOrderNotFound
	}
	order := orders[0]
	logger = logger.WithField("order_id", order.ID)

	if _, err := u.repo.UpdateStatus(ctx, order.ID, reference, tx.Status); err != nil {
		if errors.Is(err, interfaces.ErrOrderNotFound) {
			logger.Warn("[verify][usecase] order no longer matches reference")
			return VerificationResult{}, ErrOrderNotFound
		}
		logger.WithError(err).Error("[verify][usecase] order status update failed")
		return VerificationResult{}, err
	}

	result := VerificationResult{
		OrderID:       order.ID,
		Reference:     reference,
		Status:        tx.Status,
		AmountPaid:    tx.AmountPaid(),
		CustomerEmail: tx.CustomerEmail,
	}
	logger.WithField("amount_paid", result.AmountPaid).Info("[verify][usecase] payment verified")

	u.publish(ctx, result, logger)
	return result, nil
}

func (u *VerificationUseCase) publish(ctx context.Context, result VerificationResult, logger *log.Entry) {
	if u.publisher == nil {
		return
	}
	err := u.publisher.PublishPaymentVerified(ctx, interfaces.PaymentVerifiedEvent{
		OrderID:       result.OrderID,
		Reference:     result.Reference,
		Status:        result.Status,
		AmountPaid:    result.AmountPaid,
		CustomerEmail: result.CustomerEmail,
		VerifiedAt:    u.now(),
	})
	if err != nil {
		logger.WithError(err).Warn("[verify][usecase] payment verified event not published")
	}
}
