package handlers

import (
	"errors"
	"net/http"

	request "payment_relay/internal/adapter/http/dto/request"
	response "payment_relay/internal/adapter/http/dto/response"
	"payment_relay/internal/infrastructure/metrics"
	"payment_relay/internal/usecase"
	"payment_relay/pkg"

	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	usecase usecase.IVerificationUseCase
}

func NewVerificationHandler(uc usecase.IVerificationUseCase) *VerificationHandler {
	return &VerificationHandler{usecase: uc}
}

// VerifyPayment godoc
// @Summary      Verify a payment
// @Description  Checks a transaction with Paystack and records its status on the matching order.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      request.VerifyPaymentRequest  true  "Reference"
// @Success      200   {object}  response.VerifyPaymentResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Failure      500   {object}  pkg.HTTPError
// @Router       /api/verify-payment [post]
func (h *VerificationHandler) VerifyPayment(c *gin.Context) {
	logger := requestLogger(c)

	var req request.VerifyPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		logger.WithError(err).Error("[verification][handler] invalid body")
		metrics.PaymentsVerified.WithLabelValues("error").Inc()
		writeError(c, internalError(err))
		return
	}
	reference := string(req.Reference)
	logger = logger.WithField("reference", reference)
	logger.Info("[verification][handler] verify start")

	result, err := h.usecase.Verify(c.Request.Context(), reference)
	if err != nil {
		appErr := mapVerificationError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.WithError(err).Error("[verification][handler] verify failed")
			metrics.PaymentsVerified.WithLabelValues("error").Inc()
		} else {
			logger.WithError(err).Warn("[verification][handler] verify rejected")
			metrics.PaymentsVerified.WithLabelValues(verificationFailureLabel(err)).Inc()
		}
		writeError(c, appErr)
		return
	}
	logger.WithField("order_id", result.OrderID).WithField("status", result.Status).Info("[verification][handler] verify success")
	metrics.PaymentsVerified.WithLabelValues(string(result.Status)).Inc()
	metrics.AmountPaid.Observe(result.AmountPaid)

	c.JSON(http.StatusOK, response.FromVerificationResult(result))
}

func mapVerificationError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingReference):
		return pkg.NewDomainErrorSimple("MISSING_REFERENCE", "Missing payment reference", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentVerificationFailed):
		return pkg.NewDomainError("PAYMENT_VERIFICATION_FAILED", "Payment verification failed", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrVerificationInProgress):
		return pkg.NewDomainErrorSimple("VERIFICATION_IN_PROGRESS", "Payment verification already in progress", http.StatusConflict)
	default:
		return internalError(err)
	}
}

func verificationFailureLabel(err error) string {
	switch {
	case errors.Is(err, usecase.ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, usecase.ErrPaymentVerificationFailed):
		return "declined"
	case errors.Is(err, usecase.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, usecase.ErrVerificationInProgress):
		return "in_progress"
	}
	return "error"
}
