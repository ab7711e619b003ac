package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	request "payment_relay/internal/adapter/http/dto/request"
	response "payment_relay/internal/adapter/http/dto/response"
	"payment_relay/internal/adapter/http/middleware"
	"payment_relay/internal/infrastructure/metrics"
	"payment_relay/internal/usecase"
	"payment_relay/pkg"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// TransactionHandler opens payment transactions for storefront orders.
type TransactionHandler struct {
	usecase usecase.ITransactionUseCase
}

func NewTransactionHandler(uc usecase.ITransactionUseCase) *TransactionHandler {
	return &TransactionHandler{usecase: uc}
}

// InitializeTransaction godoc
// @Summary      Initialize a payment transaction
// @Description  Opens a Paystack transaction for an order and stores the returned reference on it.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      request.InitializeTransactionRequest  true  "Transaction"
// @Success      200   {object}  response.InitializeTransactionResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      500   {object}  pkg.HTTPError
// @Router       /api/initialize-transaction [post]
func (h *TransactionHandler) InitializeTransaction(c *gin.Context) {
	logger := requestLogger(c)

	var req request.InitializeTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		logger.WithError(err).Error("[transaction][handler] invalid body")
		metrics.TransactionsInitialized.WithLabelValues("error").Inc()
		writeError(c, internalError(err))
		return
	}
	in := req.ToInput()
	logger = logger.WithField("order_id", in.OrderID)
	logger.Info("[transaction][handler] initialize start")

	tx, err := h.usecase.Initialize(c.Request.Context(), in)
	if err != nil {
		appErr := mapTransactionError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.WithError(err).Error("[transaction][handler] initialize failed")
			metrics.TransactionsInitialized.WithLabelValues("error").Inc()
		} else {
			logger.WithError(err).Warn("[transaction][handler] initialize rejected")
			metrics.TransactionsInitialized.WithLabelValues("missing_fields").Inc()
		}
		writeError(c, appErr)
		return
	}
	logger.WithField("reference", tx.Reference).Info("[transaction][handler] initialize success")
	metrics.TransactionsInitialized.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, response.FromInitializedTransaction(tx))
}

func mapTransactionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingRequiredFields):
		return pkg.NewDomainErrorSimple("MISSING_REQUIRED_FIELDS", "Missing required fields", http.StatusBadRequest)
	default:
		return internalError(err)
	}
}

var ErrEmptyBody = errors.New("request body is empty or null")

// bindJSON decodes the raw request body. Empty and null bodies are malformed,
// not missing fields: there is no object to read the fields from.
func bindJSON(c *gin.Context, dst any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ErrEmptyBody
	}
	return json.Unmarshal(raw, dst)
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "Internal Server Error", err, http.StatusInternalServerError)
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func requestLogger(c *gin.Context) *log.Entry {
	fields := log.Fields{"path": c.FullPath()}
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		fields["request_id"] = id
	}
	return log.WithFields(fields)
}
