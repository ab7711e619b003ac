package routes

import (
	"net/http"

	"payment_relay/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAPI                   = "/api"
	PathInitializeTransaction = "/initialize-transaction"
	PathVerifyPayment         = "/verify-payment"
	PathHealth                = "/health"
	PathMetrics               = "/metrics"
)

// Route is one entry of the explicit route table.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func paymentRoutes(th *handlers.TransactionHandler, vh *handlers.VerificationHandler) []Route {
	return []Route{
		{Method: http.MethodPost, Path: PathInitializeTransaction, Handler: th.InitializeTransaction},
		{Method: http.MethodPost, Path: PathVerifyPayment, Handler: vh.VerifyPayment},
	}
}

func addRoutes(rg gin.IRoutes, table []Route) {
	for _, rt := range table {
		rg.Handle(rt.Method, rt.Path, rt.Handler)
	}
}
