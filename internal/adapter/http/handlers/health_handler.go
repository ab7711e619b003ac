package handlers

import (
	"net/http"

	response "payment_relay/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary  Liveness probe
// @Tags     ops
// @Produce  json
// @Success  200  {object}  response.HealthResponse
// @Router   /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}

// RouteNotFound writes the JSON body used for every unmatched method or path.
func RouteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.NewRouteNotFoundResponse())
}
