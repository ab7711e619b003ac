package middleware

import (
	"net/http"

	"payment_relay/pkg"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Recovery turns a handler panic into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(log.Fields{
			"panic":      recovered,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDKey),
		}).Error("[http][recovery] recovered from panic")

		appErr := pkg.NewDomainErrorSimple("INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
	})
}
