package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
)

// Recovery turns a panic into the 500 failure envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"stack":  string(debug.Stack()),
		}).Error(fmt.Sprintf("panic: %v", recovered))

		response.Failed(c, http.StatusInternalServerError, apperror.ErrCodeInternal, "An unexpected error occurred", nil)
		c.Abort()
	})
}
