package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kontribute/kontribute-backend/internal/http/response"
)

// UUIDValidator rejects requests whose paramName is not a UUID.
// Usage: r.POST("/contributors/:id/proof/", UUIDValidator("id"), h.UploadProof)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(paramName)); err != nil {
			response.BadRequest(c, "Invalid "+paramName, map[string]string{paramName: "must be a valid UUID"})
			c.Abort()
			return
		}
		c.Next()
	}
}
