package common

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kontribute/kontribute-backend/internal/http/response"
)

// SlugParam returns the collection slug from the URL.
func SlugParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}

// ParseUUIDParam parses a UUID path parameter. On failure it writes a 400
// envelope and returns false.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		response.BadRequest(c, "Invalid "+paramName, map[string]string{paramName: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return parsed, true
}

// BindJSON decodes the request body into req. An empty body leaves req at
// its zero value when allowEmpty is set. On failure it writes a 400
// envelope and returns false.
func BindJSON(c *gin.Context, req any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	response.BadRequest(c, "The data are not valid", map[string]string{"body": err.Error()})
	return false
}
