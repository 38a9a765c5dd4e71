package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
)

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestCreatedEnvelopeWithExtra(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Created(c, "Collection Created Successfully", gin.H{"slug": "trip"}, Extra{
			"collection_url": "https://kontribute.com/trip",
			"status":         "ignored",
		})
	})

	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Collection Created Successfully", body["message"])
	assert.Nil(t, body["errors"])
	assert.Equal(t, map[string]any{"slug": "trip"}, body["data"])
	assert.Equal(t, "https://kontribute.com/trip", body["collection_url"])
}

func TestErrorWithAppError(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Error(c, apperror.ValidationFields("The data are not valid", map[string]string{"phone": "bad"}))
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, map[string]any{"phone": "bad"}, body["errors"])
	assert.Nil(t, body["data"])
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Error(c, errors.New("pq: password authentication failed"))
	})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, internalMessage, body["message"])
	assert.NotContains(t, body["message"], "pq:")
}

func TestErrorNotFound(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Error(c, apperror.ErrCollectionNotFound)
	})

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Collection not found", body["message"])
	assert.Contains(t, body, "errors")
}
