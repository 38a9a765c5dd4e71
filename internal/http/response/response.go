package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const internalMessage = "An unexpected error occurred"

// Extra holds additional top-level keys merged into the envelope.
type Extra map[string]any

// envelope builds {status, message, errors, data} plus extra keys. Extra
// keys never override the four fixed ones.
func envelope(status, message string, errs, data any, extra Extra) gin.H {
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}
	body["status"] = status
	body["message"] = message
	body["errors"] = errs
	body["data"] = data
	return body
}

// Success writes a success envelope with the given HTTP status.
func Success(c *gin.Context, httpStatus int, message string, data any, extra Extra) {
	c.JSON(httpStatus, envelope(StatusSuccess, message, nil, data, extra))
}

func OK(c *gin.Context, message string, data any) {
	Success(c, http.StatusOK, message, data, nil)
}

func Created(c *gin.Context, message string, data any, extra Extra) {
	Success(c, http.StatusCreated, message, data, extra)
}

// Failed writes a failure envelope carrying a machine-readable code.
func Failed(c *gin.Context, httpStatus int, code apperror.ErrorCode, message string, errs any) {
	c.JSON(httpStatus, envelope(StatusFailed, message, errs, nil, Extra{"code": string(code)}))
}

// Error translates err into a failure envelope. AppErrors keep their status
// and message; anything else becomes a 500 with a generic message and is
// logged.
func Error(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}

	if appErr.Code == apperror.ErrCodeInternal {
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("request failed")
		Failed(c, appErr.HTTPStatus, appErr.Code, internalMessage, nil)
		return
	}

	var errs any
	if len(appErr.Fields) > 0 {
		errs = appErr.Fields
	}
	Failed(c, appErr.HTTPStatus, appErr.Code, appErr.Message, errs)
}

// BadRequest reports a malformed request (undecodable body, bad parameter).
func BadRequest(c *gin.Context, message string, errs any) {
	Failed(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, message, errs)
}
