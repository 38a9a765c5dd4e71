package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/logger"
)

const maxWebhookBody = 64 << 10

// WebhookHandler accepts payment gateway callbacks. Payloads are logged and
// acknowledged; no state changes.
type WebhookHandler struct{}

func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

// Paystack POST /webhooks/paystack/
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Log.WithError(err).Warn("paystack webhook: read body")
	}

	logger.Log.WithFields(logrus.Fields{
		"bytes":     len(body),
		"signature": c.GetHeader("X-Paystack-Signature") != "",
	}).Info("paystack webhook received")

	response.OK(c, "Webhook received", nil)
}
