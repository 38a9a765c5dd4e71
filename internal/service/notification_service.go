package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/models"
)

// Notifier delivers a payment reminder to one contributor.
type Notifier interface {
	Remind(ctx context.Context, collection *models.Collection, contributor *models.Contributor) error
}

// LogNotifier records reminders in the log. SMS and email delivery are not
// wired; this is the only Notifier.
type LogNotifier struct {
	publicBaseURL string
}

func NewLogNotifier(publicBaseURL string) *LogNotifier {
	return &LogNotifier{publicBaseURL: publicBaseURL}
}

func (n *LogNotifier) Remind(_ context.Context, collection *models.Collection, contributor *models.Contributor) error {
	logger.Log.WithFields(logrus.Fields{
		"slug":           collection.Slug,
		"contributor_id": contributor.ID,
		"phone":          contributor.Phone,
		"reference":      contributor.PaymentReference,
		"amount_owed":    contributor.AmountOwed.StringFixed(2),
		"collection_url": CollectionURL(n.publicBaseURL, collection.Slug),
	}).Info("payment reminder")
	return nil
}

// CollectionURL is the public link of a collection.
func CollectionURL(baseURL, slug string) string {
	return baseURL + "/" + slug
}
