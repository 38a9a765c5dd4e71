package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/service"
)

// CollectionService is implemented by *service.CollectionService.
type CollectionService interface {
	Create(ctx context.Context, in service.CreateCollectionInput) (*models.Collection, error)
	Get(ctx context.Context, slug string) (*service.CollectionDetail, error)
	Dashboard(ctx context.Context, slug string) (*service.Dashboard, error)
	UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error)
}

// ContributionService is implemented by *service.ContributionService.
type ContributionService interface {
	Contribute(ctx context.Context, slug string, in service.ContributeInput) (*service.ContributeResult, error)
	ConfirmPayment(ctx context.Context, slug string, in service.ConfirmInput) (*service.ConfirmResult, error)
	SendReminders(ctx context.Context, slug string, ids []string) (*service.ReminderResult, error)
	AttachProof(ctx context.Context, slug string, contributorID uuid.UUID, ext string, r io.Reader) (*models.Contributor, error)
	GetReceipt(ctx context.Context, rawID string) (*service.Receipt, error)
}

// WithdrawalService is implemented by *service.WithdrawalService.
type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, slug string) (*service.WithdrawalResult, error)
}
