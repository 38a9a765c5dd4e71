package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/repository"
)

// CollectionRepository is the collection storage used by the services.
type CollectionRepository interface {
	Create(ctx context.Context, c *models.Collection) error
	GetBySlug(ctx context.Context, slug string) (*models.Collection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error)
}

// ContributorRepository is the contributor storage used by the services.
type ContributorRepository interface {
	FindOrCreate(ctx context.Context, candidate *models.Contributor, payment *models.Transaction) (*models.Contributor, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contributor, error)
	ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]models.Contributor, error)
	ListPending(ctx context.Context, collectionID uuid.UUID, ids []uuid.UUID) ([]models.Contributor, error)
	ConfirmPayment(ctx context.Context, collectionID, id uuid.UUID, proof, verifiedBy string, now time.Time) (*models.Contributor, bool, error)
	SetPaymentProof(ctx context.Context, collectionID, id uuid.UUID, path string) (*models.Contributor, error)
}

type TransactionRepository interface {
	ListByCollection(ctx context.Context, collectionID uuid.UUID, limit int) ([]models.Transaction, error)
}

type WithdrawalRepository interface {
	CloseForWithdrawal(ctx context.Context, collectionID uuid.UUID, record *repository.WithdrawalRecord, now time.Time) (*repository.CloseResult, error)
	GetByCollection(ctx context.Context, collectionID uuid.UUID) (*models.Withdrawal, error)
}
