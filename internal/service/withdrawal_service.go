package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/repository"
)

// WithdrawalResult is the snapshot returned after a withdrawal request.
type WithdrawalResult struct {
	Collection     *models.Collection
	Withdrawal     *models.Withdrawal
	TotalCollected decimal.Decimal
	BankDetails    models.BankDetails
}

type WithdrawalService struct {
	collections   CollectionRepository
	withdrawals   WithdrawalRepository
	events        EventPublisher
	recordPayouts bool
	now           func() time.Time
}

func NewWithdrawalService(collections CollectionRepository, withdrawals WithdrawalRepository, events EventPublisher) *WithdrawalService {
	if events == nil {
		events = noopPublisher{}
	}
	return &WithdrawalService{
		collections: collections,
		withdrawals: withdrawals,
		events:      events,
		now:         time.Now,
	}
}

// SetRecordWithdrawals turns on persisting a pending Withdrawal row and a
// WDR- audit transaction with each request. Off by default: a request only
// closes the collection and reports the paid total.
func (s *WithdrawalService) SetRecordWithdrawals(enabled bool) {
	s.recordPayouts = enabled
}

// RequestWithdrawal closes a collection that has at least one paid
// contributor and returns the total collected. No money is moved.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, slug string) (*WithdrawalResult, error) {
	c, err := lookupCollection(ctx, s.collections, slug)
	if err != nil {
		return nil, err
	}

	var record *repository.WithdrawalRecord
	if s.recordPayouts {
		record = newWithdrawalRecord(c)
	}

	res, err := s.withdrawals.CloseForWithdrawal(ctx, c.ID, record, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCollectionNotFound):
			return nil, apperror.ErrCollectionNotFound
		case errors.Is(err, repository.ErrWithdrawalExists):
			return nil, apperror.ErrWithdrawalRequested
		case errors.Is(err, repository.ErrNoPaidContributors):
			return nil, apperror.ErrNoPaidContributors
		}
		return nil, apperror.Internal(err)
	}

	c.Status = res.Status
	metrics.WithdrawalsRequested.Inc()
	payload := map[string]any{"total_collected": res.TotalCollected}
	if res.Withdrawal != nil {
		payload["withdrawal_id"] = res.Withdrawal.ID
	}
	s.events.Publish(c.Slug, EventCollectionClosed, payload)

	return &WithdrawalResult{
		Collection:     c,
		Withdrawal:     res.Withdrawal,
		TotalCollected: res.TotalCollected,
		BankDetails: models.BankDetails{
			BankName:      c.BankName,
			AccountNumber: c.AccountNumber,
			AccountName:   c.AccountName,
		},
	}, nil
}

func newWithdrawalRecord(c *models.Collection) *repository.WithdrawalRecord {
	w := &models.Withdrawal{
		ID:            uuid.New(),
		Fee:           decimal.Zero,
		BankName:      c.BankName,
		AccountNumber: c.AccountNumber,
		AccountName:   c.AccountName,
		Status:        models.WithdrawalStatusPending,
	}
	return &repository.WithdrawalRecord{
		Withdrawal: w,
		Audit: &models.Transaction{
			ID:              uuid.New(),
			TransactionType: models.TransactionTypeWithdrawal,
			Status:          models.TransactionStatusPending,
			Reference:       NewWithdrawalReference(),
			Metadata: models.Metadata{
				"withdrawal_id": w.ID.String(),
				"account_name":  c.AccountName,
			},
		},
	}
}
