package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/repository"
)

func newWithdrawalFixture() (*WithdrawalService, *mockCollectionRepo, *mockWithdrawalRepo, *recordingPublisher) {
	collections := new(mockCollectionRepo)
	withdrawals := new(mockWithdrawalRepo)
	events := &recordingPublisher{}
	svc := NewWithdrawalService(collections, withdrawals, events)
	svc.now = func() time.Time { return fixedNow }
	return svc, collections, withdrawals, events
}

func TestWithdrawalService_RequestWithdrawal(t *testing.T) {
	svc, collections, withdrawals, events := newWithdrawalFixture()
	ctx := context.Background()
	c := activeCollection()
	c.BankName, c.AccountNumber, c.AccountName = "Access", "0123456789", "Ada Obi"

	collections.On("GetBySlug", ctx, c.Slug).Return(c, nil)
	withdrawals.On("CloseForWithdrawal", ctx, c.ID, (*repository.WithdrawalRecord)(nil), fixedNow).
		Return(&repository.CloseResult{TotalCollected: decimal.NewFromInt(2500), PaidCount: 2, Status: models.CollectionStatusClosed}, nil)

	res, err := svc.RequestWithdrawal(ctx, c.Slug)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(2500).Equal(res.TotalCollected))
	assert.Equal(t, models.CollectionStatusClosed, res.Collection.Status)
	assert.Equal(t, "Access", res.BankDetails.BankName)
	assert.Nil(t, res.Withdrawal)
	assert.Equal(t, []string{EventCollectionClosed}, events.Types())
	withdrawals.AssertExpectations(t)
}

func TestWithdrawalService_RequestWithdrawal_RecordsWhenEnabled(t *testing.T) {
	svc, collections, withdrawals, _ := newWithdrawalFixture()
	svc.SetRecordWithdrawals(true)
	ctx := context.Background()
	c := activeCollection()
	c.BankName, c.AccountNumber, c.AccountName = "Access", "0123456789", "Ada Obi"

	collections.On("GetBySlug", ctx, c.Slug).Return(c, nil)
	recorded := &models.Withdrawal{ID: uuid.New(), CollectionID: c.ID, Amount: decimal.NewFromInt(2500), Status: models.WithdrawalStatusPending}
	withdrawals.On("CloseForWithdrawal", ctx, c.ID, mock.AnythingOfType("*repository.WithdrawalRecord"), fixedNow).
		Return(&repository.CloseResult{TotalCollected: decimal.NewFromInt(2500), PaidCount: 1, Status: models.CollectionStatusClosed, Withdrawal: recorded}, nil)

	res, err := svc.RequestWithdrawal(ctx, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, recorded, res.Withdrawal)

	record := withdrawals.Calls[0].Arguments.Get(2).(*repository.WithdrawalRecord)
	assert.Equal(t, "0123456789", record.Withdrawal.AccountNumber)
	assert.True(t, record.Withdrawal.Fee.IsZero())
	assert.Equal(t, models.TransactionTypeWithdrawal, record.Audit.TransactionType)
	assert.Regexp(t, `^WDR-[0-9A-F]{10}$`, record.Audit.Reference)

	again := activeCollection()
	again.Slug = "again"
	collections.On("GetBySlug", ctx, "again").Return(again, nil)
	withdrawals.On("CloseForWithdrawal", ctx, again.ID, mock.Anything, fixedNow).Return(nil, repository.ErrWithdrawalExists)

	_, err = svc.RequestWithdrawal(ctx, "again")
	assert.ErrorIs(t, err, apperror.ErrWithdrawalRequested)
}

func TestWithdrawalService_RequestWithdrawal_ClosedCollectionWithPayments(t *testing.T) {
	svc, collections, withdrawals, _ := newWithdrawalFixture()
	ctx := context.Background()

	closed := activeCollection()
	closed.Status = models.CollectionStatusClosed
	collections.On("GetBySlug", ctx, closed.Slug).Return(closed, nil)
	withdrawals.On("CloseForWithdrawal", ctx, closed.ID, (*repository.WithdrawalRecord)(nil), fixedNow).
		Return(&repository.CloseResult{TotalCollected: decimal.NewFromInt(1000), PaidCount: 1, Status: models.CollectionStatusClosed}, nil)

	res, err := svc.RequestWithdrawal(ctx, closed.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.CollectionStatusClosed, res.Collection.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(res.TotalCollected))
}

func TestWithdrawalService_RequestWithdrawal_Rejections(t *testing.T) {
	svc, collections, withdrawals, _ := newWithdrawalFixture()
	ctx := context.Background()

	empty := activeCollection()
	empty.Slug = "empty"
	collections.On("GetBySlug", ctx, "empty").Return(empty, nil)
	withdrawals.On("CloseForWithdrawal", ctx, empty.ID, mock.Anything, fixedNow).Return(nil, repository.ErrNoPaidContributors)

	_, err := svc.RequestWithdrawal(ctx, "empty")
	assert.ErrorIs(t, err, apperror.ErrNoPaidContributors)
	assert.True(t, apperror.IsValidation(err))

	vanished := activeCollection()
	vanished.Slug = "vanished"
	collections.On("GetBySlug", ctx, "vanished").Return(vanished, nil)
	withdrawals.On("CloseForWithdrawal", ctx, vanished.ID, mock.Anything, fixedNow).Return(nil, repository.ErrCollectionNotFound)

	_, err = svc.RequestWithdrawal(ctx, "vanished")
	assert.True(t, apperror.IsNotFound(err))

	collections.On("GetBySlug", ctx, "missing").Return(nil, repository.ErrCollectionNotFound)
	_, err = svc.RequestWithdrawal(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}
