package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/service"
)

type mockCollectionService struct {
	mock.Mock
}

func (m *mockCollectionService) Create(ctx context.Context, in service.CreateCollectionInput) (*models.Collection, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionService) Get(ctx context.Context, slug string) (*service.CollectionDetail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectionDetail), args.Error(1)
}

func (m *mockCollectionService) Dashboard(ctx context.Context, slug string) (*service.Dashboard, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *mockCollectionService) UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error) {
	args := m.Called(ctx, slug, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

type mockContributionService struct {
	mock.Mock
}

func (m *mockContributionService) Contribute(ctx context.Context, slug string, in service.ContributeInput) (*service.ContributeResult, error) {
	args := m.Called(ctx, slug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContributeResult), args.Error(1)
}

func (m *mockContributionService) ConfirmPayment(ctx context.Context, slug string, in service.ConfirmInput) (*service.ConfirmResult, error) {
	args := m.Called(ctx, slug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConfirmResult), args.Error(1)
}

func (m *mockContributionService) SendReminders(ctx context.Context, slug string, ids []string) (*service.ReminderResult, error) {
	args := m.Called(ctx, slug, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReminderResult), args.Error(1)
}

// AttachProof drains r so tests can assert on the uploaded bytes.
func (m *mockContributionService) AttachProof(ctx context.Context, slug string, contributorID uuid.UUID, ext string, r io.Reader) (*models.Contributor, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, slug, contributorID, ext, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contributor), args.Error(1)
}

func (m *mockContributionService) GetReceipt(ctx context.Context, rawID string) (*service.Receipt, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Receipt), args.Error(1)
}

type mockWithdrawalService struct {
	mock.Mock
}

func (m *mockWithdrawalService) RequestWithdrawal(ctx context.Context, slug string) (*service.WithdrawalResult, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WithdrawalResult), args.Error(1)
}
