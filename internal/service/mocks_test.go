package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/repository"
)

type mockCollectionRepo struct {
	mock.Mock
}

func (m *mockCollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCollectionRepo) GetBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionRepo) UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error) {
	args := m.Called(ctx, slug, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

type mockContributorRepo struct {
	mock.Mock
}

func (m *mockContributorRepo) FindOrCreate(ctx context.Context, candidate *models.Contributor, payment *models.Transaction) (*models.Contributor, bool, error) {
	args := m.Called(ctx, candidate, payment)
	if fn, ok := args.Get(0).(func(context.Context, *models.Contributor, *models.Transaction) *models.Contributor); ok {
		return fn(ctx, candidate, payment), args.Bool(1), args.Error(2)
	}
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Contributor), args.Bool(1), args.Error(2)
}

func (m *mockContributorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contributor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contributor), args.Error(1)
}

func (m *mockContributorRepo) ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]models.Contributor, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contributor), args.Error(1)
}

func (m *mockContributorRepo) ListPending(ctx context.Context, collectionID uuid.UUID, ids []uuid.UUID) ([]models.Contributor, error) {
	args := m.Called(ctx, collectionID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contributor), args.Error(1)
}

func (m *mockContributorRepo) ConfirmPayment(ctx context.Context, collectionID, id uuid.UUID, proof, verifiedBy string, now time.Time) (*models.Contributor, bool, error) {
	args := m.Called(ctx, collectionID, id, proof, verifiedBy, now)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Contributor), args.Bool(1), args.Error(2)
}

func (m *mockContributorRepo) SetPaymentProof(ctx context.Context, collectionID, id uuid.UUID, path string) (*models.Contributor, error) {
	args := m.Called(ctx, collectionID, id, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contributor), args.Error(1)
}

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) ListByCollection(ctx context.Context, collectionID uuid.UUID, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, collectionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type mockWithdrawalRepo struct {
	mock.Mock
}

func (m *mockWithdrawalRepo) CloseForWithdrawal(ctx context.Context, collectionID uuid.UUID, record *repository.WithdrawalRecord, now time.Time) (*repository.CloseResult, error) {
	args := m.Called(ctx, collectionID, record, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CloseResult), args.Error(1)
}

func (m *mockWithdrawalRepo) GetByCollection(ctx context.Context, collectionID uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Remind(ctx context.Context, collection *models.Collection, contributor *models.Contributor) error {
	args := m.Called(ctx, collection, contributor)
	return args.Error(0)
}

type mockProofStore struct {
	mock.Mock
}

func (m *mockProofStore) Save(ctx context.Context, collectionID, contributorID uuid.UUID, ext string, r io.Reader) (string, error) {
	args := m.Called(ctx, collectionID, contributorID, ext, r)
	return args.String(0), args.Error(1)
}

func (m *mockProofStore) Delete(ctx context.Context, relativePath string) error {
	args := m.Called(ctx, relativePath)
	return args.Error(0)
}

type publishedEvent struct {
	Room string
	Type string
	Data any
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(room, eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Type: eventType, Data: data})
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}
