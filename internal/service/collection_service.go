package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/repository"
	"github.com/kontribute/kontribute-backend/internal/validation"
)

const recentTransactionsLimit = 20

// maxAmount is the largest value NUMERIC(12,2) stores.
var maxAmount = decimal.RequireFromString("9999999999.99")

// CreateCollectionInput is what an organizer submits.
type CreateCollectionInput struct {
	Title                  string
	Description            string
	TotalAmount            *decimal.Decimal
	AmountPerPerson        *decimal.Decimal
	NumberOfPeople         *int
	OrganizerName          string
	OrganizerPhone         string
	OrganizerEmail         string
	BankName               string
	AccountNumber          string
	AccountName            string
	OrganizerBankName      string
	OrganizerAccountNumber string
	OrganizerAccountName   string
	Deadline               *time.Time
}

// CollectionDetail is the public view of a collection.
type CollectionDetail struct {
	Collection *models.Collection
	Stats      Stats
}

// Dashboard is the organizer view of a collection.
type Dashboard struct {
	Collection         *models.Collection
	Stats              Stats
	Paid               []models.Contributor
	Pending            []models.Contributor
	RecentTransactions []models.Transaction
	Withdrawal         *models.Withdrawal
}

type CollectionService struct {
	collections  CollectionRepository
	contributors ContributorRepository
	transactions TransactionRepository
	withdrawals  WithdrawalRepository
	now          func() time.Time
}

func NewCollectionService(
	collections CollectionRepository,
	contributors ContributorRepository,
	transactions TransactionRepository,
	withdrawals WithdrawalRepository,
) *CollectionService {
	return &CollectionService{
		collections:  collections,
		contributors: contributors,
		transactions: transactions,
		withdrawals:  withdrawals,
		now:          time.Now,
	}
}

// Create validates in and stores a new active collection with a fresh slug.
// When both amount_per_person and number_of_people are set, total_amount is
// their product and any supplied total is ignored.
func (s *CollectionService) Create(ctx context.Context, in CreateCollectionInput) (*models.Collection, error) {
	c, err := s.buildCollection(in)
	if err != nil {
		return nil, err
	}

	if err := s.collections.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, apperror.Conflict("A collection with this link already exists, please try again")
		}
		return nil, apperror.Internal(err)
	}

	metrics.CollectionsCreated.Inc()
	return c, nil
}

func (s *CollectionService) buildCollection(in CreateCollectionInput) (*models.Collection, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.OrganizerName = strings.TrimSpace(in.OrganizerName)
	in.OrganizerEmail = strings.TrimSpace(in.OrganizerEmail)

	errs := validation.Errors{}
	errs.Add("title", validation.ValidateLength("title", in.Title, 1, validation.MaxTitleLength))
	errs.Add("organizer_name", validation.ValidateLength("organizer_name", in.OrganizerName, 1, validation.MaxNameLength))
	errs.Add("organizer_email", validation.ValidateEmail(in.OrganizerEmail))

	phone, err := validation.NormalizePhone(in.OrganizerPhone)
	errs.Add("organizer_phone", err)

	errs.Add("total_amount", validateAmount("total_amount", in.TotalAmount))
	errs.Add("amount_per_person", validateAmount("amount_per_person", in.AmountPerPerson))
	if in.NumberOfPeople != nil {
		switch {
		case *in.NumberOfPeople < 1:
			errs.Add("number_of_people", errors.New("number_of_people must be at least 1"))
		case *in.NumberOfPeople > validation.MaxNumberOfPeople:
			errs.Add("number_of_people", fmt.Errorf("number_of_people must be at most %d", validation.MaxNumberOfPeople))
		}
	}
	if in.Deadline != nil && !in.Deadline.After(s.now()) {
		errs.Add("deadline", errors.New("deadline must be in the future"))
	}

	for field, value := range map[string]string{
		"bank_name":              in.BankName,
		"account_name":           in.AccountName,
		"organizer_bank_name":    in.OrganizerBankName,
		"organizer_account_name": in.OrganizerAccountName,
	} {
		errs.Add(field, validation.ValidateLength(field, value, 0, validation.MaxBankFieldLength))
	}
	errs.Add("account_number", validation.ValidateLength("account_number", in.AccountNumber, 0, validation.MaxAccountNumberLength))
	errs.Add("organizer_account_number", validation.ValidateLength("organizer_account_number", in.OrganizerAccountNumber, 0, validation.MaxAccountNumberLength))

	total := toNull(in.TotalAmount)
	perPerson := toNull(in.AmountPerPerson)
	if perPerson.Valid && in.NumberOfPeople != nil {
		total = decimal.NewNullDecimal(perPerson.Decimal.Mul(decimal.NewFromInt(int64(*in.NumberOfPeople))))
		if total.Decimal.GreaterThan(maxAmount) {
			errs.Add("total_amount", errors.New("total_amount is too large"))
		}
	}

	if !errs.Empty() {
		return nil, apperror.ValidationFields("The data are not valid", errs)
	}

	return &models.Collection{
		ID:                     uuid.New(),
		Slug:                   UniqueSlug(in.Title),
		Title:                  in.Title,
		Description:            strings.TrimSpace(in.Description),
		TotalAmount:            total,
		AmountPerPerson:        perPerson,
		NumberOfPeople:         in.NumberOfPeople,
		OrganizerName:          in.OrganizerName,
		OrganizerPhone:         phone,
		OrganizerEmail:         in.OrganizerEmail,
		BankName:               in.BankName,
		AccountNumber:          in.AccountNumber,
		AccountName:            in.AccountName,
		OrganizerBankName:      in.OrganizerBankName,
		OrganizerAccountNumber: in.OrganizerAccountNumber,
		OrganizerAccountName:   in.OrganizerAccountName,
		Status:                 models.CollectionStatusActive,
		Deadline:               in.Deadline,
	}, nil
}

// Get returns a collection with stats. A collection without a positive
// target reports 100% completion.
func (s *CollectionService) Get(ctx context.Context, slug string) (*CollectionDetail, error) {
	c, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	contributors, err := s.contributors.ListByCollection(ctx, c.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &CollectionDetail{
		Collection: c,
		Stats:      ComputeStats(c, contributors, FallbackComplete),
	}, nil
}

// Dashboard returns the organizer view. A collection without a positive
// target reports 0% completion.
func (s *CollectionService) Dashboard(ctx context.Context, slug string) (*Dashboard, error) {
	c, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	contributors, err := s.contributors.ListByCollection(ctx, c.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	txs, err := s.transactions.ListByCollection(ctx, c.ID, recentTransactionsLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	withdrawal, err := s.withdrawals.GetByCollection(ctx, c.ID)
	if err != nil && !errors.Is(err, repository.ErrWithdrawalNotFound) {
		return nil, apperror.Internal(err)
	}

	d := &Dashboard{
		Collection:         c,
		Stats:              ComputeStats(c, contributors, FallbackEmpty),
		Paid:               []models.Contributor{},
		Pending:            []models.Contributor{},
		RecentTransactions: txs,
		Withdrawal:         withdrawal,
	}
	for _, ct := range contributors {
		switch ct.PaymentStatus {
		case models.PaymentStatusPaid:
			d.Paid = append(d.Paid, ct)
		case models.PaymentStatusPending:
			d.Pending = append(d.Pending, ct)
		}
	}
	return d, nil
}

// UpdateBankDetails changes the payout or payment-instruction bank fields.
func (s *CollectionService) UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error) {
	if upd.IsEmpty() {
		return nil, apperror.Validation("No bank details supplied")
	}

	errs := validation.Errors{}
	for field, value := range map[string]*string{
		"bank_name":              upd.BankName,
		"account_name":           upd.AccountName,
		"organizer_bank_name":    upd.OrganizerBankName,
		"organizer_account_name": upd.OrganizerAccountName,
	} {
		if value != nil {
			errs.Add(field, validation.ValidateLength(field, *value, 0, validation.MaxBankFieldLength))
		}
	}
	for field, value := range map[string]*string{
		"account_number":           upd.AccountNumber,
		"organizer_account_number": upd.OrganizerAccountNumber,
	} {
		if value != nil {
			errs.Add(field, validation.ValidateLength(field, *value, 0, validation.MaxAccountNumberLength))
		}
	}
	if !errs.Empty() {
		return nil, apperror.ValidationFields("The data are not valid", errs)
	}

	c, err := s.collections.UpdateBankDetails(ctx, slug, upd)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return nil, apperror.ErrCollectionNotFound
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *CollectionService) getBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	return lookupCollection(ctx, s.collections, slug)
}

// lookupCollection maps the repository not-found error to the domain one.
func lookupCollection(ctx context.Context, repo CollectionRepository, slug string) (*models.Collection, error) {
	c, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return nil, apperror.ErrCollectionNotFound
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func validateAmount(field string, amount *decimal.Decimal) error {
	if amount == nil {
		return nil
	}
	if err := validation.ValidateNonNegative(field, *amount); err != nil {
		return err
	}
	if amount.GreaterThan(maxAmount) {
		return errors.New(field + " is too large")
	}
	return nil
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}
