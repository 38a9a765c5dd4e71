package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/repository"
	"github.com/kontribute/kontribute-backend/internal/storage"
	"github.com/kontribute/kontribute-backend/internal/validation"
)

const defaultVerifier = "organizer"

// PaymentInstructions is shown to contributors paying by bank transfer.
var PaymentInstructions = []string{
	"Transfer the exact amount to the account above.",
	"Use your payment reference as the transfer narration.",
	"The organizer will confirm your payment once it arrives.",
}

// ProofStore persists uploaded payment proofs.
type ProofStore interface {
	Save(ctx context.Context, collectionID, contributorID uuid.UUID, ext string, r io.Reader) (string, error)
	Delete(ctx context.Context, relativePath string) error
}

type ContributeInput struct {
	Name          string
	Phone         string
	Email         string
	Amount        *decimal.Decimal
	PaymentMethod string
}

// ContributeResult carries the payment instructions for a contributor.
// IsExisting is true when a pending registration for the same phone was
// returned instead of creating a new one.
type ContributeResult struct {
	Collection   *models.Collection
	Contributor  *models.Contributor
	Amount       decimal.Decimal
	BankDetails  models.BankDetails
	Instructions []string
	IsExisting   bool
}

type ConfirmInput struct {
	ContributorID string
	PaymentProof  string
	VerifiedBy    string
}

type ConfirmResult struct {
	Contributor        *models.Contributor
	TransactionUpdated bool
}

type ReminderResult struct {
	Reminded []models.Contributor
}

// Receipt is the JSON receipt of a confirmed payment.
type Receipt struct {
	ReceiptNumber   string          `json:"receipt_number"`
	ContributorID   uuid.UUID       `json:"contributor_id"`
	ContributorName string          `json:"contributor_name"`
	Phone           string          `json:"phone"`
	CollectionTitle string          `json:"collection_title"`
	CollectionSlug  string          `json:"collection_slug"`
	OrganizerName   string          `json:"organizer_name"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentMethod   string          `json:"payment_method"`
	PaidAt          *time.Time      `json:"paid_at"`
	VerifiedBy      string          `json:"verified_by"`
	VerifiedAt      *time.Time      `json:"verified_at"`
}

type ContributionService struct {
	collections  CollectionRepository
	contributors ContributorRepository
	proofs       ProofStore
	notifier     Notifier
	events       EventPublisher
	now          func() time.Time
}

func NewContributionService(
	collections CollectionRepository,
	contributors ContributorRepository,
	proofs ProofStore,
	notifier Notifier,
	events EventPublisher,
) *ContributionService {
	if events == nil {
		events = noopPublisher{}
	}
	return &ContributionService{
		collections:  collections,
		contributors: contributors,
		proofs:       proofs,
		notifier:     notifier,
		events:       events,
		now:          time.Now,
	}
}

// Contribute registers a contributor against an active collection, or
// returns the pending registration that already exists for the phone.
func (s *ContributionService) Contribute(ctx context.Context, slug string, in ContributeInput) (*ContributeResult, error) {
	c, err := lookupCollection(ctx, s.collections, slug)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CollectionStatusActive {
		metrics.ContributionsTotal.WithLabelValues("rejected").Inc()
		return nil, apperror.ErrCollectionInactive
	}
	if c.DeadlinePassed(s.now()) {
		metrics.ContributionsTotal.WithLabelValues("rejected").Inc()
		return nil, apperror.ErrDeadlinePassed
	}

	candidate, err := s.buildContributor(c, in)
	if err != nil {
		metrics.ContributionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	payment := &models.Transaction{
		ID:              uuid.New(),
		CollectionID:    c.ID,
		TransactionType: models.TransactionTypePayment,
		Amount:          candidate.AmountOwed,
		Status:          models.TransactionStatusPending,
		Reference:       candidate.PaymentReference,
		Metadata: models.Metadata{
			"contributor_name": candidate.Name,
			"phone":            candidate.Phone,
		},
	}

	contributor, created, err := s.contributors.FindOrCreate(ctx, candidate, payment)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if contributor.IsPaid() {
		metrics.ContributionsTotal.WithLabelValues("rejected").Inc()
		return nil, apperror.ErrAlreadyContributed
	}

	if created {
		metrics.ContributionsTotal.WithLabelValues("created").Inc()
		s.events.Publish(c.Slug, EventContributionCreated, map[string]any{
			"contributor_id": contributor.ID,
			"name":           contributor.Name,
			"amount_owed":    contributor.AmountOwed,
		})
	} else {
		metrics.ContributionsTotal.WithLabelValues("existing").Inc()
	}

	return &ContributeResult{
		Collection:   c,
		Contributor:  contributor,
		Amount:       contributor.AmountOwed,
		BankDetails:  c.PaymentDetails(),
		Instructions: PaymentInstructions,
		IsExisting:   !created,
	}, nil
}

func (s *ContributionService) buildContributor(c *models.Collection, in ContributeInput) (*models.Contributor, error) {
	name := strings.TrimSpace(in.Name)
	rawPhone := strings.TrimSpace(in.Phone)

	switch {
	case name == "":
		return nil, missingField("name")
	case rawPhone == "":
		return nil, missingField("phone")
	case !c.HasFixedAmount() && in.Amount == nil:
		return nil, missingField("amount")
	}

	errs := validation.Errors{}
	errs.Add("name", validation.ValidateLength("name", name, 1, validation.MaxNameLength))

	phone, err := validation.NormalizePhone(rawPhone)
	errs.Add("phone", err)

	email := strings.TrimSpace(in.Email)
	errs.Add("email", validation.ValidateEmail(email))

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodBankTransfer
	}
	if _, ok := models.ValidPaymentMethods[method]; !ok {
		errs.Add("payment_method", errors.New("payment_method must be one of bank_transfer, card, ussd"))
	}

	var amount decimal.Decimal
	nonPositive := false
	if c.HasFixedAmount() {
		amount = c.AmountPerPerson.Decimal
	} else {
		amount = in.Amount.Round(2)
		if err := validation.ValidatePositive("amount", amount); err != nil {
			nonPositive = true
			errs.Add("amount", err)
		}
		if amount.GreaterThan(maxAmount) {
			errs.Add("amount", errors.New("amount is too large"))
		}
	}

	if !errs.Empty() {
		if msg, ok := errs["phone"]; ok && len(errs) == 1 {
			return nil, apperror.ValidationFields(msg, errs)
		}
		appErr := apperror.ValidationFields("The data are not valid", errs)
		if nonPositive {
			appErr.Code = apperror.ErrCodeAmountNotPositive
		}
		return nil, appErr
	}

	return &models.Contributor{
		ID:               uuid.New(),
		CollectionID:     c.ID,
		Name:             name,
		Phone:            phone,
		Email:            email,
		AmountOwed:       amount,
		AmountPaid:       decimal.Zero,
		PaymentStatus:    models.PaymentStatusPending,
		PaymentReference: NewPaymentReference(),
		PaymentMethod:    method,
	}, nil
}

// ConfirmPayment marks a pending contributor as paid in full and settles its
// payment transaction. Confirming twice is rejected without changes.
func (s *ContributionService) ConfirmPayment(ctx context.Context, slug string, in ConfirmInput) (*ConfirmResult, error) {
	c, err := lookupCollection(ctx, s.collections, slug)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.ContributorID) == "" {
		return nil, missingField("contributor_id")
	}
	contributorID, err := uuid.Parse(strings.TrimSpace(in.ContributorID))
	if err != nil {
		return nil, apperror.ValidationFields("Invalid contributor_id", map[string]string{"contributor_id": "must be a UUID"})
	}

	verifiedBy := strings.TrimSpace(in.VerifiedBy)
	if verifiedBy == "" {
		verifiedBy = defaultVerifier
	}
	proof := strings.TrimSpace(in.PaymentProof)

	errs := validation.Errors{}
	errs.Add("verified_by", validation.ValidateLength("verified_by", verifiedBy, 0, validation.MaxVerifierLength))
	errs.Add("payment_proof", validation.ValidateLength("payment_proof", proof, 0, validation.MaxProofLength))
	if !errs.Empty() {
		return nil, apperror.ValidationFields("The data are not valid", errs)
	}

	contributor, updated, err := s.contributors.ConfirmPayment(ctx, c.ID, contributorID, proof, verifiedBy, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrContributorNotFound):
			return nil, apperror.ErrContributorNotFound
		case errors.Is(err, repository.ErrAlreadyPaid):
			return nil, apperror.ErrAlreadyConfirmed
		}
		return nil, apperror.Internal(err)
	}

	if !updated {
		logger.Log.WithFields(logrus.Fields{
			"slug":           c.Slug,
			"contributor_id": contributor.ID,
			"reference":      contributor.PaymentReference,
		}).Warn("payment confirmed without a pending payment transaction")
	}

	metrics.PaymentsConfirmed.Inc()
	s.events.Publish(c.Slug, EventPaymentConfirmed, map[string]any{
		"contributor_id": contributor.ID,
		"name":           contributor.Name,
		"amount_paid":    contributor.AmountPaid,
	})

	return &ConfirmResult{Contributor: contributor, TransactionUpdated: updated}, nil
}

// SendReminders hands every pending contributor, optionally limited to ids,
// to the notifier. Contributors the notifier fails on are left out.
func (s *ContributionService) SendReminders(ctx context.Context, slug string, ids []string) (*ReminderResult, error) {
	c, err := lookupCollection(ctx, s.collections, slug)
	if err != nil {
		return nil, err
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, apperror.ValidationFields("Invalid contributor_ids", map[string]string{"contributor_ids": raw + " is not a valid UUID"})
		}
		parsed = append(parsed, id)
	}

	pending, err := s.contributors.ListPending(ctx, c.ID, parsed)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := &ReminderResult{Reminded: make([]models.Contributor, 0, len(pending))}
	for i := range pending {
		if err := s.notifier.Remind(ctx, c, &pending[i]); err != nil {
			logger.Log.WithError(err).WithField("contributor_id", pending[i].ID).Warn("reminder failed")
			continue
		}
		result.Reminded = append(result.Reminded, pending[i])
	}

	metrics.RemindersSent.Add(float64(len(result.Reminded)))
	return result, nil
}

// AttachProof stores an uploaded payment proof for a pending contributor.
func (s *ContributionService) AttachProof(ctx context.Context, slug string, contributorID uuid.UUID, ext string, r io.Reader) (*models.Contributor, error) {
	c, err := lookupCollection(ctx, s.collections, slug)
	if err != nil {
		return nil, err
	}

	current, err := s.contributors.GetByID(ctx, contributorID)
	if err != nil {
		if errors.Is(err, repository.ErrContributorNotFound) {
			return nil, apperror.ErrContributorNotFound
		}
		return nil, apperror.Internal(err)
	}
	if current.CollectionID != c.ID {
		return nil, apperror.ErrContributorNotFound
	}
	if current.IsPaid() {
		return nil, apperror.ErrAlreadyConfirmed
	}

	path, err := s.proofs.Save(ctx, c.ID, contributorID, ext, r)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, apperror.ValidationFields("File is too large", map[string]string{"file": err.Error()})
		}
		return nil, apperror.Internal(err)
	}

	updated, err := s.contributors.SetPaymentProof(ctx, c.ID, contributorID, path)
	if err != nil {
		if delErr := s.proofs.Delete(ctx, path); delErr != nil {
			logger.Log.WithError(delErr).WithField("path", path).Warn("orphaned payment proof")
		}
		switch {
		case errors.Is(err, repository.ErrContributorNotFound):
			return nil, apperror.ErrContributorNotFound
		case errors.Is(err, repository.ErrAlreadyPaid):
			return nil, apperror.ErrAlreadyConfirmed
		}
		return nil, apperror.Internal(err)
	}

	if current.PaymentProof != "" && current.PaymentProof != path {
		if err := s.proofs.Delete(ctx, current.PaymentProof); err != nil {
			logger.Log.WithError(err).WithField("path", current.PaymentProof).Warn("previous payment proof not removed")
		}
	}
	return updated, nil
}

// GetReceipt returns the receipt of a paid contributor.
func (s *ContributionService) GetReceipt(ctx context.Context, rawID string) (*Receipt, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperror.ErrContributorNotFound
	}

	ct, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContributorNotFound) {
			return nil, apperror.ErrContributorNotFound
		}
		return nil, apperror.Internal(err)
	}
	if !ct.IsPaid() {
		return nil, apperror.ErrPaymentNotConfirmed
	}

	c, err := s.collections.GetByID(ctx, ct.CollectionID)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return nil, apperror.ErrCollectionNotFound
		}
		return nil, apperror.Internal(err)
	}

	return &Receipt{
		ReceiptNumber:   ct.PaymentReference,
		ContributorID:   ct.ID,
		ContributorName: ct.Name,
		Phone:           ct.Phone,
		CollectionTitle: c.Title,
		CollectionSlug:  c.Slug,
		OrganizerName:   c.OrganizerName,
		AmountPaid:      ct.AmountPaid,
		PaymentMethod:   ct.PaymentMethod,
		PaidAt:          ct.PaidAt,
		VerifiedBy:      ct.VerifiedBy,
		VerifiedAt:      ct.VerifiedAt,
	}, nil
}

func missingField(field string) error {
	return apperror.ValidationFields("Missing required field: "+field, map[string]string{field: "This field is required"})
}
