package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/service"
)

// CollectionResponse is a collection with its live stats.
type CollectionResponse struct {
	*models.Collection
	Stats service.Stats `json:"stats"`
}

func NewCollectionResponse(detail *service.CollectionDetail) *CollectionResponse {
	return &CollectionResponse{Collection: detail.Collection, Stats: detail.Stats}
}

// ContributorSummary is the dashboard row of a contributor.
type ContributorSummary struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	AmountOwed       decimal.Decimal `json:"amount_owed"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentReference string          `json:"payment_reference"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentProof     string          `json:"payment_proof"`
	CreatedAt        time.Time       `json:"created_at"`
	PaidAt           *time.Time      `json:"paid_at"`
}

func NewContributorSummary(c models.Contributor) ContributorSummary {
	return ContributorSummary{
		ID:               c.ID,
		Name:             c.Name,
		Phone:            c.Phone,
		Email:            c.Email,
		AmountOwed:       c.AmountOwed,
		AmountPaid:       c.AmountPaid,
		PaymentStatus:    c.PaymentStatus,
		PaymentReference: c.PaymentReference,
		PaymentMethod:    c.PaymentMethod,
		PaymentProof:     c.PaymentProof,
		CreatedAt:        c.CreatedAt,
		PaidAt:           c.PaidAt,
	}
}

func NewContributorSummaries(list []models.Contributor) []ContributorSummary {
	out := make([]ContributorSummary, 0, len(list))
	for _, c := range list {
		out = append(out, NewContributorSummary(c))
	}
	return out
}

// DashboardResponse is the organizer view of a collection.
type DashboardResponse struct {
	Collection          *models.Collection   `json:"collection"`
	Stats               service.Stats        `json:"stats"`
	PaidContributors    []ContributorSummary `json:"paid_contributors"`
	PendingContributors []ContributorSummary `json:"pending_contributors"`
	RecentTransactions  []models.Transaction `json:"recent_transactions"`
	Withdrawal          *models.Withdrawal   `json:"withdrawal,omitempty"`
}

func NewDashboardResponse(d *service.Dashboard) *DashboardResponse {
	txs := d.RecentTransactions
	if txs == nil {
		txs = []models.Transaction{}
	}
	return &DashboardResponse{
		Collection:          d.Collection,
		Stats:               d.Stats,
		PaidContributors:    NewContributorSummaries(d.Paid),
		PendingContributors: NewContributorSummaries(d.Pending),
		RecentTransactions:  txs,
		Withdrawal:          d.Withdrawal,
	}
}

// ContributeResponse tells a contributor how much to pay and where.
type ContributeResponse struct {
	ContributorID          uuid.UUID       `json:"contributor_id"`
	PaymentReference       string          `json:"payment_reference"`
	Amount                 decimal.Decimal `json:"amount"`
	CollectionTitle        string          `json:"collection_title"`
	PaymentMethod          string          `json:"payment_method"`
	OrganizerBankName      string          `json:"organizer_bank_name"`
	OrganizerAccountNumber string          `json:"organizer_account_number"`
	OrganizerAccountName   string          `json:"organizer_account_name"`
	Instructions           []string        `json:"instructions"`
	IsExisting             bool            `json:"is_existing"`
}

func NewContributeResponse(r *service.ContributeResult) *ContributeResponse {
	return &ContributeResponse{
		ContributorID:          r.Contributor.ID,
		PaymentReference:       r.Contributor.PaymentReference,
		Amount:                 r.Amount,
		CollectionTitle:        r.Collection.Title,
		PaymentMethod:          r.Contributor.PaymentMethod,
		OrganizerBankName:      r.BankDetails.BankName,
		OrganizerAccountNumber: r.BankDetails.AccountNumber,
		OrganizerAccountName:   r.BankDetails.AccountName,
		Instructions:           r.Instructions,
		IsExisting:             r.IsExisting,
	}
}

// ConfirmPaymentResponse reports the confirmed contributor.
type ConfirmPaymentResponse struct {
	Contributor        ContributorSummary `json:"contributor"`
	VerifiedBy         string             `json:"verified_by"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	TransactionUpdated bool               `json:"transaction_updated"`
}

func NewConfirmPaymentResponse(r *service.ConfirmResult) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		Contributor:        NewContributorSummary(*r.Contributor),
		VerifiedBy:         r.Contributor.VerifiedBy,
		VerifiedAt:         r.Contributor.VerifiedAt,
		TransactionUpdated: r.TransactionUpdated,
	}
}

// ReminderResponse lists the contributors a reminder was issued for.
type ReminderResponse struct {
	Reminded []ContributorSummary `json:"reminded"`
	Count    int                  `json:"count"`
}

func NewReminderResponse(r *service.ReminderResult) *ReminderResponse {
	return &ReminderResponse{
		Reminded: NewContributorSummaries(r.Reminded),
		Count:    len(r.Reminded),
	}
}

// WithdrawalResponse is the snapshot taken when a collection is closed for payout.
type WithdrawalResponse struct {
	CollectionSlug   string             `json:"collection_slug"`
	CollectionStatus string             `json:"collection_status"`
	TotalCollected   decimal.Decimal    `json:"total_collected"`
	Withdrawal       *models.Withdrawal `json:"withdrawal,omitempty"`
	BankDetails      models.BankDetails `json:"bank_details"`
}

func NewWithdrawalResponse(r *service.WithdrawalResult) *WithdrawalResponse {
	return &WithdrawalResponse{
		CollectionSlug:   r.Collection.Slug,
		CollectionStatus: r.Collection.Status,
		TotalCollected:   r.TotalCollected,
		Withdrawal:       r.Withdrawal,
		BankDetails:      r.BankDetails,
	}
}

// ProofResponse reports where an uploaded payment proof is served from.
type ProofResponse struct {
	ContributorID uuid.UUID `json:"contributor_id"`
	PaymentProof  string    `json:"payment_proof"`
	URL           string    `json:"url"`
}
