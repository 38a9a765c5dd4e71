package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/service"
)

// CreateCollectionRequest represents the body of POST /collections/.
// Amounts accept JSON numbers or numeric strings.
type CreateCollectionRequest struct {
	Title                  string           `json:"title"`
	Description            string           `json:"description"`
	TotalAmount            *decimal.Decimal `json:"total_amount"`
	AmountPerPerson        *decimal.Decimal `json:"amount_per_person"`
	NumberOfPeople         *int             `json:"number_of_people"`
	OrganizerName          string           `json:"organizer_name"`
	OrganizerPhone         string           `json:"organizer_phone"`
	OrganizerEmail         string           `json:"organizer_email"`
	BankName               string           `json:"bank_name"`
	AccountNumber          string           `json:"account_number"`
	AccountName            string           `json:"account_name"`
	OrganizerBankName      string           `json:"organizer_bank_name"`
	OrganizerAccountNumber string           `json:"organizer_account_number"`
	OrganizerAccountName   string           `json:"organizer_account_name"`
	Deadline               *time.Time       `json:"deadline"`
}

func (r CreateCollectionRequest) ToInput() service.CreateCollectionInput {
	return service.CreateCollectionInput{
		Title:                  r.Title,
		Description:            r.Description,
		TotalAmount:            r.TotalAmount,
		AmountPerPerson:        r.AmountPerPerson,
		NumberOfPeople:         r.NumberOfPeople,
		OrganizerName:          r.OrganizerName,
		OrganizerPhone:         r.OrganizerPhone,
		OrganizerEmail:         r.OrganizerEmail,
		BankName:               r.BankName,
		AccountNumber:          r.AccountNumber,
		AccountName:            r.AccountName,
		OrganizerBankName:      r.OrganizerBankName,
		OrganizerAccountNumber: r.OrganizerAccountNumber,
		OrganizerAccountName:   r.OrganizerAccountName,
		Deadline:               r.Deadline,
	}
}

// UpdateBankDetailsRequest represents the body of PATCH /collections/{slug}/bank-details/.
// Omitted fields stay unchanged.
type UpdateBankDetailsRequest struct {
	BankName               *string `json:"bank_name"`
	AccountNumber          *string `json:"account_number"`
	AccountName            *string `json:"account_name"`
	OrganizerBankName      *string `json:"organizer_bank_name"`
	OrganizerAccountNumber *string `json:"organizer_account_number"`
	OrganizerAccountName   *string `json:"organizer_account_name"`
}

func (r UpdateBankDetailsRequest) ToUpdate() models.BankDetailsUpdate {
	return models.BankDetailsUpdate{
		BankName:               r.BankName,
		AccountNumber:          r.AccountNumber,
		AccountName:            r.AccountName,
		OrganizerBankName:      r.OrganizerBankName,
		OrganizerAccountNumber: r.OrganizerAccountNumber,
		OrganizerAccountName:   r.OrganizerAccountName,
	}
}

// ContributeRequest represents the body of POST /collections/{slug}/contribute/.
type ContributeRequest struct {
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod string           `json:"payment_method"`
}

func (r ContributeRequest) ToInput() service.ContributeInput {
	return service.ContributeInput{
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
	}
}

// ConfirmPaymentRequest represents the body of POST /collections/{slug}/confirm-payment/.
type ConfirmPaymentRequest struct {
	ContributorID string `json:"contributor_id"`
	PaymentProof  string `json:"payment_proof"`
	VerifiedBy    string `json:"verified_by"`
}

func (r ConfirmPaymentRequest) ToInput() service.ConfirmInput {
	return service.ConfirmInput{
		ContributorID: r.ContributorID,
		PaymentProof:  r.PaymentProof,
		VerifiedBy:    r.VerifiedBy,
	}
}

// RemindRequest represents the body of POST /collections/{slug}/remind/.
// An empty list reminds every pending contributor.
type RemindRequest struct {
	ContributorIDs []string `json:"contributor_ids"`
}
