package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection is a funding campaign created by an organizer.
type Collection struct {
	ID              uuid.UUID           `db:"id" json:"id"`
	Slug            string              `db:"slug" json:"slug"`
	Title           string              `db:"title" json:"title"`
	Description     string              `db:"description" json:"description"`
	TotalAmount     decimal.NullDecimal `db:"total_amount" json:"total_amount"`
	AmountPerPerson decimal.NullDecimal `db:"amount_per_person" json:"amount_per_person"`
	NumberOfPeople  *int                `db:"number_of_people" json:"number_of_people"`

	OrganizerName  string `db:"organizer_name" json:"organizer_name"`
	OrganizerPhone string `db:"organizer_phone" json:"organizer_phone"`
	OrganizerEmail string `db:"organizer_email" json:"organizer_email"`

	// Payout account used when the organizer withdraws.
	BankName      string `db:"bank_name" json:"bank_name"`
	AccountNumber string `db:"account_number" json:"account_number"`
	AccountName   string `db:"account_name" json:"account_name"`

	// Account contributors transfer into (manual payments).
	OrganizerBankName      string `db:"organizer_bank_name" json:"organizer_bank_name"`
	OrganizerAccountNumber string `db:"organizer_account_number" json:"organizer_account_number"`
	OrganizerAccountName   string `db:"organizer_account_name" json:"organizer_account_name"`

	Status             string     `db:"status" json:"status"`
	Deadline           *time.Time `db:"deadline" json:"deadline"`
	PaystackSubaccount *string    `db:"paystack_subaccount" json:"paystack_subaccount"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// HasFixedAmount reports whether every contributor owes amount_per_person.
func (c *Collection) HasFixedAmount() bool {
	return c.AmountPerPerson.Valid
}

// DeadlinePassed reports whether the deadline is set and lies before now.
func (c *Collection) DeadlinePassed(now time.Time) bool {
	return c.Deadline != nil && c.Deadline.Before(now)
}

// PaymentDetails returns the bank account contributors should pay into,
// substituting NotProvided for empty fields.
func (c *Collection) PaymentDetails() BankDetails {
	return BankDetails{
		BankName:      orNotProvided(c.OrganizerBankName),
		AccountNumber: orNotProvided(c.OrganizerAccountNumber),
		AccountName:   orNotProvided(c.OrganizerAccountName),
	}
}

// BankDetails is the bank account shown in responses.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// BankDetailsUpdate holds the only fields of a collection that may change
// after creation. Nil fields are left untouched.
type BankDetailsUpdate struct {
	BankName               *string
	AccountNumber          *string
	AccountName            *string
	OrganizerBankName      *string
	OrganizerAccountNumber *string
	OrganizerAccountName   *string
}

// IsEmpty reports whether the update changes nothing.
func (u BankDetailsUpdate) IsEmpty() bool {
	return u.BankName == nil && u.AccountNumber == nil && u.AccountName == nil &&
		u.OrganizerBankName == nil && u.OrganizerAccountNumber == nil && u.OrganizerAccountName == nil
}

func orNotProvided(v string) string {
	if v == "" {
		return NotProvided
	}
	return v
}
