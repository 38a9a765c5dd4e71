package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contributor is one person's pledge against a collection.
// A (collection, phone) pair identifies at most one contributor.
type Contributor struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CollectionID      uuid.UUID       `db:"collection_id" json:"collection_id"`
	Name              string          `db:"name" json:"name"`
	Phone             string          `db:"phone" json:"phone"`
	Email             string          `db:"email" json:"email"`
	AmountOwed        decimal.Decimal `db:"amount_owed" json:"amount_owed"`
	AmountPaid        decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaymentStatus     string          `db:"payment_status" json:"payment_status"`
	PaymentReference  string          `db:"payment_reference" json:"payment_reference"`
	PaystackReference string          `db:"paystack_reference" json:"-"`
	PaymentMethod     string          `db:"payment_method" json:"payment_method"`
	PaymentProof      string          `db:"payment_proof" json:"payment_proof"`
	VerifiedBy        string          `db:"verified_by" json:"verified_by"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	PaidAt            *time.Time      `db:"paid_at" json:"paid_at"`
	VerifiedAt        *time.Time      `db:"verified_at" json:"verified_at"`
}

// IsPaid reports whether the organizer confirmed this contributor's payment.
func (c *Contributor) IsPaid() bool {
	return c.PaymentStatus == PaymentStatusPaid
}

// IsPending reports whether the contributor still has to pay.
func (c *Contributor) IsPending() bool {
	return c.PaymentStatus == PaymentStatusPending
}
