package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal is the payout request of a collection; at most one per collection.
type Withdrawal struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CollectionID      uuid.UUID       `db:"collection_id" json:"collection_id"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Fee               decimal.Decimal `db:"fee" json:"fee"`
	NetAmount         decimal.Decimal `db:"net_amount" json:"net_amount"`
	BankName          string          `db:"bank_name" json:"bank_name"`
	AccountNumber     string          `db:"account_number" json:"account_number"`
	AccountName       string          `db:"account_name" json:"account_name"`
	Status            string          `db:"status" json:"status"`
	TransferCode      string          `db:"transfer_code" json:"transfer_code"`
	PaystackReference string          `db:"paystack_reference" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at"`
}
