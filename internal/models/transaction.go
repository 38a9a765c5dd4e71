package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metadata is free-form JSON attached to a transaction.
type Metadata map[string]any

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("metadata: unsupported type %T", src)
	}
	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	*m = out
	return nil
}

// Transaction is the audit record of a money movement. Reference is unique.
type Transaction struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CollectionID      uuid.UUID       `db:"collection_id" json:"collection_id"`
	ContributorID     *uuid.UUID      `db:"contributor_id" json:"contributor_id,omitempty"`
	TransactionType   string          `db:"transaction_type" json:"transaction_type"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Status            string          `db:"status" json:"status"`
	Reference         string          `db:"reference" json:"reference"`
	PaystackReference string          `db:"paystack_reference" json:"-"`
	Metadata          Metadata        `db:"metadata" json:"metadata"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}
