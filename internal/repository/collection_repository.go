package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/repository/common"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDuplicateSlug      = errors.New("collection slug already exists")
)

const slugConstraint = "collections_slug_key"

type CollectionRepository struct {
	db *sqlx.DB
}

func NewCollectionRepository(db *sqlx.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts c and fills its timestamps.
func (r *CollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	query := `
		INSERT INTO collections (
			id, slug, title, description, total_amount, amount_per_person, number_of_people,
			organizer_name, organizer_phone, organizer_email,
			bank_name, account_number, account_name,
			organizer_bank_name, organizer_account_number, organizer_account_name,
			status, deadline, paystack_subaccount
		) VALUES (
			:id, :slug, :title, :description, :total_amount, :amount_per_person, :number_of_people,
			:organizer_name, :organizer_phone, :organizer_email,
			:bank_name, :account_number, :account_name,
			:organizer_bank_name, :organizer_account_number, :organizer_account_name,
			:status, :deadline, :paystack_subaccount
		)
		RETURNING created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, c)
	if err != nil {
		if common.IsUniqueViolation(err, slugConstraint) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("collection repository: create: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("collection repository: scan timestamps: %w", err)
		}
	}
	return rows.Err()
}

func (r *CollectionRepository) GetBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	return common.GetByField[models.Collection](ctx, r.db, "collections", "slug", slug, ErrCollectionNotFound)
}

func (r *CollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return common.GetByID[models.Collection](ctx, r.db, "collections", id, ErrCollectionNotFound)
}

// UpdateBankDetails sets the non-nil fields of upd. Bank fields are the only
// mutable part of a collection.
func (r *CollectionRepository) UpdateBankDetails(ctx context.Context, slug string, upd models.BankDetailsUpdate) (*models.Collection, error) {
	var c models.Collection
	err := r.db.GetContext(ctx, &c, `
		UPDATE collections SET
			bank_name = COALESCE($2, bank_name),
			account_number = COALESCE($3, account_number),
			account_name = COALESCE($4, account_name),
			organizer_bank_name = COALESCE($5, organizer_bank_name),
			organizer_account_number = COALESCE($6, organizer_account_number),
			organizer_account_name = COALESCE($7, organizer_account_name),
			updated_at = NOW()
		WHERE slug = $1
		RETURNING *
	`, slug, upd.BankName, upd.AccountNumber, upd.AccountName,
		upd.OrganizerBankName, upd.OrganizerAccountNumber, upd.OrganizerAccountName)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("collection repository: update bank details: %w", err)
	}
	return &c, nil
}
