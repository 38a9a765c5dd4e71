package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/repository/common"
)

var (
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrWithdrawalExists   = errors.New("withdrawal already recorded")
	ErrNoPaidContributors = errors.New("no paid contributors")
)

const withdrawalCollectionConstraint = "withdrawals_collection_id_key"

type WithdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

type paidSummary struct {
	Total decimal.Decimal `db:"total"`
	Count int             `db:"count"`
}

// WithdrawalRecord is the payout row and its audit transaction written when
// withdrawal records are enabled.
type WithdrawalRecord struct {
	Withdrawal *models.Withdrawal
	Audit      *models.Transaction
}

// CloseResult is the state observed and written by CloseForWithdrawal.
type CloseResult struct {
	TotalCollected decimal.Decimal
	PaidCount      int
	Status         string
	Withdrawal     *models.Withdrawal
}

// CloseForWithdrawal closes a collection that has at least one paid
// contributor and returns the paid total. Only an active collection changes
// status. When record is nil nothing else is written; otherwise the
// withdrawal and its audit transaction are inserted in the same transaction.
func (r *WithdrawalRepository) CloseForWithdrawal(ctx context.Context, collectionID uuid.UUID, record *WithdrawalRecord, now time.Time) (*CloseResult, error) {
	var result CloseResult
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var status string
		err := tx.GetContext(ctx, &status, `SELECT status FROM collections WHERE id = $1 FOR UPDATE`, collectionID)
		if isNoRows(err) {
			return ErrCollectionNotFound
		}
		if err != nil {
			return fmt.Errorf("withdrawal repository: lock collection: %w", err)
		}

		var paid paidSummary
		if err := tx.GetContext(ctx, &paid, `
			SELECT COALESCE(SUM(amount_paid), 0) AS total, COUNT(*) AS count
			FROM contributors WHERE collection_id = $1 AND payment_status = 'paid'
		`, collectionID); err != nil {
			return fmt.Errorf("withdrawal repository: sum paid: %w", err)
		}
		if paid.Count == 0 {
			return ErrNoPaidContributors
		}

		if record != nil {
			w, err := insertWithdrawal(ctx, tx, collectionID, paid.Total, record)
			if err != nil {
				return err
			}
			result.Withdrawal = w
		}

		if status == models.CollectionStatusActive {
			if _, err := tx.ExecContext(ctx, `
				UPDATE collections SET status = 'closed', updated_at = $2 WHERE id = $1
			`, collectionID, now); err != nil {
				return fmt.Errorf("withdrawal repository: close collection: %w", err)
			}
			status = models.CollectionStatusClosed
		}

		result.TotalCollected = paid.Total
		result.PaidCount = paid.Count
		result.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func insertWithdrawal(ctx context.Context, tx *sqlx.Tx, collectionID uuid.UUID, total decimal.Decimal, record *WithdrawalRecord) (*models.Withdrawal, error) {
	w := record.Withdrawal
	w.CollectionID = collectionID
	w.Amount = total
	w.NetAmount = total.Sub(w.Fee)

	var created models.Withdrawal
	err := tx.GetContext(ctx, &created, `
		INSERT INTO withdrawals (id, collection_id, amount, fee, net_amount, bank_name, account_number, account_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, w.ID, w.CollectionID, w.Amount, w.Fee, w.NetAmount, w.BankName, w.AccountNumber, w.AccountName, w.Status)
	if err != nil {
		if common.IsUniqueViolation(err, withdrawalCollectionConstraint) {
			return nil, ErrWithdrawalExists
		}
		return nil, fmt.Errorf("withdrawal repository: insert: %w", err)
	}

	audit := record.Audit
	audit.CollectionID = collectionID
	audit.Amount = total
	if _, err := tx.NamedExecContext(ctx, insertTransaction, audit); err != nil {
		return nil, fmt.Errorf("withdrawal repository: insert transaction: %w", err)
	}
	return &created, nil
}

func (r *WithdrawalRepository) GetByCollection(ctx context.Context, collectionID uuid.UUID) (*models.Withdrawal, error) {
	return common.GetByField[models.Withdrawal](ctx, r.db, "withdrawals", "collection_id", collectionID, ErrWithdrawalNotFound)
}
