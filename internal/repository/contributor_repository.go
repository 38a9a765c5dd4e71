package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/repository/common"
)

var (
	ErrContributorNotFound = errors.New("contributor not found")
	ErrAlreadyPaid         = errors.New("contributor already paid")
)

type ContributorRepository struct {
	db *sqlx.DB
}

func NewContributorRepository(db *sqlx.DB) *ContributorRepository {
	return &ContributorRepository{db: db}
}

const insertContributor = `
	INSERT INTO contributors (
		id, collection_id, name, phone, email, amount_owed, amount_paid,
		payment_status, payment_reference, payment_method
	) VALUES (
		:id, :collection_id, :name, :phone, :email, :amount_owed, :amount_paid,
		:payment_status, :payment_reference, :payment_method
	)
	ON CONFLICT (collection_id, phone) DO NOTHING
	RETURNING *
`

const insertTransaction = `
	INSERT INTO transactions (
		id, collection_id, contributor_id, transaction_type, amount, status, reference, metadata
	) VALUES (
		:id, :collection_id, :contributor_id, :transaction_type, :amount, :status, :reference, :metadata
	)
`

// FindOrCreate returns the contributor registered under (collection, phone)
// or inserts candidate together with its payment transaction. The boolean is
// true only when a new row was inserted. Both statements share one database
// transaction and the (collection_id, phone) unique constraint settles races.
func (r *ContributorRepository) FindOrCreate(ctx context.Context, candidate *models.Contributor, payment *models.Transaction) (*models.Contributor, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: begin: %w", err)
	}
	defer tx.Rollback()

	existing, err := r.lockByPhone(ctx, tx, candidate.CollectionID, candidate.Phone)
	if err == nil {
		return existing, false, tx.Commit()
	}
	if !errors.Is(err, ErrContributorNotFound) {
		return nil, false, err
	}

	created, err := namedGet[models.Contributor](ctx, tx, insertContributor, candidate)
	if isNoRows(err) {
		// A concurrent request inserted the same phone first.
		existing, err := r.lockByPhone(ctx, tx, candidate.CollectionID, candidate.Phone)
		if err != nil {
			return nil, false, err
		}
		return existing, false, tx.Commit()
	}
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: insert: %w", err)
	}

	payment.ContributorID = &created.ID
	if _, err := tx.NamedExecContext(ctx, insertTransaction, payment); err != nil {
		return nil, false, fmt.Errorf("contributor repository: insert payment transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("contributor repository: commit: %w", err)
	}
	return created, true, nil
}

func (r *ContributorRepository) lockByPhone(ctx context.Context, tx *sqlx.Tx, collectionID uuid.UUID, phone string) (*models.Contributor, error) {
	var c models.Contributor
	err := tx.GetContext(ctx, &c, `
		SELECT * FROM contributors WHERE collection_id = $1 AND phone = $2 FOR UPDATE
	`, collectionID, phone)
	if isNoRows(err) {
		return nil, ErrContributorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contributor repository: find by phone: %w", err)
	}
	return &c, nil
}

func (r *ContributorRepository) lockInCollection(ctx context.Context, tx *sqlx.Tx, collectionID, id uuid.UUID) (*models.Contributor, error) {
	var c models.Contributor
	err := tx.GetContext(ctx, &c, `
		SELECT * FROM contributors WHERE id = $1 AND collection_id = $2 FOR UPDATE
	`, id, collectionID)
	if isNoRows(err) {
		return nil, ErrContributorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contributor repository: lock: %w", err)
	}
	return &c, nil
}

func (r *ContributorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contributor, error) {
	return common.GetByID[models.Contributor](ctx, r.db, "contributors", id, ErrContributorNotFound)
}

func (r *ContributorRepository) ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]models.Contributor, error) {
	contributors := []models.Contributor{}
	err := r.db.SelectContext(ctx, &contributors, `
		SELECT * FROM contributors WHERE collection_id = $1 ORDER BY created_at
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("contributor repository: list: %w", err)
	}
	return contributors, nil
}

// ListPending returns pending contributors of a collection, restricted to ids
// when ids is not empty.
func (r *ContributorRepository) ListPending(ctx context.Context, collectionID uuid.UUID, ids []uuid.UUID) ([]models.Contributor, error) {
	query := `SELECT * FROM contributors WHERE collection_id = $1 AND payment_status = 'pending'`
	args := []any{collectionID}
	if len(ids) > 0 {
		strIDs := make([]string, len(ids))
		for i, id := range ids {
			strIDs[i] = id.String()
		}
		query += ` AND id = ANY($2::uuid[])`
		args = append(args, pq.StringArray(strIDs))
	}
	query += ` ORDER BY created_at`

	contributors := []models.Contributor{}
	if err := r.db.SelectContext(ctx, &contributors, query, args...); err != nil {
		return nil, fmt.Errorf("contributor repository: list pending: %w", err)
	}
	return contributors, nil
}

// ConfirmPayment marks a pending contributor paid and flips its pending
// payment transaction to success. The boolean reports whether a transaction
// row was updated.
func (r *ContributorRepository) ConfirmPayment(ctx context.Context, collectionID, id uuid.UUID, proof, verifiedBy string, now time.Time) (*models.Contributor, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: begin: %w", err)
	}
	defer tx.Rollback()

	current, err := r.lockInCollection(ctx, tx, collectionID, id)
	if err != nil {
		return nil, false, err
	}
	if current.IsPaid() {
		return nil, false, ErrAlreadyPaid
	}

	var updated models.Contributor
	err = tx.GetContext(ctx, &updated, `
		UPDATE contributors SET
			payment_status = 'paid',
			amount_paid = amount_owed,
			paid_at = $2,
			verified_at = $2,
			payment_proof = CASE WHEN $3::text = '' THEN payment_proof ELSE $3::text END,
			verified_by = $4
		WHERE id = $1
		RETURNING *
	`, id, now, proof, verifiedBy)
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: confirm: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET status = 'success', updated_at = $2
		WHERE contributor_id = $1 AND transaction_type = 'payment' AND status = 'pending'
	`, id, now)
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: settle transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("contributor repository: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("contributor repository: commit: %w", err)
	}
	return &updated, affected > 0, nil
}

// SetPaymentProof stores the proof path of a pending contributor.
func (r *ContributorRepository) SetPaymentProof(ctx context.Context, collectionID, id uuid.UUID, path string) (*models.Contributor, error) {
	var updated models.Contributor
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := r.lockInCollection(ctx, tx, collectionID, id)
		if err != nil {
			return err
		}
		if current.IsPaid() {
			return ErrAlreadyPaid
		}

		if err := tx.GetContext(ctx, &updated, `
			UPDATE contributors SET payment_proof = $2 WHERE id = $1 RETURNING *
		`, id, path); err != nil {
			return fmt.Errorf("contributor repository: set proof: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// namedGet runs a named query and scans the single returned row into T.
// sql.ErrNoRows is returned when the statement produced no row.
func namedGet[T any](ctx context.Context, tx *sqlx.Tx, query string, arg any) (*T, error) {
	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var out T
	if err := stmt.GetContext(ctx, &out, arg); err != nil {
		return nil, err
	}
	return &out, nil
}
