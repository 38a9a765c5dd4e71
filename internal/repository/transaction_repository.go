package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kontribute/kontribute-backend/internal/models"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByCollection returns the newest transactions of a collection first.
func (r *TransactionRepository) ListByCollection(ctx context.Context, collectionID uuid.UUID, limit int) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT * FROM transactions WHERE collection_id = $1 ORDER BY created_at DESC LIMIT $2
	`, collectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: list: %w", err)
	}
	return txs, nil
}
