package postgres

import (
	"context"
	"database/sql"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, t *domain.LedgerTransaction) error {
	query := `INSERT INTO ledger_transactions (user_id, amount, type, related_session_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.UserID, t.Amount, t.Type, t.RelatedSessionID, t.Description, time.Now()).Scan(&t.ID)
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID int32) (int32, error) {
	var balance int32
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_transactions WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM ledger_transactions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, amount, type, related_session_id, description, created_on
	          FROM ledger_transactions WHERE user_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []domain.LedgerTransaction
	for rows.Next() {
		var t domain.LedgerTransaction
		var relatedID sql.NullInt32
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &relatedID, &t.Description, &t.CreatedOn); err != nil {
			return nil, 0, err
		}
		if relatedID.Valid {
			id := relatedID.Int32
			t.RelatedSessionID = &id
		}
		transactions = append(transactions, t)
	}
	return transactions, count, rows.Err()
}
