package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

// WalletRepository handles wallet transaction database operations
type WalletRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *sql.DB, logger *zap.Logger) *WalletRepository {
	return &WalletRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores an ingested wallet transaction
func (r *WalletRepository) Create(ctx context.Context, txn *entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (
			id, trace_id, amount, txn_date, issuer, matched, bill_ref
		) VALUES (?, ?, ?, ?, ?, 0, '')
	`

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.TraceID,
		txn.Amount.String(),
		txn.TxnDate,
		txn.Issuer,
	)
	if err != nil {
		r.logger.Error("Failed to create wallet transaction",
			zap.String("trace_id", txn.TraceID),
			zap.Error(err))
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a wallet transaction by ID
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*entity.WalletTransaction, error) {
	return r.getOne(ctx, selectWalletTxn+` WHERE id = ?`, id)
}

// GetByTraceID retrieves a wallet transaction by the feed's trace ID
func (r *WalletRepository) GetByTraceID(ctx context.Context, traceID string) (*entity.WalletTransaction, error) {
	return r.getOne(ctx, selectWalletTxn+` WHERE trace_id = ?`, traceID)
}

// FindUnmatched returns unmatched transactions of exactly the given amount
// dated within [from, to], earliest first. Amounts are stored normalized, so
// string equality is exact-amount equality.
func (r *WalletRepository) FindUnmatched(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]*entity.WalletTransaction, error) {
	query := selectWalletTxn + `
		WHERE matched = 0 AND amount = ? AND txn_date >= ? AND txn_date <= ?
		ORDER BY txn_date, created_at`

	rows, err := r.db.QueryContext(ctx, query, amount.String(), from, to)
	if err != nil {
		r.logger.Error("Failed to find unmatched wallet transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to find unmatched wallet transactions: %w", err)
	}
	defer rows.Close()

	return scanWalletTxns(rows)
}

// MarkMatched binds the transaction to a bill. The matched guard is in the
// WHERE clause so a concurrent double-link loses instead of overwriting.
func (r *WalletRepository) MarkMatched(ctx context.Context, id string, billRef string, matchedAt time.Time) error {
	query := `
		UPDATE wallet_transactions
		SET matched = 1, bill_ref = ?, matched_at = ?
		WHERE id = ? AND matched = 0
	`

	result, err := r.db.ExecContext(ctx, query, billRef, matchedAt, id)
	if err != nil {
		r.logger.Error("Failed to mark wallet transaction matched",
			zap.String("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to mark wallet transaction matched: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if existing == nil {
			return errs.NotFound("wallet transaction", id)
		}
		return errs.ErrAlreadyMatched
	}
	return nil
}

// ListUnmatched returns unmatched transactions, earliest first
func (r *WalletRepository) ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error) {
	query := selectWalletTxn + `
		WHERE matched = 0
		ORDER BY txn_date, created_at
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list unmatched wallet transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to list unmatched wallet transactions: %w", err)
	}
	defer rows.Close()

	return scanWalletTxns(rows)
}

func (r *WalletRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.WalletTransaction, error) {
	txn, err := scanWalletTxn(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get wallet transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to get wallet transaction: %w", err)
	}
	return txn, nil
}

const selectWalletTxn = `
	SELECT id, trace_id, amount, txn_date, issuer, matched, bill_ref, matched_at, created_at
	FROM wallet_transactions`

func scanWalletTxn(row rowScanner) (*entity.WalletTransaction, error) {
	var txn entity.WalletTransaction
	var amount string
	var matchedAt sql.NullTime

	err := row.Scan(
		&txn.ID,
		&txn.TraceID,
		&amount,
		&txn.TxnDate,
		&txn.Issuer,
		&txn.Matched,
		&txn.BillRef,
		&matchedAt,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if txn.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if matchedAt.Valid {
		txn.MatchedAt = &matchedAt.Time
	}
	return &txn, nil
}

func scanWalletTxns(rows *sql.Rows) ([]*entity.WalletTransaction, error) {
	var txns []*entity.WalletTransaction
	for rows.Next() {
		txn, err := scanWalletTxn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
