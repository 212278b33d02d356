package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// OutstandingRepository handles the outstanding-bill cache. The cache is
// disposable: every sync replaces the whole set.
type OutstandingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOutstandingRepository creates a new outstanding repository
func NewOutstandingRepository(db *sql.DB, logger *zap.Logger) *OutstandingRepository {
	return &OutstandingRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll swaps the cached set inside a single transaction so concurrent
// readers see either the old snapshot or the new one, never a partial clear.
func (r *OutstandingRepository) ReplaceAll(ctx context.Context, bills []*entity.OutstandingBill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outstanding_bills`); err != nil {
		return fmt.Errorf("failed to clear outstanding cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outstanding_bills (
			party_name, bill_name, bill_date, closing_balance,
			credit_period, ageing_days, bucket, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, bill := range bills {
		if _, err := stmt.ExecContext(ctx,
			bill.PartyName,
			bill.BillName,
			bill.BillDate,
			bill.ClosingBalance.String(),
			bill.CreditPeriod,
			bill.AgeingDays,
			bill.Bucket,
			bill.SyncedAt,
		); err != nil {
			return fmt.Errorf("failed to insert outstanding bill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit outstanding cache swap", zap.Error(err))
		return fmt.Errorf("failed to commit outstanding cache swap: %w", err)
	}

	r.logger.Info("Outstanding cache replaced", zap.Int("bill_count", len(bills)))
	return nil
}

// List returns the cached snapshot
func (r *OutstandingRepository) List(ctx context.Context) ([]*entity.OutstandingBill, error) {
	query := `
		SELECT id, party_name, bill_name, bill_date, closing_balance,
			credit_period, ageing_days, bucket, synced_at
		FROM outstanding_bills
		ORDER BY party_name, bill_date
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list outstanding bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list outstanding bills: %w", err)
	}
	defer rows.Close()

	var bills []*entity.OutstandingBill
	for rows.Next() {
		var bill entity.OutstandingBill
		var closingBalance string
		var billDate, syncedAt time.Time

		if err := rows.Scan(
			&bill.ID,
			&bill.PartyName,
			&bill.BillName,
			&billDate,
			&closingBalance,
			&bill.CreditPeriod,
			&bill.AgeingDays,
			&bill.Bucket,
			&syncedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outstanding bill: %w", err)
		}

		if bill.ClosingBalance, err = parseDecimal(closingBalance); err != nil {
			return nil, err
		}
		bill.BillDate = billDate
		bill.SyncedAt = syncedAt
		bills = append(bills, &bill)
	}
	return bills, rows.Err()
}
