package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
)

// DaybookRepository produces per-party payment rollups for a day. Amounts
// are aggregated in Go because the columns hold decimal text.
type DaybookRepository struct {
	payments *PaymentRepository
	logger   *zap.Logger
}

// NewDaybookRepository creates a new daybook repository
func NewDaybookRepository(db *sql.DB, logger *zap.Logger) *DaybookRepository {
	return &DaybookRepository{
		payments: NewPaymentRepository(db, logger),
		logger:   logger,
	}
}

// Rollup aggregates recorded payments for the given day, grouped by party.
// An empty partyName includes all parties.
func (r *DaybookRepository) Rollup(ctx context.Context, day time.Time, partyName string) ([]*port.DaybookRow, error) {
	query := selectPayment + ` WHERE bill_date >= ? AND bill_date < ?`
	args := []interface{}{startOfDay(day), startOfDay(day).AddDate(0, 0, 1)}
	if partyName != "" {
		query += ` AND party_name = ?`
		args = append(args, partyName)
	}
	query += ` ORDER BY party_name, voucher_number`

	rows, err := r.payments.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query daybook payments", zap.Error(err))
		return nil, fmt.Errorf("failed to query daybook payments: %w", err)
	}
	defer rows.Close()

	dateLabel := startOfDay(day).Format("2006-01-02")
	byParty := make(map[string]*port.DaybookRow)
	var order []string

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		row, ok := byParty[payment.PartyName]
		if !ok {
			row = &port.DaybookRow{Date: dateLabel, PartyName: payment.PartyName}
			byParty[payment.PartyName] = row
			order = append(order, payment.PartyName)
		}

		row.BillCount++
		row.Cash = row.Cash.Add(payment.Cash)
		row.Wallet = row.Wallet.Add(payment.Wallet)
		row.ChequeTotal = row.ChequeTotal.Add(payment.ChequeTotal)
		row.Discount = row.Discount.Add(payment.Discount)
		row.EWallet = row.EWallet.Add(payment.EWallet)
		row.BankDeposit = row.BankDeposit.Add(payment.BankDeposit)
		row.TotalPaid = row.TotalPaid.Add(payment.TotalPaid)
		row.BalanceDue = row.BalanceDue.Add(payment.BalanceDue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*port.DaybookRow, 0, len(order))
	for _, party := range order {
		result = append(result, byParty[party])
	}
	return result, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
