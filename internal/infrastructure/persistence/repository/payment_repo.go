package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// PaymentRepository handles bill payment database operations
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces the payment aggregate for a voucher number.
// Replacement bumps the version counter and preserves created_at.
func (r *PaymentRepository) Upsert(ctx context.Context, p *entity.BillPayment) error {
	query := `
		INSERT INTO bill_payments (
			voucher_number, party_name, company, bill_amount, bill_date,
			cash, wallet, cheque_total, discount, e_wallet, bank_deposit,
			notes, total_paid, balance_due, status, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(voucher_number) DO UPDATE SET
			party_name = excluded.party_name,
			company = excluded.company,
			bill_amount = excluded.bill_amount,
			bill_date = excluded.bill_date,
			cash = excluded.cash,
			wallet = excluded.wallet,
			cheque_total = excluded.cheque_total,
			discount = excluded.discount,
			e_wallet = excluded.e_wallet,
			bank_deposit = excluded.bank_deposit,
			notes = excluded.notes,
			total_paid = excluded.total_paid,
			balance_due = excluded.balance_due,
			status = excluded.status,
			version = bill_payments.version + 1,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		p.VoucherNumber,
		p.PartyName,
		p.Company,
		p.BillAmount.String(),
		p.BillDate,
		p.Cash.String(),
		p.Wallet.String(),
		p.ChequeTotal.String(),
		p.Discount.String(),
		p.EWallet.String(),
		p.BankDeposit.String(),
		p.Notes,
		p.TotalPaid.String(),
		p.BalanceDue.String(),
		string(p.Status),
	)
	if err != nil {
		r.logger.Error("Failed to upsert payment",
			zap.String("voucher_number", p.VoucherNumber),
			zap.Error(err))
		return fmt.Errorf("failed to upsert payment: %w", err)
	}

	stored, err := r.GetByVoucherNumber(ctx, p.VoucherNumber)
	if err != nil {
		return err
	}
	if stored != nil {
		p.ID = stored.ID
		p.Version = stored.Version
		p.CreatedAt = stored.CreatedAt
		p.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

// GetByVoucherNumber retrieves the payment aggregate for a voucher number
func (r *PaymentRepository) GetByVoucherNumber(ctx context.Context, voucherNumber string) (*entity.BillPayment, error) {
	query := selectPayment + ` WHERE voucher_number = ?`

	row := r.db.QueryRowContext(ctx, query, voucherNumber)
	payment, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment",
			zap.String("voucher_number", voucherNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPartial returns all payments with a positive balance due
func (r *PaymentRepository) ListPartial(ctx context.Context) ([]*entity.BillPayment, error) {
	query := selectPayment + ` WHERE status = ? ORDER BY bill_date, voucher_number`

	rows, err := r.db.QueryContext(ctx, query, string(entity.PaymentStatusPartial))
	if err != nil {
		r.logger.Error("Failed to list partial payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list partial payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.BillPayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

const selectPayment = `
	SELECT id, voucher_number, party_name, company, bill_amount, bill_date,
		cash, wallet, cheque_total, discount, e_wallet, bank_deposit,
		notes, total_paid, balance_due, status, version, created_at, updated_at
	FROM bill_payments`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*entity.BillPayment, error) {
	var p entity.BillPayment
	var billAmount, cash, wallet, chequeTotal, discount, eWallet, bankDeposit string
	var totalPaid, balanceDue, status string
	var billDate, createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ID,
		&p.VoucherNumber,
		&p.PartyName,
		&p.Company,
		&billAmount,
		&billDate,
		&cash,
		&wallet,
		&chequeTotal,
		&discount,
		&eWallet,
		&bankDeposit,
		&p.Notes,
		&totalPaid,
		&balanceDue,
		&status,
		&p.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.BillAmount, err = parseDecimal(billAmount); err != nil {
		return nil, err
	}
	if p.Cash, err = parseDecimal(cash); err != nil {
		return nil, err
	}
	if p.Wallet, err = parseDecimal(wallet); err != nil {
		return nil, err
	}
	if p.ChequeTotal, err = parseDecimal(chequeTotal); err != nil {
		return nil, err
	}
	if p.Discount, err = parseDecimal(discount); err != nil {
		return nil, err
	}
	if p.EWallet, err = parseDecimal(eWallet); err != nil {
		return nil, err
	}
	if p.BankDeposit, err = parseDecimal(bankDeposit); err != nil {
		return nil, err
	}
	if p.TotalPaid, err = parseDecimal(totalPaid); err != nil {
		return nil, err
	}
	if p.BalanceDue, err = parseDecimal(balanceDue); err != nil {
		return nil, err
	}

	p.Status = entity.PaymentStatus(status)
	p.BillDate = billDate
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}
