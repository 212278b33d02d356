package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// ChequeRepository handles cheque and cheque-bill-link database operations
type ChequeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChequeRepository creates a new cheque repository
func NewChequeRepository(db *sql.DB, logger *zap.Logger) *ChequeRepository {
	return &ChequeRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new cheque record
func (r *ChequeRepository) Create(ctx context.Context, c *entity.Cheque) error {
	query := `
		INSERT INTO cheques (
			party_name, bank_id, amount, cheque_number, cheque_date,
			narration, sync_status, ledger_voucher_id, sync_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		c.PartyName,
		c.BankID,
		c.Amount.String(),
		c.Number,
		c.Date,
		c.Narration,
		string(c.SyncStatus),
		c.LedgerVoucherID,
		c.SyncError,
	)
	if err != nil {
		r.logger.Error("Failed to create cheque", zap.Error(err))
		return fmt.Errorf("failed to create cheque: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// GetByID retrieves a cheque by ID
func (r *ChequeRepository) GetByID(ctx context.Context, id int64) (*entity.Cheque, error) {
	query := selectCheque + ` WHERE id = ?`

	cheque, err := scanCheque(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get cheque", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get cheque: %w", err)
	}
	return cheque, nil
}

// Update updates a cheque's mutable fields
func (r *ChequeRepository) Update(ctx context.Context, c *entity.Cheque) error {
	query := `
		UPDATE cheques
		SET cheque_date = ?, narration = ?, sync_status = ?,
			ledger_voucher_id = ?, sync_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		c.Date,
		c.Narration,
		string(c.SyncStatus),
		c.LedgerVoucherID,
		c.SyncError,
		c.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update cheque", zap.Int64("id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to update cheque: %w", err)
	}
	return nil
}

// ListUnsynced returns date-confirmed cheques not yet accepted by the
// ledger, oldest first
func (r *ChequeRepository) ListUnsynced(ctx context.Context, limit int) ([]*entity.Cheque, error) {
	query := selectCheque + `
		WHERE sync_status != ? AND cheque_date IS NOT NULL
		ORDER BY created_at
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, string(entity.ChequeSynced), limit)
	if err != nil {
		r.logger.Error("Failed to list unsynced cheques", zap.Error(err))
		return nil, fmt.Errorf("failed to list unsynced cheques: %w", err)
	}
	defer rows.Close()

	var cheques []*entity.Cheque
	for rows.Next() {
		cheque, err := scanCheque(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cheque: %w", err)
		}
		cheques = append(cheques, cheque)
	}
	return cheques, rows.Err()
}

// CreateLink creates a cheque-bill association record
func (r *ChequeRepository) CreateLink(ctx context.Context, link *entity.ChequeBillLink) error {
	query := `
		INSERT INTO cheque_bill_links (
			cheque_id, bill_id, voucher_number, bill_amount, allocated
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		link.ChequeID,
		link.BillID,
		link.VoucherNumber,
		link.BillAmount.String(),
		link.Allocated.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create cheque bill link",
			zap.Int64("cheque_id", link.ChequeID),
			zap.Error(err))
		return fmt.Errorf("failed to create cheque bill link: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	link.ID = id
	return nil
}

// GetLinksByCheque returns all bill links for a cheque
func (r *ChequeRepository) GetLinksByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeBillLink, error) {
	query := `
		SELECT id, cheque_id, bill_id, voucher_number, bill_amount, allocated, created_at
		FROM cheque_bill_links
		WHERE cheque_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, chequeID)
	if err != nil {
		r.logger.Error("Failed to get cheque links", zap.Int64("cheque_id", chequeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get cheque links: %w", err)
	}
	defer rows.Close()

	var links []*entity.ChequeBillLink
	for rows.Next() {
		var link entity.ChequeBillLink
		var billID sql.NullInt64
		var billAmount, allocated string

		if err := rows.Scan(&link.ID, &link.ChequeID, &billID, &link.VoucherNumber, &billAmount, &allocated, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cheque link: %w", err)
		}
		if billID.Valid {
			link.BillID = &billID.Int64
		}
		if link.BillAmount, err = parseDecimal(billAmount); err != nil {
			return nil, err
		}
		if link.Allocated, err = parseDecimal(allocated); err != nil {
			return nil, err
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

// AllocatedTotal sums a cheque's allocations across its bill links.
// Summed in Go to keep decimal exactness (amounts are stored as text).
func (r *ChequeRepository) AllocatedTotal(ctx context.Context, chequeID int64) (decimal.Decimal, error) {
	links, err := r.GetLinksByCheque(ctx, chequeID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, link := range links {
		total = total.Add(link.Allocated)
	}
	return total, nil
}

const selectCheque = `
	SELECT id, party_name, bank_id, amount, cheque_number, cheque_date,
		narration, sync_status, ledger_voucher_id, sync_error, created_at, updated_at
	FROM cheques`

func scanCheque(row rowScanner) (*entity.Cheque, error) {
	var c entity.Cheque
	var amount, syncStatus string
	var chequeDate sql.NullTime
	var ledgerVoucherID, syncError sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&c.ID,
		&c.PartyName,
		&c.BankID,
		&amount,
		&c.Number,
		&chequeDate,
		&c.Narration,
		&syncStatus,
		&ledgerVoucherID,
		&syncError,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if chequeDate.Valid {
		c.Date = &chequeDate.Time
	}
	if ledgerVoucherID.Valid {
		c.LedgerVoucherID = ledgerVoucherID.String
	}
	if syncError.Valid {
		c.SyncError = syncError.String
	}
	c.SyncStatus = entity.ChequeSyncStatus(syncStatus)
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}
