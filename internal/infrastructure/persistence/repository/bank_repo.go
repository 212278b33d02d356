package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

// BankRepository handles bank short-name mapping database operations
type BankRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *sql.DB, logger *zap.Logger) *BankRepository {
	return &BankRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a bank mapping. Short names are unique.
func (r *BankRepository) Create(ctx context.Context, bank *entity.Bank) error {
	query := `INSERT INTO banks (short_name, ledger_name) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, bank.ShortName, bank.LedgerName)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errs.Conflict("bank", bank.ShortName)
		}
		r.logger.Error("Failed to create bank",
			zap.String("short_name", bank.ShortName),
			zap.Error(err))
		return fmt.Errorf("failed to create bank: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	bank.ID = id
	return nil
}

// GetByID retrieves a bank by ID
func (r *BankRepository) GetByID(ctx context.Context, id int64) (*entity.Bank, error) {
	return r.getOne(ctx, selectBank+` WHERE id = ?`, id)
}

// GetByShortName retrieves a bank by its short name
func (r *BankRepository) GetByShortName(ctx context.Context, shortName string) (*entity.Bank, error) {
	return r.getOne(ctx, selectBank+` WHERE short_name = ?`, shortName)
}

// List returns all bank mappings ordered by short name
func (r *BankRepository) List(ctx context.Context) ([]*entity.Bank, error) {
	rows, err := r.db.QueryContext(ctx, selectBank+` ORDER BY short_name`)
	if err != nil {
		r.logger.Error("Failed to list banks", zap.Error(err))
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	var banks []*entity.Bank
	for rows.Next() {
		var bank entity.Bank
		if err := rows.Scan(&bank.ID, &bank.ShortName, &bank.LedgerName, &bank.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, &bank)
	}
	return banks, rows.Err()
}

func (r *BankRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.Bank, error) {
	var bank entity.Bank
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&bank.ID, &bank.ShortName, &bank.LedgerName, &bank.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bank", zap.Error(err))
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	return &bank, nil
}

const selectBank = `SELECT id, short_name, ledger_name, created_at FROM banks`
