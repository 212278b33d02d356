package service

import (
	"context"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

// BankService manages the bank short-name reference data used on cheques.
type BankService interface {
	CreateBank(ctx context.Context, shortName, ledgerName string) (*entity.Bank, error)
	ListBanks(ctx context.Context) ([]*entity.Bank, error)
}

type bankServiceImpl struct {
	bankRepo port.BankRepository
	logger   Logger
}

// NewBankService creates a new BankService
func NewBankService(bankRepo port.BankRepository, logger Logger) BankService {
	return &bankServiceImpl{
		bankRepo: bankRepo,
		logger:   logger,
	}
}

// CreateBank stores a short-name mapping. Duplicate short names surface as
// a conflict, not a generic failure.
func (s *bankServiceImpl) CreateBank(ctx context.Context, shortName, ledgerName string) (*entity.Bank, error) {
	if shortName == "" {
		return nil, errs.Validation("short_name", "is required")
	}
	if ledgerName == "" {
		return nil, errs.Validation("ledger_name", "is required")
	}

	existing, err := s.bankRepo.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("bank short name", shortName)
	}

	bank := &entity.Bank{
		ShortName:  shortName,
		LedgerName: ledgerName,
	}
	if err := s.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// ListBanks returns all mappings.
func (s *bankServiceImpl) ListBanks(ctx context.Context) ([]*entity.Bank, error) {
	return s.bankRepo.List(ctx)
}
