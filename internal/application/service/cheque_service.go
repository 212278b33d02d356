package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/cheque"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// CreateChequeRequest carries the fields for a new cheque. Date may be nil;
// the cheque then waits in needsDateConfirm until one is supplied.
type CreateChequeRequest struct {
	PartyName string
	BankID    int64
	Amount    decimal.Decimal
	Number    string
	Date      *time.Time
	Narration string
}

// ChequeState is the caller-facing view of a cheque after an operation.
type ChequeState struct {
	Cheque           *entity.Cheque `json:"cheque"`
	NeedsDateConfirm bool           `json:"needs_date_confirm"`
	SyncAttempted    bool           `json:"sync_attempted"`
	SyncError        string         `json:"sync_error,omitempty"`
}

// ChequeService drives the cheque lifecycle and its deferred sync toward the
// ledger gateway. Sync attempts never block the caller beyond the bounded
// gateway check and never fail the surrounding operation.
type ChequeService interface {
	CreateCheque(ctx context.Context, req CreateChequeRequest) (*ChequeState, error)
	LinkChequeToBill(ctx context.Context, chequeID int64, billID *int64, voucherNumber string, billAmount, allocated decimal.Decimal) (*entity.ChequeBillLink, error)
	UpdateChequeDate(ctx context.Context, chequeID int64, date time.Time) (*ChequeState, error)
	GetCheque(ctx context.Context, chequeID int64) (*ChequeState, error)
	RetrySync(ctx context.Context, chequeID int64) (*ChequeState, error)

	// TrySync makes one opportunistic sync attempt. It mutates the cheque's
	// sync status but only ever returns an error for missing cheques, never
	// for gateway failures.
	TrySync(ctx context.Context, chequeID int64) (*ChequeState, error)
}

type chequeServiceImpl struct {
	chequeRepo port.ChequeRepository
	bankRepo   port.BankRepository
	gateway    port.LedgerGateway
	events     dispatcher.Dispatcher
	targetBook string
	logger     Logger
}

// NewChequeService creates a new ChequeService. targetBook is the ledger
// book cheques are pushed into.
func NewChequeService(
	chequeRepo port.ChequeRepository,
	bankRepo port.BankRepository,
	gateway port.LedgerGateway,
	events dispatcher.Dispatcher,
	targetBook string,
	logger Logger,
) ChequeService {
	return &chequeServiceImpl{
		chequeRepo: chequeRepo,
		bankRepo:   bankRepo,
		gateway:    gateway,
		events:     events,
		targetBook: targetBook,
		logger:     logger,
	}
}

// CreateCheque validates and stores a cheque, then attempts an opportunistic sync.
func (s *chequeServiceImpl) CreateCheque(ctx context.Context, req CreateChequeRequest) (*ChequeState, error) {
	if req.PartyName == "" {
		return nil, errs.Validation("party_name", "is required")
	}
	if !req.Amount.IsPositive() {
		return nil, errs.Validation("amount", "must be positive")
	}
	if req.BankID > 0 {
		if _, err := s.getBank(ctx, req.BankID); err != nil {
			return nil, err
		}
	}

	c := &entity.Cheque{
		PartyName:  req.PartyName,
		BankID:     req.BankID,
		Amount:     req.Amount,
		Number:     req.Number,
		Date:       req.Date,
		Narration:  req.Narration,
		SyncStatus: entity.ChequeSyncPending,
	}
	if err := s.chequeRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Cheque created",
		"cheque_id", c.ID,
		"party", c.PartyName,
		"needs_date_confirm", c.NeedsDateConfirm())

	return s.attemptSync(ctx, c), nil
}

// LinkChequeToBill attaches a cheque to a bill. Over-allocating a cheque
// beyond its face amount is rejected.
func (s *chequeServiceImpl) LinkChequeToBill(ctx context.Context, chequeID int64, billID *int64, voucherNumber string, billAmount, allocated decimal.Decimal) (*entity.ChequeBillLink, error) {
	if voucherNumber == "" {
		return nil, errs.Validation("voucher_number", "is required")
	}
	if !allocated.IsPositive() {
		return nil, errs.Validation("allocated", "must be positive")
	}

	c, err := s.getCheque(ctx, chequeID)
	if err != nil {
		return nil, err
	}

	already, err := s.chequeRepo.AllocatedTotal(ctx, chequeID)
	if err != nil {
		return nil, err
	}
	if already.Add(allocated).GreaterThan(c.Amount) {
		return nil, errs.Validation("allocated", "exceeds cheque face amount")
	}

	link := &entity.ChequeBillLink{
		ChequeID:      chequeID,
		BillID:        billID,
		VoucherNumber: voucherNumber,
		BillAmount:    billAmount,
		Allocated:     allocated,
	}
	if err := s.chequeRepo.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// UpdateChequeDate confirms or changes the cheque date, then re-attempts sync.
func (s *chequeServiceImpl) UpdateChequeDate(ctx context.Context, chequeID int64, date time.Time) (*ChequeState, error) {
	if date.IsZero() {
		return nil, errs.Validation("cheque_date", "is required")
	}

	c, err := s.getCheque(ctx, chequeID)
	if err != nil {
		return nil, err
	}
	if c.Synced() {
		// Date changes after ledger acceptance are not allowed.
		return nil, errs.Validation("cheque_date", "cannot change on a synced cheque")
	}

	machine := machineFor(c)
	if err := machine.Fire(ctx, cheque.TriggerConfirmDate); err != nil {
		return nil, err
	}

	c.Date = &date
	if err := s.chequeRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return s.attemptSync(ctx, c), nil
}

// GetCheque returns the current state of a cheque.
func (s *chequeServiceImpl) GetCheque(ctx context.Context, chequeID int64) (*ChequeState, error) {
	c, err := s.getCheque(ctx, chequeID)
	if err != nil {
		return nil, err
	}
	return &ChequeState{
		Cheque:           c,
		NeedsDateConfirm: c.NeedsDateConfirm(),
	}, nil
}

// RetrySync is the operator-facing explicit re-attempt.
func (s *chequeServiceImpl) RetrySync(ctx context.Context, chequeID int64) (*ChequeState, error) {
	return s.TrySync(ctx, chequeID)
}

// TrySync makes one opportunistic sync attempt.
func (s *chequeServiceImpl) TrySync(ctx context.Context, chequeID int64) (*ChequeState, error) {
	c, err := s.getCheque(ctx, chequeID)
	if err != nil {
		return nil, err
	}
	return s.attemptSync(ctx, c), nil
}

// attemptSync pushes the cheque to the ledger if a date is confirmed and the
// gateway is reachable. Failures park the cheque as FAILED and are reported
// in the returned state, never as an error: the local operation must keep
// working through a total ledger outage.
func (s *chequeServiceImpl) attemptSync(ctx context.Context, c *entity.Cheque) *ChequeState {
	state := &ChequeState{
		Cheque:           c,
		NeedsDateConfirm: c.NeedsDateConfirm(),
	}

	if c.Synced() {
		// Re-syncing an already-synced cheque is a no-op.
		return state
	}
	if c.NeedsDateConfirm() {
		return state
	}

	state.SyncAttempted = true
	machine := machineFor(c)

	if !s.gateway.CheckConnection(ctx) {
		s.recordSyncFailure(ctx, c, machine, "ledger gateway not connected")
		state.SyncError = c.SyncError
		return state
	}

	bankLedger := ""
	if c.BankID > 0 {
		if bank, err := s.bankRepo.GetByID(ctx, c.BankID); err == nil && bank != nil {
			bankLedger = bank.LedgerName
		}
	}

	result, err := s.gateway.PushCheque(ctx, port.ChequePush{
		PartyName:  c.PartyName,
		BankLedger: bankLedger,
		Amount:     c.Amount,
		Number:     c.Number,
		Date:       *c.Date,
		Narration:  c.Narration,
		TargetBook: s.targetBook,
	})
	if err != nil {
		s.recordSyncFailure(ctx, c, machine, err.Error())
		state.SyncError = c.SyncError
		return state
	}
	if !result.Success {
		s.recordSyncFailure(ctx, c, machine, result.Error)
		state.SyncError = c.SyncError
		return state
	}

	if err := machine.Fire(ctx, cheque.TriggerSyncOK); err != nil {
		s.logger.Error("Unexpected lifecycle transition", "cheque_id", c.ID, "error", err)
	}
	c.SyncStatus = entity.ChequeSynced
	c.LedgerVoucherID = result.VoucherID
	c.SyncError = ""
	if err := s.chequeRepo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to persist synced cheque", "cheque_id", c.ID, "error", err)
	}

	s.logger.Info("Cheque synced to ledger",
		"cheque_id", c.ID,
		"ledger_voucher_id", c.LedgerVoucherID)

	if s.events != nil {
		s.events.DispatchAsync(ctx, event.ChequeSynced{
			Meta:            event.NewMeta(),
			ChequeID:        c.ID,
			LedgerVoucherID: c.LedgerVoucherID,
		})
	}
	return state
}

func (s *chequeServiceImpl) recordSyncFailure(ctx context.Context, c *entity.Cheque, machine cheque.StateMachine, reason string) {
	if err := machine.Fire(ctx, cheque.TriggerSyncFail); err != nil {
		s.logger.Error("Unexpected lifecycle transition", "cheque_id", c.ID, "error", err)
	}
	c.SyncStatus = entity.ChequeSyncFailed
	c.SyncError = reason
	if err := s.chequeRepo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to persist cheque sync failure", "cheque_id", c.ID, "error", err)
	}

	s.logger.Info("Cheque sync deferred", "cheque_id", c.ID, "reason", reason)

	if s.events != nil {
		s.events.DispatchAsync(ctx, event.ChequeSyncFailed{
			Meta:     event.NewMeta(),
			ChequeID: c.ID,
			Reason:   reason,
		})
	}
}

func (s *chequeServiceImpl) getCheque(ctx context.Context, id int64) (*entity.Cheque, error) {
	c, err := s.chequeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NotFound("cheque", id)
	}
	return c, nil
}

func (s *chequeServiceImpl) getBank(ctx context.Context, id int64) (*entity.Bank, error) {
	bank, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, errs.NotFound("bank", id)
	}
	return bank, nil
}

// machineFor positions a lifecycle machine at the cheque's stored state.
func machineFor(c *entity.Cheque) cheque.StateMachine {
	return cheque.MachineFor(
		c.Date != nil,
		c.Synced(),
		c.SyncStatus == entity.ChequeSyncFailed,
	)
}
