package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/service"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/pkg/utils"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// respondError maps the error taxonomy onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsValidation(err):
		status = http.StatusBadRequest
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyMatched),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrVersionMismatch):
		status = http.StatusConflict
	case errs.IsGatewayUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// ChequeEntryRequest is one cheque attached to a payment request
type ChequeEntryRequest struct {
	BankID    int64           `json:"bank_id"`
	Amount    decimal.Decimal `json:"amount"`
	Number    string          `json:"number"`
	Date      *string         `json:"date,omitempty"`
	Narration string          `json:"narration,omitempty"`
}

// RecordPaymentRequest represents the payment recording payload
type RecordPaymentRequest struct {
	VoucherNumber string          `json:"voucher_number" binding:"required"`
	PartyName     string          `json:"party_name" binding:"required"`
	Company       string          `json:"company,omitempty"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	BillDate      string          `json:"bill_date" binding:"required"`

	Cash        decimal.Decimal `json:"cash"`
	Wallet      decimal.Decimal `json:"wallet"`
	ChequeTotal decimal.Decimal `json:"cheque_total"`
	Discount    decimal.Decimal `json:"discount"`
	EWallet     decimal.Decimal `json:"e_wallet"`
	BankDeposit decimal.Decimal `json:"bank_deposit"`
	Notes       string          `json:"notes,omitempty"`

	Cheques []ChequeEntryRequest `json:"cheques,omitempty"`

	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// RecordPayment handles POST /api/payments
func (h *Handlers) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	if err := utils.ValidateVoucherNumber(req.VoucherNumber); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	billDate, err := time.Parse(dateLayout, req.BillDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "bill_date must be YYYY-MM-DD"})
		return
	}

	svcReq := service.RecordPaymentRequest{
		VoucherNumber:   req.VoucherNumber,
		PartyName:       req.PartyName,
		Company:         req.Company,
		BillAmount:      req.BillAmount,
		BillDate:        billDate,
		Cash:            req.Cash,
		Wallet:          req.Wallet,
		ChequeTotal:     req.ChequeTotal,
		Discount:        req.Discount,
		EWallet:         req.EWallet,
		BankDeposit:     req.BankDeposit,
		Notes:           utils.SanitizeString(req.Notes),
		ExpectedVersion: req.ExpectedVersion,
	}

	for _, entry := range req.Cheques {
		if err := utils.ValidateChequeNumber(entry.Number); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		svcEntry := service.ChequeEntry{
			BankID:    entry.BankID,
			Amount:    entry.Amount,
			Number:    entry.Number,
			Narration: utils.SanitizeString(entry.Narration),
		}
		if entry.Date != nil {
			date, err := time.Parse(dateLayout, *entry.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, Response{Success: false, Error: "cheque date must be YYYY-MM-DD"})
				return
			}
			svcEntry.Date = &date
		}
		svcReq.Cheques = append(svcReq.Cheques, svcEntry)
	}

	result, err := h.services.Payments.RecordPayment(c.Request.Context(), svcReq)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetPayment handles GET /api/payments/:voucher_number
func (h *Handlers) GetPayment(c *gin.Context) {
	payment, err := h.services.Payments.GetPayment(c.Request.Context(), c.Param("voucher_number"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: payment})
}

// ListPartialPayments handles GET /api/payments/partial
func (h *Handlers) ListPartialPayments(c *gin.Context) {
	payments, err := h.services.Payments.ListPartialPayments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: payments})
}

// CreateChequeRequest represents a standalone cheque creation payload
type CreateChequeRequest struct {
	PartyName string          `json:"party_name" binding:"required"`
	BankID    int64           `json:"bank_id"`
	Amount    decimal.Decimal `json:"amount"`
	Number    string          `json:"number"`
	Date      *string         `json:"date,omitempty"`
	Narration string          `json:"narration,omitempty"`
}

// CreateCheque handles POST /api/cheques
func (h *Handlers) CreateCheque(c *gin.Context) {
	var req CreateChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if err := utils.ValidateChequeNumber(req.Number); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	svcReq := service.CreateChequeRequest{
		PartyName: req.PartyName,
		BankID:    req.BankID,
		Amount:    req.Amount,
		Number:    req.Number,
		Narration: utils.SanitizeString(req.Narration),
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "date must be YYYY-MM-DD"})
			return
		}
		svcReq.Date = &date
	}

	state, err := h.services.Cheques.CreateCheque(c.Request.Context(), svcReq)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// GetCheque handles GET /api/cheques/:id
func (h *Handlers) GetCheque(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	state, err := h.services.Cheques.GetCheque(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// UpdateChequeDateRequest represents the date confirmation payload
type UpdateChequeDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// UpdateChequeDate handles PUT /api/cheques/:id/date
func (h *Handlers) UpdateChequeDate(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	var req UpdateChequeDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "date must be YYYY-MM-DD"})
		return
	}

	state, err := h.services.Cheques.UpdateChequeDate(c.Request.Context(), id, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// RetryChequeSync handles POST /api/cheques/:id/retry-sync
func (h *Handlers) RetryChequeSync(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	state, err := h.services.Cheques.RetrySync(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// LinkChequeRequest represents the cheque-bill link payload
type LinkChequeRequest struct {
	BillID        *int64          `json:"bill_id,omitempty"`
	VoucherNumber string          `json:"voucher_number" binding:"required"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	Allocated     decimal.Decimal `json:"allocated"`
}

// LinkChequeToBill handles POST /api/cheques/:id/links
func (h *Handlers) LinkChequeToBill(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	var req LinkChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	link, err := h.services.Cheques.LinkChequeToBill(c.Request.Context(), id, req.BillID, req.VoucherNumber, req.BillAmount, req.Allocated)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: link})
}

// IngestWalletRequest represents an incoming wallet feed entry
type IngestWalletRequest struct {
	TraceID string          `json:"trace_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	TxnDate string          `json:"txn_date" binding:"required"`
	Issuer  string          `json:"issuer,omitempty"`
}

// IngestWalletTransaction handles POST /api/wallet/transactions
func (h *Handlers) IngestWalletTransaction(c *gin.Context) {
	var req IngestWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	txnDate, err := time.Parse(dateLayout, req.TxnDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "txn_date must be YYYY-MM-DD"})
		return
	}

	txn, err := h.services.Wallet.Ingest(c.Request.Context(), service.IngestWalletTransactionRequest{
		TraceID: req.TraceID,
		Amount:  req.Amount,
		TxnDate: txnDate,
		Issuer:  req.Issuer,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: txn})
}

// ListUnmatchedWalletTransactions handles GET /api/wallet/transactions/unmatched
func (h *Handlers) ListUnmatchedWalletTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}

	txns, err := h.services.Wallet.ListUnmatched(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: txns})
}

// LinkWalletRequest represents a manual wallet-bill link payload
type LinkWalletRequest struct {
	VoucherNumber string `json:"voucher_number" binding:"required"`
	PartyName     string `json:"party_name" binding:"required"`
	Company       string `json:"company,omitempty"`
	BillDate      string `json:"bill_date" binding:"required"`
}

// LinkWalletTransaction handles POST /api/wallet/transactions/:id/link
func (h *Handlers) LinkWalletTransaction(c *gin.Context) {
	var req LinkWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	billDate, err := time.Parse(dateLayout, req.BillDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "bill_date must be YYYY-MM-DD"})
		return
	}

	err = h.services.Wallet.Link(c.Request.Context(), c.Param("id"), entity.BillDescriptor{
		VoucherNumber: req.VoucherNumber,
		PartyName:     req.PartyName,
		Company:       req.Company,
		BillDate:      billDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// SyncOutstanding handles POST /api/outstanding/sync
func (h *Handlers) SyncOutstanding(c *gin.Context) {
	result, err := h.services.Outstanding.SyncFromLedger(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListOutstanding handles GET /api/outstanding
func (h *Handlers) ListOutstanding(c *gin.Context) {
	bills, err := h.services.Outstanding.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: bills})
}

// AgeingSummary handles GET /api/outstanding/ageing
func (h *Handlers) AgeingSummary(c *gin.Context) {
	overdueOnly := c.Query("overdue_only") == "true"

	summary, err := h.services.Outstanding.AgeingSummary(c.Request.Context(), overdueOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// ExportAgeing handles GET /api/outstanding/ageing/export
func (h *Handlers) ExportAgeing(c *gin.Context) {
	ctx := c.Request.Context()

	bills, err := h.services.Outstanding.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.services.Outstanding.AgeingSummary(ctx, false)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("ageing-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.services.Exporter.Export(c.Writer, bills, summary); err != nil {
		h.logger.Error("Ageing export failed", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

// Daybook handles GET /api/daybook
func (h *Handlers) Daybook(c *gin.Context) {
	dayStr := c.DefaultQuery("date", time.Now().Format(dateLayout))
	day, err := time.Parse(dateLayout, dayStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "date must be YYYY-MM-DD"})
		return
	}

	rows, err := h.services.Daybook.Rollup(c.Request.Context(), day, c.Query("party"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rows})
}

// CreateBankRequest represents the bank mapping payload
type CreateBankRequest struct {
	ShortName  string `json:"short_name" binding:"required"`
	LedgerName string `json:"ledger_name" binding:"required"`
}

// CreateBank handles POST /api/banks
func (h *Handlers) CreateBank(c *gin.Context) {
	var req CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	bank, err := h.services.Banks.CreateBank(c.Request.Context(), req.ShortName, req.LedgerName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: bank})
}

// ListBanks handles GET /api/banks
func (h *Handlers) ListBanks(c *gin.Context) {
	banks, err := h.services.Banks.ListBanks(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: banks})
}

// chequeID parses the :id path parameter
func (h *Handlers) chequeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid cheque ID"})
		return 0, false
	}
	return id, true
}
