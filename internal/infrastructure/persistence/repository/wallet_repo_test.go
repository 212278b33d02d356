package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

func seedWalletTxn(t *testing.T, repo *WalletRepository, traceID, amount string, txnDate time.Time) *entity.WalletTransaction {
	t.Helper()
	txn := &entity.WalletTransaction{
		ID:      uuid.NewString(),
		TraceID: traceID,
		Amount:  mustDec(t, amount),
		TxnDate: txnDate,
		Issuer:  "Fonepay",
	}
	require.NoError(t, repo.Create(context.Background(), txn))
	return txn
}

func TestWalletRepository_CreateAndGet(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	txnDate := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	created := seedWalletTxn(t, repo, "FP-20260815-0001", "600.00", txnDate)

	byTrace, err := repo.GetByTraceID(ctx, "FP-20260815-0001")
	require.NoError(t, err)
	require.NotNil(t, byTrace)
	assert.Equal(t, created.ID, byTrace.ID)
	assert.False(t, byTrace.Matched)

	// Amounts normalize on the way in: 600.00 and 600 are the same value.
	assert.Equal(t, "600", byTrace.Amount.String())

	missing, err := repo.GetByTraceID(ctx, "FP-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWalletRepository_FindUnmatched(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	billDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	later := seedWalletTxn(t, repo, "FP-2", "600", billDate.Add(8*time.Hour))
	earlier := seedWalletTxn(t, repo, "FP-1", "600", billDate.Add(-20*time.Hour))
	seedWalletTxn(t, repo, "FP-3", "600", billDate.Add(-40*time.Hour)) // outside window
	seedWalletTxn(t, repo, "FP-4", "650", billDate)                    // wrong amount

	found, err := repo.FindUnmatched(ctx, mustDec(t, "600.00"), billDate.Add(-24*time.Hour), billDate.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, earlier.ID, found[0].ID, "earliest transaction must come first")
	assert.Equal(t, later.ID, found[1].ID)
}

func TestWalletRepository_MarkMatched(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	txnDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	txn := seedWalletTxn(t, repo, "FP-1", "600", txnDate)

	billRef := "Saroj Traders | KTM-2082-00045 | 2026-08-15"
	require.NoError(t, repo.MarkMatched(ctx, txn.ID, billRef, time.Now().UTC()))

	stored, err := repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Matched)
	assert.Equal(t, billRef, stored.BillRef)
	require.NotNil(t, stored.MatchedAt)

	// Second link must lose, not overwrite.
	err = repo.MarkMatched(ctx, txn.ID, "some other bill", time.Now().UTC())
	assert.ErrorIs(t, err, errs.ErrAlreadyMatched)

	stored, err = repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, billRef, stored.BillRef)
}

func TestWalletRepository_MarkMatched_Missing(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t), testLogger())

	err := repo.MarkMatched(context.Background(), uuid.NewString(), "bill", time.Now().UTC())
	assert.True(t, errs.IsNotFound(err), "error = %v, want not found", err)
}

func TestWalletRepository_MatchedExcludedFromSearch(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	billDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	txn := seedWalletTxn(t, repo, "FP-1", "600", billDate)
	require.NoError(t, repo.MarkMatched(ctx, txn.ID, "bill", time.Now().UTC()))

	found, err := repo.FindUnmatched(ctx, mustDec(t, "600"), billDate.Add(-24*time.Hour), billDate.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)

	unmatched, err := repo.ListUnmatched(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unmatched)
}
