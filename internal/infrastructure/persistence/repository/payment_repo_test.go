package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

func testPayment(t *testing.T, voucher string) *entity.BillPayment {
	t.Helper()
	p := &entity.BillPayment{
		VoucherNumber: voucher,
		PartyName:     "Hamro Kirana",
		Company:       "Saroj Traders",
		BillAmount:    mustDec(t, "1000"),
		BillDate:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Cash:          mustDec(t, "400"),
		Wallet:        mustDec(t, "600"),
	}
	p.Recompute()
	return p
}

func TestPaymentRepository_Upsert(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	p := testPayment(t, "KTM-2082-00045")
	require.NoError(t, repo.Upsert(ctx, p))

	assert.NotZero(t, p.ID)
	assert.Equal(t, int64(1), p.Version)

	stored, err := repo.GetByVoucherNumber(ctx, "KTM-2082-00045")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "1000", stored.TotalPaid.String())
	assert.Equal(t, entity.PaymentStatusPaid, stored.Status)
}

func TestPaymentRepository_UpsertReplacesAndBumpsVersion(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	first := testPayment(t, "KTM-2082-00045")
	require.NoError(t, repo.Upsert(ctx, first))
	firstID := first.ID

	// Re-record the same voucher with only the cash leg.
	second := testPayment(t, "KTM-2082-00045")
	second.Wallet = mustDec(t, "0")
	second.Recompute()
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, firstID, second.ID, "re-recording must not create a second row")
	assert.Equal(t, int64(2), second.Version)

	stored, err := repo.GetByVoucherNumber(ctx, "KTM-2082-00045")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "400", stored.TotalPaid.String())
	assert.Equal(t, "600", stored.BalanceDue.String())
	assert.Equal(t, entity.PaymentStatusPartial, stored.Status)
	assert.Equal(t, "0", stored.Wallet.String(), "prior wallet amount must be replaced, not kept")
}

func TestPaymentRepository_GetByVoucherNumber_Missing(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t), testLogger())

	stored, err := repo.GetByVoucherNumber(context.Background(), "KTM-2082-99999")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPaymentRepository_ListPartial(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	paid := testPayment(t, "KTM-2082-00001")
	require.NoError(t, repo.Upsert(ctx, paid))

	partial := testPayment(t, "KTM-2082-00002")
	partial.Wallet = mustDec(t, "0")
	partial.Recompute()
	require.NoError(t, repo.Upsert(ctx, partial))

	payments, err := repo.ListPartial(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "KTM-2082-00002", payments[0].VoucherNumber)
}
