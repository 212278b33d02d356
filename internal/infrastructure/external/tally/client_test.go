package tally

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:        server.URL,
		CompanyName:    "Saroj Traders",
		TargetBook:     "Cheque Received",
		CheckTimeout:   500 * time.Millisecond,
		RequestTimeout: 2 * time.Second,
	}, zap.NewNop())
	return client, server
}

func chequePush() port.ChequePush {
	return port.ChequePush{
		PartyName:  "Hamro Kirana",
		BankLedger: "Nabil Bank Ltd",
		Amount:     decimal.RequireFromString("2500"),
		Number:     "001234",
		Date:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		TargetBook: "Cheque Received",
	}
}

func TestClient_CheckConnection(t *testing.T) {
	t.Run("reachable endpoint", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("TallyPrime Server is Running"))
		})
		assert.True(t, client.CheckConnection(context.Background()))
	})

	t.Run("refused connection", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()
		assert.False(t, client.CheckConnection(context.Background()))
	})

	t.Run("slow endpoint counts as not connected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		})
		start := time.Now()
		assert.False(t, client.CheckConnection(context.Background()))
		assert.Less(t, time.Since(start), 1500*time.Millisecond, "probe must be bounded by the check timeout")
	})

	t.Run("non-200 status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.False(t, client.CheckConnection(context.Background()))
	})
}

func TestClient_PushCheque(t *testing.T) {
	t.Run("accepted voucher", func(t *testing.T) {
		var gotBody string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Write([]byte(`<ENVELOPE><BODY><DATA><IMPORTRESULT><CREATED>1</CREATED><ERRORS>0</ERRORS><LASTVCHID>1042</LASTVCHID></IMPORTRESULT></DATA></BODY></ENVELOPE>`))
		})

		result, err := client.PushCheque(context.Background(), chequePush())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "1042", result.VoucherID)

		// Party credit carries the positive amount, bank debit the negative.
		assert.Contains(t, gotBody, "<DATE>20260820</DATE>")
		assert.Contains(t, gotBody, "<PARTYLEDGERNAME>Hamro Kirana</PARTYLEDGERNAME>")
		assert.Contains(t, gotBody, "<LEDGERNAME>Nabil Bank Ltd</LEDGERNAME><ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE><AMOUNT>-2500.00</AMOUNT>")
		assert.Contains(t, gotBody, "<LEDGERNAME>Hamro Kirana</LEDGERNAME><ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE><AMOUNT>2500.00</AMOUNT>")
		assert.Contains(t, gotBody, "<SVCURRENTCOMPANY>Saroj Traders</SVCURRENTCOMPANY>")
	})

	t.Run("missing voucher id falls back to book and number", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<ENVELOPE><BODY><DATA><IMPORTRESULT><CREATED>1</CREATED></IMPORTRESULT></DATA></BODY></ENVELOPE>`))
		})

		result, err := client.PushCheque(context.Background(), chequePush())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Cheque Received/001234", result.VoucherID)
	})

	t.Run("rejected voucher returns the line error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<ENVELOPE><BODY><DATA><IMPORTRESULT><CREATED>0</CREATED><ERRORS>1</ERRORS></IMPORTRESULT><LINEERROR>Ledger 'Hamro Kirana' does not exist!</LINEERROR></DATA></BODY></ENVELOPE>`))
		})

		result, err := client.PushCheque(context.Background(), chequePush())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Ledger 'Hamro Kirana' does not exist!", result.Error)
	})

	t.Run("transport failure is gateway unavailable", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.PushCheque(context.Background(), chequePush())
		assert.True(t, errs.IsGatewayUnavailable(err), "error = %v, want gateway unavailable", err)
	})

	t.Run("non-200 status is gateway unavailable", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.PushCheque(context.Background(), chequePush())
		assert.True(t, errs.IsGatewayUnavailable(err), "error = %v, want gateway unavailable", err)
	})
}

func TestClient_GetBillAllocations(t *testing.T) {
	t.Run("parses parties and bills", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<ENVELOPE><BODY><DATA><COLLECTION>
				<LEDGER NAME="Hamro Kirana">
					<BILLALLOCATIONS.LIST>
						<NAME>KTM-2082-00010</NAME>
						<BILLDATE>20260601</BILLDATE>
						<CLOSINGBALANCE>-1500.00</CLOSINGBALANCE>
						<BILLCREDITPERIOD>30 Days</BILLCREDITPERIOD>
						<OVERDUEDAYS>45 Days</OVERDUEDAYS>
					</BILLALLOCATIONS.LIST>
					<BILLALLOCATIONS.LIST>
						<NAME>KTM-2082-00011</NAME>
						<BILLDATE>garbage</BILLDATE>
						<CLOSINGBALANCE>100</CLOSINGBALANCE>
					</BILLALLOCATIONS.LIST>
				</LEDGER>
				<LEDGER NAME="Everest Stores"></LEDGER>
			</COLLECTION></DATA></BODY></ENVELOPE>`))
		})

		parties, err := client.GetBillAllocations(context.Background())
		require.NoError(t, err)
		require.Len(t, parties, 1, "empty ledgers and unparseable bills are dropped")

		party := parties[0]
		assert.Equal(t, "Hamro Kirana", party.PartyName)
		require.Len(t, party.Bills, 1)

		bill := party.Bills[0]
		assert.Equal(t, "KTM-2082-00010", bill.BillName)
		assert.True(t, bill.BillDate.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "1500", bill.ClosingBalance.String(), "receivable balances are reported unsigned")
		assert.Equal(t, 30, bill.CreditPeriod)
		assert.Equal(t, 45, bill.AgeingDays)
	})

	t.Run("transport failure is gateway unavailable", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.GetBillAllocations(context.Background())
		assert.True(t, errs.IsGatewayUnavailable(err), "error = %v, want gateway unavailable", err)
	})
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30 Days", 30},
		{"  45 Days ", 45},
		{"7", 7},
		{"", 0},
		{"Days", 0},
	}
	for _, tt := range tests {
		if got := parseDays(tt.in); got != tt.want {
			t.Errorf("parseDays(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
