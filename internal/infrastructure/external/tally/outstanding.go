package tally

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
)

// billAllocationsResponse maps the bill-wise receivables export. The
// collection walks sundry debtor ledgers and lists each pending bill with
// its closing balance and ageing.
type billAllocationsResponse struct {
	XMLName xml.Name     `xml:"ENVELOPE"`
	Parties []partyEntry `xml:"BODY>DATA>COLLECTION>LEDGER"`
}

type partyEntry struct {
	Name  string      `xml:"NAME,attr"`
	Bills []billEntry `xml:"BILLALLOCATIONS.LIST"`
}

type billEntry struct {
	Name           string `xml:"NAME"`
	BillDate       string `xml:"BILLDATE"`
	ClosingBalance string `xml:"CLOSINGBALANCE"`
	CreditPeriod   string `xml:"BILLCREDITPERIOD"`
	OverdueDays    string `xml:"OVERDUEDAYS"`
}

// GetBillAllocations pulls the bill-wise allocation set for all debtor
// ledgers. Parties with no pending bills are omitted.
func (c *Client) GetBillAllocations(ctx context.Context) ([]port.PartyAllocations, error) {
	body, err := c.post(ctx, c.buildAllocationsEnvelope())
	if err != nil {
		return nil, err
	}

	var resp billAllocationsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to parse tally allocations response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse tally allocations response: %w", err)
	}

	var parties []port.PartyAllocations
	for _, p := range resp.Parties {
		if len(p.Bills) == 0 {
			continue
		}

		party := port.PartyAllocations{PartyName: strings.TrimSpace(p.Name)}
		for _, b := range p.Bills {
			bill, err := parseBillEntry(b)
			if err != nil {
				c.logger.Warn("Skipping unparseable bill allocation",
					zap.String("party_name", party.PartyName),
					zap.String("bill_name", b.Name),
					zap.Error(err))
				continue
			}
			party.Bills = append(party.Bills, bill)
		}
		if len(party.Bills) > 0 {
			parties = append(parties, party)
		}
	}
	return parties, nil
}

func (c *Client) buildAllocationsEnvelope() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<ENVELOPE><HEADER><VERSION>1</VERSION><TALLYREQUEST>Export</TALLYREQUEST><TYPE>Collection</TYPE><ID>BillReceivables</ID></HEADER><BODY><DESC><STATICVARIABLES><SVCURRENTCOMPANY>`)
	xmlEscape(&buf, c.cfg.CompanyName)
	buf.WriteString(`</SVCURRENTCOMPANY><SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT></STATICVARIABLES>`)
	buf.WriteString(`<TDL><TDLMESSAGE><COLLECTION NAME="BillReceivables" ISMODIFY="No">`)
	buf.WriteString(`<TYPE>Ledger</TYPE><CHILDOF>$$GroupSundryDebtors</CHILDOF><NATIVEMETHOD>Name</NATIVEMETHOD><NATIVEMETHOD>BillAllocations</NATIVEMETHOD>`)
	buf.WriteString(`</COLLECTION></TDLMESSAGE></TDL></DESC></BODY></ENVELOPE>`)
	return buf.Bytes()
}

func parseBillEntry(b billEntry) (port.LedgerBill, error) {
	billDate, err := time.Parse(tallyDateFormat, strings.TrimSpace(b.BillDate))
	if err != nil {
		return port.LedgerBill{}, fmt.Errorf("bad bill date %q: %w", b.BillDate, err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(b.ClosingBalance))
	if err != nil {
		return port.LedgerBill{}, fmt.Errorf("bad closing balance %q: %w", b.ClosingBalance, err)
	}

	return port.LedgerBill{
		BillName:       strings.TrimSpace(b.Name),
		BillDate:       billDate,
		ClosingBalance: balance.Abs(),
		CreditPeriod:   parseDays(b.CreditPeriod),
		AgeingDays:     parseDays(b.OverdueDays),
	}, nil
}

// parseDays reads Tally duration fields like "30 Days" or a bare number
func parseDays(s string) int {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "Days"))
	var days int
	fmt.Sscanf(s, "%d", &days)
	return days
}
