package tally

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
)

// tallyDateFormat is the compact date form Tally expects in envelopes
const tallyDateFormat = "20060102"

// importResponse is the relevant subset of Tally's import result envelope
type importResponse struct {
	XMLName   xml.Name `xml:"ENVELOPE"`
	Created   int      `xml:"BODY>DATA>IMPORTRESULT>CREATED"`
	Altered   int      `xml:"BODY>DATA>IMPORTRESULT>ALTERED"`
	Errors    int      `xml:"BODY>DATA>IMPORTRESULT>ERRORS"`
	LineError string   `xml:"BODY>DATA>LINEERROR"`
	LastVchID string   `xml:"BODY>DATA>IMPORTRESULT>LASTVCHID"`
}

// PushCheque imports one cheque receipt voucher into the target book.
// The party ledger is credited and the bank ledger debited; the cheque
// number and date travel in the narration Tally keeps on the voucher.
func (c *Client) PushCheque(ctx context.Context, push port.ChequePush) (*port.PushResult, error) {
	envelope := c.buildVoucherEnvelope(push)

	body, err := c.post(ctx, envelope)
	if err != nil {
		return nil, err
	}

	var result importResponse
	if err := xml.Unmarshal(body, &result); err != nil {
		c.logger.Error("Failed to parse tally import response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse tally import response: %w", err)
	}

	if result.Errors > 0 || (result.Created == 0 && result.Altered == 0) {
		reason := strings.TrimSpace(result.LineError)
		if reason == "" {
			reason = "tally rejected the voucher"
		}
		c.logger.Warn("Tally rejected cheque voucher",
			zap.String("party_name", push.PartyName),
			zap.String("reason", reason))
		return &port.PushResult{Success: false, Error: reason}, nil
	}

	voucherID := strings.TrimSpace(result.LastVchID)
	if voucherID == "" {
		voucherID = fmt.Sprintf("%s/%s", push.TargetBook, push.Number)
	}

	c.logger.Info("Cheque voucher imported",
		zap.String("party_name", push.PartyName),
		zap.String("voucher_id", voucherID))
	return &port.PushResult{Success: true, VoucherID: voucherID}, nil
}

func (c *Client) buildVoucherEnvelope(push port.ChequePush) []byte {
	narration := push.Narration
	if narration == "" {
		narration = fmt.Sprintf("Chq %s dt %s", push.Number, push.Date.Format("02-Jan-2006"))
	}
	amount := push.Amount.StringFixed(2)

	var buf bytes.Buffer
	buf.WriteString(`<ENVELOPE><HEADER><TALLYREQUEST>Import Data</TALLYREQUEST></HEADER><BODY><IMPORTDATA><REQUESTDESC><REPORTNAME>Vouchers</REPORTNAME><STATICVARIABLES><SVCURRENTCOMPANY>`)
	xmlEscape(&buf, c.cfg.CompanyName)
	buf.WriteString(`</SVCURRENTCOMPANY></STATICVARIABLES></REQUESTDESC><REQUESTDATA><TALLYMESSAGE>`)
	buf.WriteString(`<VOUCHER VCHTYPE="`)
	xmlEscape(&buf, push.TargetBook)
	buf.WriteString(`" ACTION="Create"><DATE>`)
	buf.WriteString(push.Date.Format(tallyDateFormat))
	buf.WriteString(`</DATE><VOUCHERTYPENAME>`)
	xmlEscape(&buf, push.TargetBook)
	buf.WriteString(`</VOUCHERTYPENAME><PARTYLEDGERNAME>`)
	xmlEscape(&buf, push.PartyName)
	buf.WriteString(`</PARTYLEDGERNAME><NARRATION>`)
	xmlEscape(&buf, narration)
	buf.WriteString(`</NARRATION>`)

	// Credit the party, debit the bank. Tally signs credits negative.
	buf.WriteString(`<ALLLEDGERENTRIES.LIST><LEDGERNAME>`)
	xmlEscape(&buf, push.PartyName)
	buf.WriteString(`</LEDGERNAME><ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE><AMOUNT>`)
	buf.WriteString(amount)
	buf.WriteString(`</AMOUNT></ALLLEDGERENTRIES.LIST>`)
	buf.WriteString(`<ALLLEDGERENTRIES.LIST><LEDGERNAME>`)
	xmlEscape(&buf, push.BankLedger)
	buf.WriteString(`</LEDGERNAME><ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE><AMOUNT>-`)
	buf.WriteString(amount)
	buf.WriteString(`</AMOUNT></ALLLEDGERENTRIES.LIST>`)

	buf.WriteString(`</VOUCHER></TALLYMESSAGE></REQUESTDATA></IMPORTDATA></BODY></ENVELOPE>`)
	return buf.Bytes()
}

func xmlEscape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
