package utils

import (
	"fmt"
	"regexp"
)

var voucherNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/\-]*$`)

// ValidateVoucherNumber checks the voucher number shape used by the billing
// workflow, e.g. "INV-2025/104". The ledger rejects slashes at the start.
func ValidateVoucherNumber(voucherNumber string) error {
	if voucherNumber == "" {
		return fmt.Errorf("voucher number is required")
	}
	if !voucherNumberRegex.MatchString(voucherNumber) {
		return fmt.Errorf("invalid voucher number format: %s", voucherNumber)
	}
	return nil
}

// ValidateChequeNumber checks the cheque leaf number (6 digits on MICR books)
func ValidateChequeNumber(number string) error {
	if number == "" {
		return fmt.Errorf("cheque number is required")
	}
	if len(number) > 20 {
		return fmt.Errorf("cheque number too long: %s", number)
	}
	return nil
}

// SanitizeString removes control characters from user-entered text
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
