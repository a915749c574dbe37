package valueobject

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fingerprint identifies an invoice submission by content. Two submissions with the
// same invoice number, amount and supplier always share a fingerprint.
type Fingerprint struct {
	value string
}

// NewFingerprint derives the fingerprint of (invoiceNumber, amount, supplier): the
// SHA-256 hex digest of the three fields concatenated in that order, with the amount
// rendered by CanonicalAmount.
func NewFingerprint(invoiceNumber string, amount decimal.Decimal, supplier string) Fingerprint {
	sum := sha256.Sum256([]byte(invoiceNumber + CanonicalAmount(amount) + supplier))
	return Fingerprint{value: hex.EncodeToString(sum[:])}
}

// FingerprintFromString reconstructs a Fingerprint from its hex representation.
func FingerprintFromString(s string) (Fingerprint, error) {
	if len(s) != sha256.Size*2 {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint length: %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint: %w", err)
	}
	return Fingerprint{value: strings.ToLower(s)}, nil
}

// CanonicalAmount renders an amount as plain decimal text without exponent or
// trailing zeros. Integral values keep a single ".0" suffix, so 150000 renders as
// "150000.0" and 1234.50 as "1234.5". Changing this rule changes every fingerprint.
func CanonicalAmount(amount decimal.Decimal) string {
	s := amount.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String returns the hex digest.
func (f Fingerprint) String() string {
	return f.value
}

// IsZero returns true if the Fingerprint has not been set.
func (f Fingerprint) IsZero() bool {
	return f.value == ""
}

// Equal checks equality with another Fingerprint.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.value == other.value
}
