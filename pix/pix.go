// Package pix builds static PIX "copia e cola" payment codes in the
// EMVCo BR Code format used by Brazilian banking apps.
//
// Values are carried in ID+LENGTH+VALUE fields with two-digit decimal
// lengths and no escaping. A payee name or description that itself
// contains digit runs shaped like a field header is emitted as-is; a
// strict parser may desynchronize on such input. This matches how the
// format is used in the wild and is a known limitation of the encoding,
// not something this package tries to repair.
package pix

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxNameLen = 25
	maxCityLen = 15
	maxTxIDLen = 25

	gui = "BR.GOV.BCB.PIX"
)

var (
	ErrEmptyKey       = errors.New("pix: payee key is empty")
	ErrNegativeAmount = errors.New("pix: amount is negative")
)

// Charge holds everything needed to encode one static charge.
type Charge struct {
	Key         string // payee key: tax id, phone, e-mail or EVP
	Amount      decimal.Decimal
	Name        string // payee name, truncated to 25 chars
	City        string // payee city, truncated to 15 chars
	TxID        string // reference label, truncated to 25 chars
	Description string // optional free text shown by the payer's app
}

// Payload encodes the charge as a BR Code string ending in the four
// uppercase hex digits of its CRC-16 checksum. Encoding is pure: the
// same charge always yields the same string.
func (c Charge) Payload() (string, error) {
	if strings.TrimSpace(c.Key) == "" {
		return "", ErrEmptyKey
	}
	if c.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}

	account := emv("00", gui) + emv("01", c.Key)
	if c.Description != "" {
		account += emv("02", c.Description)
	}

	payload := emv("00", "01") +
		emv("26", account) +
		emv("52", "0000") +
		emv("53", "986") +
		emv("54", c.Amount.StringFixed(2)) +
		emv("58", "BR") +
		emv("59", fixed(c.Name, maxNameLen)) +
		emv("60", fixed(c.City, maxCityLen)) +
		emv("62", emv("05", truncate(c.TxID, maxTxIDLen))) +
		"6304"

	return fmt.Sprintf("%s%04X", payload, checksum([]byte(payload))), nil
}

// emv renders one ID+LENGTH+VALUE field. Lengths above 99 cannot be
// represented; charge fields are truncated well below that.
func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// fixed upper-cases and space-pads the value to exactly n chars.
func fixed(s string, n int) string {
	s = truncate(strings.ToUpper(s), n)
	for pad := n - utf8.RuneCountInString(s); pad > 0; pad-- {
		s += " "
	}
	return s
}

// truncate cuts to n chars on a rune boundary, so an accented name is
// never sliced mid-encoding.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
