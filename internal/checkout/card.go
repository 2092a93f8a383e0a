package checkout

import (
	"strings"
	"unicode"

	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
)

// CardInput carries the mock card form fields. Nothing here is stored.
type CardInput struct {
	Number string
	Expiry string
	CVV    string
	Name   string
}

// FormatCardNumber groups digits in blocks of four, capped at 16 digits.
func FormatCardNumber(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry normalizes raw input into MM/YY.
func FormatExpiry(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func validateCard(input CardInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cardholder name is required")
	}

	number := digitsOnly(input.Number)
	if len(number) != 16 {
		return pkgerrors.New(pkgerrors.CodeValidation, "card number must have 16 digits")
	}

	expiry := strings.TrimSpace(input.Expiry)
	if len(expiry) != 5 || expiry[2] != '/' {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiry must be MM/YY")
	}
	month := expiry[:2]
	year := expiry[3:]
	if digitsOnly(month) != month || digitsOnly(year) != year {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiry must be MM/YY")
	}
	if month < "01" || month > "12" {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiry month must be between 01 and 12")
	}

	cvv := digitsOnly(input.CVV)
	if cvv != strings.TrimSpace(input.CVV) || len(cvv) < 3 || len(cvv) > 4 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cvv must have 3 or 4 digits")
	}

	return nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
