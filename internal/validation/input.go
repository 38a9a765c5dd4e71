package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field limits, matching the column sizes in migrations.
const (
	MaxTitleLength         = 200
	MaxNameLength          = 100
	MaxBankFieldLength     = 100
	MaxAccountNumberLength = 20
	MaxEmailLength         = 254
	MaxVerifierLength      = 100
	MaxProofLength         = 255
	// MaxNumberOfPeople keeps number_of_people inside the INTEGER column.
	MaxNumberOfPeople = 100000
)

// ErrInvalidPhone is returned for phone numbers outside the accepted formats.
var ErrInvalidPhone = errors.New("Invalid phone number format. Use: 08012345678")

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
)

// NormalizePhone strips spaces and hyphens and accepts Nigerian numbers
// written as 0XXXXXXXXXX, +234XXXXXXXXXX or 234XXXXXXXXXX. Every accepted
// spelling is returned in the local 0XXXXXXXXXX form so one subscriber maps
// to one stored phone.
func NormalizePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(raw)

	var national string
	switch {
	case strings.HasPrefix(phone, "+234") && len(phone) == 14:
		national = phone[4:]
	case strings.HasPrefix(phone, "234") && len(phone) == 13:
		national = phone[3:]
	case strings.HasPrefix(phone, "0") && len(phone) == 11:
		national = phone[1:]
	}
	if national == "" || !digitsRegex.MatchString(national) {
		return "", ErrInvalidPhone
	}
	return "0" + national, nil
}

// ValidateEmail accepts an empty value; anything else must look like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return fmt.Errorf("Enter a valid email address")
	}
	return nil
}

// ValidateLength checks the rune length of value against [min, max].
// A zero bound is not checked.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		if min == 1 {
			return fmt.Errorf("%s is required", fieldName)
		}
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonNegative rejects amounts below zero.
func ValidateNonNegative(fieldName string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

// ValidatePositive rejects zero and negative amounts.
func ValidatePositive(fieldName string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s must be greater than zero", fieldName)
	}
	return nil
}

// Errors collects per-field messages; the first message per field wins.
type Errors map[string]string

// Add records err under field when err is non-nil.
func (e Errors) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := e[field]; !exists {
		e[field] = err.Error()
	}
}

// Empty reports whether no error was recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}
