// Package validation holds the field rules shared by the record services:
// national ID check digit, phone prefixes, name patterns, age and date ranges.
package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/pkg/apperror"
)

var (
	ErrIDNumberFormat   = errors.New("the national ID must contain exactly 10 digits")
	ErrIDNumberInvalid  = errors.New("the national ID is not valid")
	ErrRUCFormat        = errors.New("the RUC must contain exactly 13 digits")
	ErrPhoneFormat      = errors.New("the phone number must contain exactly 10 digits")
	ErrPhonePrefix      = errors.New("the phone number does not belong to a valid area code")
	ErrLettersOnly      = errors.New("the field may only contain letters and spaces")
	ErrUnderage         = errors.New("the person must be at least 18 years old")
	ErrFutureDate       = errors.New("the date cannot be in the future")
	ErrSameDates        = errors.New("the expiry date and the manufacture date cannot be the same")
	ErrExpiryNotAfter   = errors.New("the expiry date must be after the manufacture date")
	ErrShelfLifeTooLong = errors.New("the expiry date is too far from the manufacture date")
	ErrEmailFormat      = errors.New("the email address is not valid")
)

var (
	lettersPattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// phonePrefixes lists the mobile and landline area prefixes accepted for phone numbers.
var phonePrefixes = []string{"09", "02", "03", "04", "05", "06", "07"}

// IDNumber validates a 10-digit national ID using the modulus 10 check digit.
func IDNumber(value string) error {
	if len(value) != 10 || !digitsPattern.MatchString(value) {
		return ErrIDNumberFormat
	}

	coefficients := [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}
	sum := 0
	for i, coef := range coefficients {
		p := int(value[i]-'0') * coef
		if p >= 10 {
			p -= 9
		}
		sum += p
	}

	check := (10 - sum%10) % 10
	if int(value[9]-'0') != check {
		return ErrIDNumberInvalid
	}
	return nil
}

// RUC validates the 13-digit taxpayer number of a company.
func RUC(value string) error {
	if len(value) != 13 || !digitsPattern.MatchString(value) {
		return ErrRUCFormat
	}
	return nil
}

// Phone validates a 10-digit phone number with a known prefix.
func Phone(value string) error {
	if len(value) != 10 || !digitsPattern.MatchString(value) {
		return ErrPhoneFormat
	}
	for _, prefix := range phonePrefixes {
		if strings.HasPrefix(value, prefix) {
			return nil
		}
	}
	return ErrPhonePrefix
}

// Letters validates that value only holds ASCII letters and spaces.
func Letters(value string) error {
	if !lettersPattern.MatchString(value) {
		return ErrLettersOnly
	}
	return nil
}

// Email validates a bare address such as "ana@example.com".
func Email(value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return ErrEmailFormat
	}
	return nil
}

// Adult checks that birthDate is at least 18 years before now.
func Adult(birthDate, now time.Time) error {
	if birthDate.AddDate(18, 0, 0).After(now) {
		return ErrUnderage
	}
	return nil
}

// NotFuture checks that date does not fall after now's calendar day.
func NotFuture(date, now time.Time) error {
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if !date.Before(endOfToday) {
		return ErrFutureDate
	}
	return nil
}

// ExpiryRule selects how expiry and manufacture dates are compared.
type ExpiryRule string

const (
	// ExpiryAfter requires the expiry date to be strictly after the manufacture date.
	ExpiryAfter ExpiryRule = "after"
	// ExpiryDistinct only requires the two dates to differ.
	ExpiryDistinct ExpiryRule = "distinct"
)

// ParseExpiryRule falls back to ExpiryAfter for unknown values.
func ParseExpiryRule(s string) ExpiryRule {
	if ExpiryRule(strings.ToLower(strings.TrimSpace(s))) == ExpiryDistinct {
		return ExpiryDistinct
	}
	return ExpiryAfter
}

// DateRangePolicy validates the manufacture/expiry pair of a product.
type DateRangePolicy struct {
	Rule           ExpiryRule
	MaxShelfLifeYr int
}

// DefaultDateRangePolicy is a strict ordering with a 5 year shelf life.
func DefaultDateRangePolicy() DateRangePolicy {
	return DateRangePolicy{Rule: ExpiryAfter, MaxShelfLifeYr: 5}
}

// Check applies the policy. Shelf life is counted as 365 days per year.
func (p DateRangePolicy) Check(manufactured, expires time.Time) error {
	if expires.Equal(manufactured) {
		return ErrSameDates
	}
	if p.Rule != ExpiryDistinct && expires.Before(manufactured) {
		return ErrExpiryNotAfter
	}

	years := p.MaxShelfLifeYr
	if years <= 0 {
		years = 5
	}
	maxGap := time.Duration(years*365) * 24 * time.Hour
	gap := expires.Sub(manufactured)
	if gap < 0 {
		gap = -gap
	}
	if gap > maxGap {
		return ErrShelfLifeTooLong
	}
	return nil
}

// Errors accumulates per-field failures before any write happens.
type Errors []apperror.FieldError

// Check records err against field when it is non-nil.
func (e *Errors) Check(field string, err error) {
	if err != nil {
		*e = append(*e, apperror.FieldError{Field: field, Message: err.Error()})
	}
}

// Add records a plain message against field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, apperror.FieldError{Field: field, Message: message})
}

// Err returns a validation AppError, or nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperror.NewValidationError(e)
}
