package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// ErrInvalidMonth is returned when a month is not in YYYY-MM form.
var ErrInvalidMonth = errors.New("month must be in YYYY-MM format")

// ErrInvalidAmount is returned when an amount is not a positive number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form and
// returns it trimmed.
func ValidateDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return s, nil
}

// ValidateMonth checks that s is a YYYY-MM month and returns it trimmed.
func ValidateMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return s, nil
}

// ValidateAmount parses s as a positive amount of money.
func ValidateAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	return amount, nil
}
