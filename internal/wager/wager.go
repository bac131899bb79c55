// Package wager validates requested wager amounts against a user's balance
// and the configured bounds. Validation is pure: it never touches the
// ledger, callers pass the current balance in.
package wager

import (
	"errors"
	"fmt"
	"strconv"
)

// Default wager bounds.
const (
	DefaultMin int64 = 1
	DefaultMax int64 = 1000000
)

// AllKeyword is the command argument that wagers the entire balance.
const AllKeyword = "all"

// Validation failures, in the order they are checked.
var (
	ErrNotANumber   = errors.New("wager is not a number")
	ErrBelowMinimum = errors.New("wager is below the minimum")
	ErrAboveMaximum = errors.New("wager exceeds the maximum")
	ErrAboveBalance = errors.New("you don't have enough")
)

// Limits are the wager bounds in force.
type Limits struct {
	Min int64
	Max int64
}

// DefaultLimits returns the standard wager bounds.
func DefaultLimits() Limits {
	return Limits{Min: DefaultMin, Max: DefaultMax}
}

// Validate parses and checks a requested wager against the user's balance.
// The literal "all" wagers the entire balance. Failures are reported in
// priority order: not a number, below minimum, above maximum, above balance.
func Validate(raw string, balance int64, lim Limits) (int64, error) {
	var amount int64
	if raw == AllKeyword {
		amount = balance
	} else {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
		}
		amount = parsed
	}

	if amount < lim.Min {
		return 0, fmt.Errorf("%w: minimum is %d", ErrBelowMinimum, lim.Min)
	}
	if amount > lim.Max {
		return 0, fmt.Errorf("%w: maximum is %d", ErrAboveMaximum, lim.Max)
	}
	if amount > balance {
		return 0, fmt.Errorf("%w: balance is %d", ErrAboveBalance, balance)
	}

	return amount, nil
}

// IsAllIn reports whether a validated wager stakes the entire balance.
func IsAllIn(amount, balance int64) bool {
	return amount == balance
}
