// Package streak implements the daily claim clock: cooldown enforcement,
// streak continuation, and the weekly/monthly/yearly bonus tiers. All
// functions are pure over explicit timestamps so claims are testable at any
// point in time.
package streak

import "time"

const (
	// CooldownSeconds is the minimum gap between successful claims.
	CooldownSeconds int64 = 24 * 60 * 60
	// BreakSeconds is the gap after which the streak resets to 1.
	BreakSeconds int64 = 2 * 24 * 60 * 60
)

// Bonus tier periods, evaluated against the new streak value.
const (
	WeeklyPeriod  = 7
	MonthlyPeriod = 30
	YearlyPeriod  = 365
)

// Rewards holds the credit granted per tier.
type Rewards struct {
	Daily   int64
	Weekly  int64
	Monthly int64
	Yearly  int64
}

// DefaultRewards returns the standard reward amounts.
func DefaultRewards() Rewards {
	return Rewards{Daily: 100, Weekly: 100, Monthly: 500, Yearly: 10000}
}

// Result is the outcome of evaluating a claim attempt.
type Result struct {
	// Granted reports whether the claim succeeds.
	Granted bool
	// Wait is the remaining cooldown when the claim is denied.
	Wait time.Duration
	// NewStreak is the streak after a granted claim.
	NewStreak int
	// Weekly, Monthly and Yearly report which bonus tiers the new streak
	// hits. Tiers are independent and may co-occur.
	Weekly  bool
	Monthly bool
	Yearly  bool
	// Credit is the total amount to add to the balance: the daily reward
	// plus every bonus tier hit. Zero when denied.
	Credit int64
}

// WaitHMS decomposes the remaining cooldown into hours, minutes and
// seconds for display.
func (r Result) WaitHMS() (hours, minutes, seconds int) {
	total := int(r.Wait / time.Second)
	return total / 3600, (total / 60) % 60, total % 60
}

// Evaluate decides a claim attempt at the given instant.
//
// A claim within CooldownSeconds of the previous one is denied with the
// remaining wait. Otherwise the claim is granted: the streak continues
// (+1) when the gap stayed under BreakSeconds and restarts at 1 when it
// did not. lastClaim of 0 means the user never claimed.
func Evaluate(now, lastClaim int64, currentStreak int, rw Rewards) Result {
	elapsed := now - lastClaim
	if lastClaim != 0 && elapsed < CooldownSeconds {
		return Result{
			Wait: time.Duration(CooldownSeconds-elapsed) * time.Second,
		}
	}

	newStreak := currentStreak + 1
	if lastClaim == 0 || elapsed >= BreakSeconds {
		newStreak = 1
	}

	res := Result{
		Granted:   true,
		NewStreak: newStreak,
		Weekly:    newStreak%WeeklyPeriod == 0,
		Monthly:   newStreak%MonthlyPeriod == 0,
		Yearly:    newStreak%YearlyPeriod == 0,
	}

	res.Credit = rw.Daily
	if res.Weekly {
		res.Credit += rw.Weekly
	}
	if res.Monthly {
		res.Credit += rw.Monthly
	}
	if res.Yearly {
		res.Credit += rw.Yearly
	}

	return res
}
