// Property-based tests for the claim clock.
package streak

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestClaimEligibilityProperty checks that a claim is granted exactly when
// the user never claimed or the cooldown elapsed, and that denials report
// the precise remaining wait.
func TestClaimEligibilityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := rapid.Int64Range(1000000000, 2000000000).Draw(t, "now")
		lastClaim := rapid.OneOf(
			rapid.Just(int64(0)),
			rapid.Int64Range(now-3*CooldownSeconds, now),
		).Draw(t, "lastClaim")
		streak := rapid.IntRange(0, 400).Draw(t, "streak")

		res := Evaluate(now, lastClaim, streak, DefaultRewards())

		elapsed := now - lastClaim
		wantGranted := lastClaim == 0 || elapsed >= CooldownSeconds
		if res.Granted != wantGranted {
			t.Fatalf("granted=%v, want %v (elapsed=%d)", res.Granted, wantGranted, elapsed)
		}

		if !res.Granted {
			want := time.Duration(CooldownSeconds-elapsed) * time.Second
			if res.Wait != want {
				t.Fatalf("wait=%v, want %v", res.Wait, want)
			}
			if res.Credit != 0 || res.NewStreak != 0 {
				t.Fatalf("denied claim carries credit=%d streak=%d", res.Credit, res.NewStreak)
			}
		}
	})
}

// TestStreakTransitionProperty checks that a granted claim either continues
// the streak by exactly one or restarts it at one, and never anything else.
func TestStreakTransitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := rapid.Int64Range(1000000000, 2000000000).Draw(t, "now")
		gap := rapid.Int64Range(CooldownSeconds, 10*CooldownSeconds).Draw(t, "gap")
		streak := rapid.IntRange(0, 400).Draw(t, "streak")

		res := Evaluate(now, now-gap, streak, DefaultRewards())
		if !res.Granted {
			t.Fatalf("claim with gap %d should be granted", gap)
		}

		if gap >= BreakSeconds {
			if res.NewStreak != 1 {
				t.Fatalf("broken streak should restart at 1, got %d", res.NewStreak)
			}
		} else if res.NewStreak != streak+1 {
			t.Fatalf("continued streak should be %d, got %d", streak+1, res.NewStreak)
		}
	})
}

// TestBonusSumProperty checks that the credit is always the daily reward
// plus the sum of exactly the tiers the new streak hits.
func TestBonusSumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := rapid.Int64Range(1000000000, 2000000000).Draw(t, "now")
		streak := rapid.IntRange(0, 1000).Draw(t, "streak")
		rw := Rewards{
			Daily:   rapid.Int64Range(1, 1000).Draw(t, "daily"),
			Weekly:  rapid.Int64Range(1, 1000).Draw(t, "weekly"),
			Monthly: rapid.Int64Range(1, 1000).Draw(t, "monthly"),
			Yearly:  rapid.Int64Range(1, 1000).Draw(t, "yearly"),
		}

		res := Evaluate(now, now-90000, streak, rw)
		if !res.Granted {
			t.Fatalf("claim 25h after last should be granted")
		}

		want := rw.Daily
		if res.NewStreak%WeeklyPeriod == 0 {
			want += rw.Weekly
		}
		if res.NewStreak%MonthlyPeriod == 0 {
			want += rw.Monthly
		}
		if res.NewStreak%YearlyPeriod == 0 {
			want += rw.Yearly
		}
		if res.Credit != want {
			t.Fatalf("credit=%d, want %d (streak=%d)", res.Credit, want, res.NewStreak)
		}
	})
}
