// Package service provides business logic over the ledger.
package service

import (
	"fmt"
	"time"

	"telegram-lottery-bot/internal/ledger"
	"telegram-lottery-bot/internal/model"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/streak"
)

// ClaimTooSoonError is returned when the daily claim cooldown has not
// elapsed; it carries the remaining wait for display.
type ClaimTooSoonError struct {
	Wait time.Duration
}

func (e *ClaimTooSoonError) Error() string {
	return fmt.Sprintf("claim cooldown not elapsed, %s remaining", e.Wait)
}

// ClaimResult reports a granted daily claim.
type ClaimResult struct {
	Streak  int
	Credit  int64
	Balance int64
	Weekly  bool
	Monthly bool
	Yearly  bool
}

// AccountService handles user record access and the daily claim.
type AccountService struct {
	ledger  *ledger.Ledger
	locks   *lock.UserLock
	rewards streak.Rewards
	// now is replaceable for tests.
	now func() int64
}

// NewAccountService creates an AccountService with the given reward tiers.
func NewAccountService(l *ledger.Ledger, locks *lock.UserLock, rewards streak.Rewards) *AccountService {
	return &AccountService{
		ledger:  l,
		locks:   locks,
		rewards: rewards,
		now:     func() int64 { return time.Now().Unix() },
	}
}

// EnsureUser makes sure the user has a ledger record and caches the given
// display name. Returns the record.
func (s *AccountService) EnsureUser(userID int64, displayName string) *model.LedgerRecord {
	s.ledger.SetName(userID, displayName)
	return s.ledger.Get(userID)
}

// GetRecord returns a copy of the user's full record.
func (s *AccountService) GetRecord(userID int64) *model.LedgerRecord {
	return s.ledger.Get(userID)
}

// ClaimDaily attempts the daily claim. The eligibility check and the
// ledger update run under the user's lock, so two concurrent claims cannot
// both be granted. Fails with ClaimTooSoonError inside the cooldown.
func (s *AccountService) ClaimDaily(userID int64) (*ClaimResult, error) {
	var result *ClaimResult
	err := s.locks.WithLock(userID, func() error {
		rec := s.ledger.Get(userID)
		now := s.now()

		res := streak.Evaluate(now, rec.LastClaimAt, rec.Streak, s.rewards)
		if !res.Granted {
			return &ClaimTooSoonError{Wait: res.Wait}
		}

		balance := s.ledger.ApplyClaim(userID, now, res.NewStreak, res.Credit)
		result = &ClaimResult{
			Streak:  res.NewStreak,
			Credit:  res.Credit,
			Balance: balance,
			Weekly:  res.Weekly,
			Monthly: res.Monthly,
			Yearly:  res.Yearly,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
