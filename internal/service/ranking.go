package service

import (
	"sort"
	"sync"

	"telegram-lottery-bot/internal/ledger"
	"telegram-lottery-bot/internal/model"
)

// RankingService serves the balance leaderboard. The sorted order is
// cached and only rebuilt when the ledger reports a mutation since the
// last build, so repeated /top calls on a quiet ledger cost one flag read.
type RankingService struct {
	ledger *ledger.Ledger

	mu     sync.Mutex
	sorted []*model.LedgerRecord
}

// NewRankingService creates a RankingService over the given ledger.
func NewRankingService(l *ledger.Ledger) *RankingService {
	return &RankingService{ledger: l}
}

// Top returns the highest balances in descending order, at most limit
// entries. Ties break on ascending user ID for a stable order.
func (s *RankingService) Top(limit int) []*model.LedgerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger.ConsumeDirty() {
		snap := s.ledger.Snapshot()
		s.sorted = make([]*model.LedgerRecord, 0, len(snap))
		for _, rec := range snap {
			s.sorted = append(s.sorted, rec)
		}
		sort.Slice(s.sorted, func(i, j int) bool {
			if s.sorted[i].Balance != s.sorted[j].Balance {
				return s.sorted[i].Balance > s.sorted[j].Balance
			}
			return s.sorted[i].UserID < s.sorted[j].UserID
		})
	}

	if limit <= 0 || limit > len(s.sorted) {
		limit = len(s.sorted)
	}
	return s.sorted[:limit]
}

// Rank returns the user's 1-based leaderboard position, or 0 when the
// user has no record.
func (s *RankingService) Rank(userID int64) int {
	for i, rec := range s.Top(0) {
		if rec.UserID == userID {
			return i + 1
		}
	}
	return 0
}
