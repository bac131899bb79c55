// Package model defines the data models for the Telegram lottery bot.
package model

// GameKind identifies a mini-game.
type GameKind string

// Supported game kinds.
const (
	KindBet         GameKind = "bet"
	KindSlot        GameKind = "slot"
	KindTicTacToe   GameKind = "tictactoe"
	KindConnectFour GameKind = "connectfour"
	KindLightsOut   GameKind = "lightsout"
)

// GameFamily identifies a wagering game family for win/loss bookkeeping.
// Board mini-games do not belong to a family and leave the counters alone.
type GameFamily string

// Wagering game families.
const (
	FamilyBet  GameFamily = "bet"
	FamilySlot GameFamily = "slot"
)

// FamilyOf returns the wagering family of a game kind, or "" if the kind
// carries no win/loss counters.
func FamilyOf(kind GameKind) GameFamily {
	switch kind {
	case KindBet:
		return FamilyBet
	case KindSlot:
		return FamilySlot
	default:
		return ""
	}
}

// Outcome is the terminal result of a game session.
type Outcome int

// Terminal outcomes.
const (
	OutcomeWon Outcome = iota
	OutcomeLost
	OutcomeDrawn
	OutcomeAbandoned
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeDrawn:
		return "drawn"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Tally holds the win/loss counters of one wagering game family.
// Counters only ever increase.
type Tally struct {
	Won       int `json:"won"`
	Lost      int `json:"lost"`
	AllInWon  int `json:"all_in_won"`
	AllInLost int `json:"all_in_lost"`
}

// Record increments the counters for one finished game.
func (t *Tally) Record(won, allIn bool) {
	if won {
		t.Won++
		if allIn {
			t.AllInWon++
		}
	} else {
		t.Lost++
		if allIn {
			t.AllInLost++
		}
	}
}

// LedgerRecord is the durable per-user economic state. The JSON tags define
// the persisted shape; it must round-trip field-for-field across save/load.
type LedgerRecord struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
	Bet         Tally  `json:"bet"`
	Slot        Tally  `json:"slot"`
	LastClaimAt int64  `json:"last_claim_at"` // epoch seconds, 0 = never claimed
	Streak      int    `json:"streak"`
}

// NewLedgerRecord returns a zero-initialized record for a user.
func NewLedgerRecord(userID int64) *LedgerRecord {
	return &LedgerRecord{UserID: userID}
}

// Tally returns the counter set of the given family, or nil for kinds
// outside the wagering families.
func (r *LedgerRecord) Tally(family GameFamily) *Tally {
	switch family {
	case FamilyBet:
		return &r.Bet
	case FamilySlot:
		return &r.Slot
	default:
		return nil
	}
}

// Clone returns a copy of the record. Callers outside the ledger only ever
// see clones, never the live record.
func (r *LedgerRecord) Clone() *LedgerRecord {
	c := *r
	return &c
}
