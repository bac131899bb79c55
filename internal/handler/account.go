// Package handler provides Telegram bot command handlers.
package handler

import (
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"telegram-lottery-bot/internal/service"
)

// hms decomposes a duration into hours, minutes and seconds for display.
func hms(d time.Duration) (hours, minutes, seconds int) {
	total := int(d / time.Second)
	return total / 3600, (total / 60) % 60, total % 60
}

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accounts *service.AccountService
	ranking  *service.RankingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService, ranking *service.RankingService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		ranking:  ranking,
	}
}

// displayName picks the best available name for a sender.
func displayName(sender *tele.User) string {
	if sender.FirstName != "" {
		return sender.FirstName
	}
	return sender.Username
}

// HandleStart handles the /start command.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	rec := h.accounts.EnsureUser(sender.ID, displayName(sender))

	return c.Reply(fmt.Sprintf(
		"🎰 Welcome, %s!\n\n"+
			"Balance: %d coins\n\n"+
			"Commands:\n"+
			"/daily - claim your daily reward\n"+
			"/balance - show your balance\n"+
			"/my - show your full record\n"+
			"/top - leaderboard\n"+
			"/bet <amount> - coin flip\n"+
			"/slot <amount> - slot machine\n"+
			"/ttt, /c4, /lo - board games\n"+
			"/playing - current game, /giveup - abandon it",
		displayName(sender), rec.Balance,
	))
}

// HandleBalance handles the /balance command.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	rec := h.accounts.EnsureUser(sender.ID, displayName(sender))
	return c.Reply(fmt.Sprintf("💰 Balance: %d coins", rec.Balance))
}

// HandleMy handles the /my command, showing the full record.
func (h *AccountHandler) HandleMy(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	rec := h.accounts.EnsureUser(sender.ID, displayName(sender))
	rank := h.ranking.Rank(sender.ID)

	return c.Reply(fmt.Sprintf(
		"📊 %s\n"+
			"━━━━━━━━━━━━━━━\n"+
			"💰 Balance: %d coins (rank #%d)\n"+
			"🔥 Claim streak: %d\n"+
			"🪙 Flips: %d won / %d lost (all-in %d/%d)\n"+
			"🎰 Slots: %d won / %d lost (all-in %d/%d)\n"+
			"━━━━━━━━━━━━━━━",
		displayName(sender),
		rec.Balance, rank,
		rec.Streak,
		rec.Bet.Won, rec.Bet.Lost, rec.Bet.AllInWon, rec.Bet.AllInLost,
		rec.Slot.Won, rec.Slot.Lost, rec.Slot.AllInWon, rec.Slot.AllInLost,
	))
}

// HandleDaily handles the /daily command.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.accounts.EnsureUser(sender.ID, displayName(sender))

	res, err := h.accounts.ClaimDaily(sender.ID)
	if err != nil {
		var tooSoon *service.ClaimTooSoonError
		if errors.As(err, &tooSoon) {
			hours, minutes, seconds := hms(tooSoon.Wait)
			return c.Reply(fmt.Sprintf(
				"⏰ Already claimed. Come back in %dh %dm %ds.",
				hours, minutes, seconds,
			))
		}
		return c.Reply("❌ Claim failed, try again later")
	}

	msg := fmt.Sprintf("✅ +%d coins! Streak: %d days. Balance: %d",
		res.Credit, res.Streak, res.Balance)
	switch {
	case res.Yearly:
		msg += "\n🎆 One year streak bonus!"
	case res.Monthly:
		msg += "\n🎁 Monthly streak bonus!"
	case res.Weekly:
		msg += "\n🎉 Weekly streak bonus!"
	}
	return c.Reply(msg)
}

// HandleTop handles the /top command.
func (h *AccountHandler) HandleTop(c tele.Context) error {
	top := h.ranking.Top(10)
	if len(top) == 0 {
		return c.Reply("📊 No records yet")
	}

	msg := "🏆 TOP 10\n━━━━━━━━━━━━━━━\n"
	medals := []string{"🥇", "🥈", "🥉"}
	for i, rec := range top {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}

		name := rec.DisplayName
		if name == "" {
			name = fmt.Sprintf("User%d", rec.UserID)
		}
		msg += fmt.Sprintf("%s %s: %d\n", rank, name, rec.Balance)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}
