package handler

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/game/bet"
	"telegram-lottery-bot/internal/game/slot"
	"telegram-lottery-bot/internal/model"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/resolver"
	"telegram-lottery-bot/internal/service"
	"telegram-lottery-bot/internal/session"
	"telegram-lottery-bot/internal/wager"
)

// GameHandler handles the wagering games: single-message rounds that
// validate the wager, play and settle in one critical section.
type GameHandler struct {
	accounts *service.AccountService
	sessions *session.Registry
	resolver *resolver.Resolver
	registry *game.Registry
	locks    *lock.UserLock
	limits   wager.Limits
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	accounts *service.AccountService,
	sessions *session.Registry,
	res *resolver.Resolver,
	registry *game.Registry,
	locks *lock.UserLock,
	limits wager.Limits,
) *GameHandler {
	return &GameHandler{
		accounts: accounts,
		sessions: sessions,
		resolver: res,
		registry: registry,
		locks:    locks,
		limits:   limits,
	}
}

// wagerArg extracts the wager argument from the command text.
func wagerArg(c tele.Context) string {
	args := c.Args()
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}

// replyWagerError maps wager validation failures to user messages.
func replyWagerError(c tele.Context, err error, lim wager.Limits) error {
	switch {
	case errors.Is(err, wager.ErrNotANumber):
		return c.Reply("❌ Wager must be a number, or \"all\"")
	case errors.Is(err, wager.ErrBelowMinimum):
		return c.Reply(fmt.Sprintf("❌ Minimum wager is %d", lim.Min))
	case errors.Is(err, wager.ErrAboveMaximum):
		return c.Reply(fmt.Sprintf("❌ Maximum wager is %d", lim.Max))
	case errors.Is(err, wager.ErrAboveBalance):
		return c.Reply("❌ You don't have enough coins")
	default:
		return c.Reply("❌ Invalid wager")
	}
}

// replyAlreadyPlaying tells the user which game blocks a new one.
func replyAlreadyPlaying(c tele.Context, err error) (bool, error) {
	var playing *session.AlreadyPlayingError
	if errors.As(err, &playing) {
		return true, c.Reply(fmt.Sprintf(
			"🚫 You are already playing %s. Finish it or /giveup first.",
			playing.Kind,
		))
	}
	return false, nil
}

// HandleBet handles the /bet command: one 50/50 coin flip for the wager.
func (h *GameHandler) HandleBet(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)

	rec := h.accounts.EnsureUser(sender.ID, displayName(sender))

	amount, err := wager.Validate(wagerArg(c), rec.Balance, h.limits)
	if err != nil {
		return replyWagerError(c, err, h.limits)
	}
	allIn := wager.IsAllIn(amount, rec.Balance)

	g := bet.New()
	if _, err := h.sessions.TryStart(sender.ID, g, amount, allIn); err != nil {
		if handled, rerr := replyAlreadyPlaying(c, err); handled {
			return rerr
		}
		return err
	}

	g.Play()
	st, err := h.resolver.ResolveLocked(sender.ID, g.Outcome())
	if err != nil {
		return c.Reply("❌ Something went wrong settling the round")
	}

	if st.Outcome == model.OutcomeWon {
		msg := fmt.Sprintf("🪙 Heads! You win %d coins. Balance: %d", amount, st.Balance)
		if allIn {
			msg += "\n💎 All-in double-up!"
		}
		return c.Reply(msg)
	}

	msg := fmt.Sprintf("🪙 Tails! You lose %d coins. Balance: %d", amount, st.Balance)
	if allIn {
		msg += "\n💀 All-in wipeout."
	}
	return c.Reply(msg)
}

// HandleSlot handles the /slot command: three reels, 3 matches win, a pair
// pushes, no match loses.
func (h *GameHandler) HandleSlot(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)

	rec := h.accounts.EnsureUser(sender.ID, displayName(sender))

	amount, err := wager.Validate(wagerArg(c), rec.Balance, h.limits)
	if err != nil {
		return replyWagerError(c, err, h.limits)
	}
	allIn := wager.IsAllIn(amount, rec.Balance)

	g := slot.New()
	if _, err := h.sessions.TryStart(sender.ID, g, amount, allIn); err != nil {
		if handled, rerr := replyAlreadyPlaying(c, err); handled {
			return rerr
		}
		return err
	}

	g.Spin()
	st, err := h.resolver.ResolveLocked(sender.ID, g.Outcome())
	if err != nil {
		return c.Reply("❌ Something went wrong settling the round")
	}

	reels := g.Render()
	switch st.Outcome {
	case model.OutcomeWon:
		msg := fmt.Sprintf("🎰 [ %s ]\n🎉 Jackpot! +%d coins. Balance: %d", reels, amount, st.Balance)
		if allIn {
			msg += "\n💎 All-in double-up!"
		}
		return c.Reply(msg)
	case model.OutcomeDrawn:
		return c.Reply(fmt.Sprintf("🎰 [ %s ]\n😮 Pair - wager returned. Balance: %d", reels, st.Balance))
	default:
		msg := fmt.Sprintf("🎰 [ %s ]\n😢 No match. -%d coins. Balance: %d", reels, amount, st.Balance)
		if allIn {
			msg += "\n💀 All-in wipeout."
		}
		return c.Reply(msg)
	}
}

// HandleGames handles the /games command, listing everything registered.
func (h *GameHandler) HandleGames(c tele.Context) error {
	launchers := h.registry.List()
	if len(launchers) == 0 {
		return c.Reply("No games available")
	}

	msg := "🎮 Games\n━━━━━━━━━━━━━━━\n"
	for _, l := range launchers {
		msg += fmt.Sprintf("/%s - %s\n", l.Command(), l.Description())
	}
	return c.Reply(msg)
}
