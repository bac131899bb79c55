package handler

import (
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/game/connectfour"
	"telegram-lottery-bot/internal/game/lightsout"
	"telegram-lottery-bot/internal/game/tictactoe"
	"telegram-lottery-bot/internal/model"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/resolver"
	"telegram-lottery-bot/internal/service"
	"telegram-lottery-bot/internal/session"
)

// MiniGameHandler handles the unwagered board games: tic-tac-toe, connect
// four and lights-out. One command both starts a game (no arguments) and
// plays a move (with arguments), so a game is a sequence of invocations of
// the same command.
type MiniGameHandler struct {
	accounts *service.AccountService
	sessions *session.Registry
	resolver *resolver.Resolver
	locks    *lock.UserLock
}

// NewMiniGameHandler creates a new MiniGameHandler.
func NewMiniGameHandler(
	accounts *service.AccountService,
	sessions *session.Registry,
	res *resolver.Resolver,
	locks *lock.UserLock,
) *MiniGameHandler {
	return &MiniGameHandler{
		accounts: accounts,
		sessions: sessions,
		resolver: res,
		locks:    locks,
	}
}

// intArgs parses the command arguments as integers.
func intArgs(c tele.Context) ([]int, bool) {
	args := c.Args()
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// start begins a fresh unwagered session, or reports the blocking one.
func (h *MiniGameHandler) start(c tele.Context, userID int64, g game.MiniGame, intro string) error {
	if _, err := h.sessions.TryStart(userID, g, 0, false); err != nil {
		if handled, rerr := replyAlreadyPlaying(c, err); handled {
			return rerr
		}
		return err
	}
	return c.Reply(intro)
}

// requireGame fetches the user's session of the wanted kind, mapping the
// failure modes to user messages. The bool reports whether a reply was
// already sent.
func (h *MiniGameHandler) requireGame(c tele.Context, userID int64, kind model.GameKind) (*session.Session, bool, error) {
	s, err := h.sessions.Require(userID, kind)
	if err == nil {
		return s, false, nil
	}

	if errors.Is(err, session.ErrNoActiveSession) {
		return nil, true, c.Reply("❌ No game in progress - start one first")
	}
	var wrong *session.WrongGameKindError
	if errors.As(err, &wrong) {
		return nil, true, c.Reply(fmt.Sprintf(
			"🚫 You are playing %s. Finish it or /giveup first.", wrong.Actual,
		))
	}
	return nil, false, err
}

// finish settles a terminal board game and reports the result.
func (h *MiniGameHandler) finish(c tele.Context, userID int64, board string, outcome model.Outcome) error {
	if _, err := h.resolver.ResolveLocked(userID, outcome); err != nil {
		return c.Reply("❌ Something went wrong finishing the game")
	}

	switch outcome {
	case model.OutcomeWon:
		return c.Reply(board + "\n🎉 You win!")
	case model.OutcomeLost:
		return c.Reply(board + "\n😢 You lose.")
	default:
		return c.Reply(board + "\n🤝 Draw.")
	}
}

// HandleTicTacToe handles /ttt: no argument starts a game, one argument
// (1-9) places the player's mark.
func (h *MiniGameHandler) HandleTicTacToe(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)
	h.accounts.EnsureUser(sender.ID, displayName(sender))

	args, ok := intArgs(c)
	if !ok {
		return c.Reply("❌ Usage: /ttt to start, /ttt <1-9> to place")
	}

	if len(args) == 0 {
		g := tictactoe.New()
		return h.start(c, sender.ID, g,
			"⭕ Tic-tac-toe! You are ❌. Cells are numbered 1-9:\n"+
				g.Render()+"\nPlace with /ttt <cell>.")
	}

	s, replied, err := h.requireGame(c, sender.ID, model.KindTicTacToe)
	if err != nil || replied {
		return err
	}
	g := s.Game.(*tictactoe.Game)

	if err := g.Place(args[0]); err != nil {
		switch {
		case errors.Is(err, tictactoe.ErrOutOfRange):
			return c.Reply("❌ Pick a cell from 1 to 9")
		case errors.Is(err, tictactoe.ErrOccupied):
			return c.Reply("❌ That cell is taken")
		default:
			return c.Reply("❌ Invalid move")
		}
	}

	if g.Over() {
		return h.finish(c, sender.ID, g.Render(), g.Result())
	}
	return c.Reply(g.Render() + "\nYour move: /ttt <cell>")
}

// HandleConnectFour handles /c4: no argument starts a game, one argument
// (1-7) drops a piece into that column.
func (h *MiniGameHandler) HandleConnectFour(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)
	h.accounts.EnsureUser(sender.ID, displayName(sender))

	args, ok := intArgs(c)
	if !ok {
		return c.Reply("❌ Usage: /c4 to start, /c4 <1-7> to drop")
	}

	if len(args) == 0 {
		g := connectfour.New()
		return h.start(c, sender.ID, g,
			"🔴 Connect four! You are 🔴, columns are 1-7:\n"+
				g.Render()+"\nDrop with /c4 <column>.")
	}

	s, replied, err := h.requireGame(c, sender.ID, model.KindConnectFour)
	if err != nil || replied {
		return err
	}
	g := s.Game.(*connectfour.Game)

	if err := g.Drop(args[0]); err != nil {
		switch {
		case errors.Is(err, connectfour.ErrOutOfRange):
			return c.Reply("❌ Pick a column from 1 to 7")
		case errors.Is(err, connectfour.ErrColumnFull):
			return c.Reply("❌ That column is full")
		default:
			return c.Reply("❌ Invalid move")
		}
	}

	if g.Over() {
		return h.finish(c, sender.ID, g.Render(), g.Result())
	}
	return c.Reply(g.Render() + "\nYour move: /c4 <column>")
}

// HandleLightsOut handles /lo: no arguments starts a puzzle, two arguments
// (row, column, both 1-5) press a cell.
func (h *MiniGameHandler) HandleLightsOut(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)
	h.accounts.EnsureUser(sender.ID, displayName(sender))

	args, ok := intArgs(c)
	if !ok || (len(args) != 0 && len(args) != 2) {
		return c.Reply("❌ Usage: /lo to start, /lo <row> <col> to press")
	}

	if len(args) == 0 {
		g := lightsout.New()
		return h.start(c, sender.ID, g,
			"💡 Lights out! Turn every light off. A press toggles the cell "+
				"and its neighbors:\n"+g.Render()+"\nPress with /lo <row> <col>.")
	}

	s, replied, err := h.requireGame(c, sender.ID, model.KindLightsOut)
	if err != nil || replied {
		return err
	}
	g := s.Game.(*lightsout.Game)

	if err := g.Press(args[0], args[1]); err != nil {
		if errors.Is(err, lightsout.ErrOutOfRange) {
			return c.Reply("❌ Row and column go from 1 to 5")
		}
		return c.Reply("❌ Invalid move")
	}

	if g.Over() {
		if _, err := h.resolver.ResolveLocked(sender.ID, model.OutcomeWon); err != nil {
			return c.Reply("❌ Something went wrong finishing the game")
		}
		return c.Reply(fmt.Sprintf("%s\n🎉 Solved in %d moves!", g.Render(), g.Moves()))
	}
	return c.Reply(g.Render() + "\nPress with /lo <row> <col>")
}

// HandlePlaying handles /playing, showing the current session.
func (h *MiniGameHandler) HandlePlaying(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	s, ok := h.sessions.Get(sender.ID)
	if !ok {
		return c.Reply("You are not playing anything")
	}

	msg := fmt.Sprintf("🎮 Playing %s", s.Kind())
	if s.Wager > 0 {
		msg += fmt.Sprintf(" (wager %d)", s.Wager)
	}
	if board, ok := s.Game.(game.Board); ok {
		msg += "\n" + board.Render()
	}
	return c.Reply(msg)
}

// HandleGiveUp handles /giveup: abandons the current game. A wagered
// session forfeits its stake.
func (h *MiniGameHandler) HandleGiveUp(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.locks.Lock(sender.ID)
	defer h.locks.Unlock(sender.ID)

	st, err := h.resolver.ResolveLocked(sender.ID, model.OutcomeAbandoned)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return c.Reply("You are not playing anything")
		}
		return c.Reply("❌ Something went wrong")
	}

	if st.Delta < 0 {
		return c.Reply(fmt.Sprintf(
			"🏳️ Abandoned %s, forfeiting %d coins. Balance: %d",
			st.Session.Kind(), -st.Delta, st.Balance,
		))
	}
	return c.Reply(fmt.Sprintf("🏳️ Abandoned %s.", st.Session.Kind()))
}
