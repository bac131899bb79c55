// Package bot provides the Telegram bot initialization and handler
// registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-lottery-bot/internal/config"
	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/handler"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/resolver"
	"telegram-lottery-bot/internal/service"
	"telegram-lottery-bot/internal/session"
	"telegram-lottery-bot/internal/wager"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	accountHandler  *handler.AccountHandler
	gameHandler     *handler.GameHandler
	miniGameHandler *handler.MiniGameHandler
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	RankingService *service.RankingService
	Sessions       *session.Registry
	Resolver       *resolver.Resolver
	GameRegistry   *game.Registry
	UserLock       *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	limits := wager.Limits{
		Min: deps.Config.Wager.Min,
		Max: deps.Config.Wager.Max,
	}

	b := &Bot{
		bot: teleBot,
		cfg: deps.Config,
	}

	b.accountHandler = handler.NewAccountHandler(deps.AccountService, deps.RankingService)
	b.gameHandler = handler.NewGameHandler(
		deps.AccountService, deps.Sessions, deps.Resolver,
		deps.GameRegistry, deps.UserLock, limits,
	)
	b.miniGameHandler = handler.NewMiniGameHandler(
		deps.AccountService, deps.Sessions, deps.Resolver, deps.UserLock,
	)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command handlers.
func (b *Bot) registerHandlers() {
	// Account commands
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/my", b.accountHandler.HandleMy)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)
	b.bot.Handle("/top", b.accountHandler.HandleTop)

	// Wagering games
	b.bot.Handle("/bet", b.gameHandler.HandleBet)
	b.bot.Handle("/slot", b.gameHandler.HandleSlot)
	b.bot.Handle("/games", b.gameHandler.HandleGames)

	// Board games
	b.bot.Handle("/ttt", b.miniGameHandler.HandleTicTacToe)
	b.bot.Handle("/c4", b.miniGameHandler.HandleConnectFour)
	b.bot.Handle("/lo", b.miniGameHandler.HandleLightsOut)

	// Session commands
	b.bot.Handle("/playing", b.miniGameHandler.HandlePlaying)
	b.bot.Handle("/giveup", b.miniGameHandler.HandleGiveUp)
}

// Start starts the bot polling. Blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// Telebot returns the underlying telebot instance, for wiring the platform
// collaborators.
func (b *Bot) Telebot() *tele.Bot {
	return b.bot
}
