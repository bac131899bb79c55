// Package main is the entry point for the Telegram lottery bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-lottery-bot/internal/bot"
	"telegram-lottery-bot/internal/collab"
	"telegram-lottery-bot/internal/config"
	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/game/bet"
	"telegram-lottery-bot/internal/game/connectfour"
	"telegram-lottery-bot/internal/game/lightsout"
	"telegram-lottery-bot/internal/game/slot"
	"telegram-lottery-bot/internal/game/tictactoe"
	"telegram-lottery-bot/internal/ledger"
	"telegram-lottery-bot/internal/pkg/db"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/resolver"
	"telegram-lottery-bot/internal/service"
	"telegram-lottery-bot/internal/session"
	"telegram-lottery-bot/internal/store"
	"telegram-lottery-bot/internal/streak"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Migrate and load the durable ledger state. Starting with a partial
	// load would silently zero balances, so a failure here is fatal.
	ledgerStore := store.New(dbPool.Pool)
	if err := ledgerStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	records, err := ledgerStore.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ledger records")
	}
	log.Info().Int("records", len(records)).Msg("Ledger loaded")

	// Threshold-crossing events flow through the dispatcher so badge
	// announcements never run inside a ledger critical section.
	dispatcher := ledger.NewDispatcher(64)

	coreLedger := ledger.New(ledger.Config{
		MaxBalance:     cfg.Ledger.MaxBalance,
		BadgeThreshold: cfg.Ledger.BadgeThreshold,
		Records:        records,
		Publish:        dispatcher.Publish,
	})

	userLock := lock.NewUserLock()
	sessions := session.NewRegistry()
	settle := resolver.New(coreLedger, sessions, userLock)

	rewards := streak.Rewards{
		Daily:   cfg.Claim.Daily,
		Weekly:  cfg.Claim.Weekly,
		Monthly: cfg.Claim.Monthly,
		Yearly:  cfg.Claim.Yearly,
	}
	accountService := service.NewAccountService(coreLedger, userLock, rewards)
	rankingService := service.NewRankingService(coreLedger)

	// Register games
	gameRegistry := game.NewRegistry()
	for _, l := range []game.Launcher{
		bet.NewLauncher(),
		slot.NewLauncher(),
		tictactoe.NewLauncher(),
		connectfour.NewLauncher(),
		lightsout.NewLauncher(),
	} {
		if err := gameRegistry.Register(l); err != nil {
			log.Fatal().Err(err).Str("game", string(l.Kind())).Msg("Failed to register game")
		}
	}
	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		RankingService: rankingService,
		Sessions:       sessions,
		Resolver:       settle,
		GameRegistry:   gameRegistry,
		UserLock:       userLock,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Wire the platform collaborators now that the bot exists
	identity := collab.NewTelegramIdentity(telegramBot.Telebot())
	coreLedger.SetIdentityLookup(identity)
	badges := collab.NewAnnounceBadges(telegramBot.Telebot(), identity, cfg.Bot.AnnounceChat)
	go dispatcher.Run(ctx, badges)

	coreLedger.RefreshAllNames(ctx)

	// Periodic ledger snapshots
	go func() {
		ticker := time.NewTicker(cfg.Ledger.SnapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := ledgerStore.Save(ctx, coreLedger.Snapshot()); err != nil {
					log.Error().Err(err).Msg("Periodic ledger save failed")
				}
			}
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	cancel()

	// Final snapshot with a fresh context: the polling loop is stopped, so
	// the ledger is quiescent.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer saveCancel()
	if err := ledgerStore.Save(saveCtx, coreLedger.Snapshot()); err != nil {
		log.Error().Err(err).Msg("Final ledger save failed")
	} else {
		log.Info().Msg("Final ledger snapshot saved")
	}

	log.Info().Msg("Bot stopped gracefully")
}
