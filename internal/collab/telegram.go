package collab

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// TelegramIdentity resolves display names via the Telegram API.
type TelegramIdentity struct {
	bot *tele.Bot
}

// NewTelegramIdentity creates an IdentityLookup backed by the given bot.
func NewTelegramIdentity(bot *tele.Bot) *TelegramIdentity {
	return &TelegramIdentity{bot: bot}
}

// DisplayName fetches the user's current name, preferring the first name
// over the handle.
func (t *TelegramIdentity) DisplayName(ctx context.Context, userID int64) (string, error) {
	chat, err := t.bot.ChatByID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if chat.FirstName != "" {
		return chat.FirstName, nil
	}
	return chat.Username, nil
}

// AnnounceBadges implements BadgeAssigner by announcing badge changes in a
// configured chat. Telegram bots cannot attach profile markers, so the
// badge is the public announcement itself; repeating it is harmless, which
// satisfies the re-grant tolerance the contract asks for.
type AnnounceBadges struct {
	bot      *tele.Bot
	identity IdentityLookup
	chatID   int64
}

// NewAnnounceBadges creates a badge assigner announcing into chatID. A
// zero chatID disables announcements; changes are only logged.
func NewAnnounceBadges(bot *tele.Bot, identity IdentityLookup, chatID int64) *AnnounceBadges {
	return &AnnounceBadges{bot: bot, identity: identity, chatID: chatID}
}

// GrantBadge announces that the user reached high-roller status.
func (a *AnnounceBadges) GrantBadge(ctx context.Context, userID int64) error {
	log.Info().Int64("user_id", userID).Msg("High-roller badge granted")
	return a.announce(ctx, userID, "🎖 %s has reached high-roller status!")
}

// RevokeBadge announces that the user dropped below the threshold.
func (a *AnnounceBadges) RevokeBadge(ctx context.Context, userID int64) error {
	log.Info().Int64("user_id", userID).Msg("High-roller badge revoked")
	return a.announce(ctx, userID, "📉 %s is no longer a high-roller.")
}

func (a *AnnounceBadges) announce(ctx context.Context, userID int64, format string) error {
	if a.chatID == 0 {
		return nil
	}

	name, err := a.identity.DisplayName(ctx, userID)
	if err != nil || name == "" {
		name = fmt.Sprintf("User%d", userID)
	}

	if _, err := a.bot.Send(tele.ChatID(a.chatID), fmt.Sprintf(format, name)); err != nil {
		return fmt.Errorf("failed to announce badge change: %w", err)
	}
	return nil
}
