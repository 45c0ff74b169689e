package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookdiary/internal/catalog"
	"bookdiary/internal/clock"
	"bookdiary/internal/pick"
	"bookdiary/internal/storage"
	"bookdiary/internal/tracker"
)

// NewBot creates a new Telegram bot
func NewBot(token string, trk *tracker.Tracker, picker *pick.Picker, provider catalog.Provider, store storage.Storage, clk clock.Clock, allowedUserIDs []int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	allowedUsers := make(map[int64]bool)
	for _, id := range allowedUserIDs {
		allowedUsers[id] = true
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:          api,
		tracker:      trk,
		picker:       picker,
		catalog:      provider,
		store:        store,
		clock:        clk,
		allowedUsers: allowedUsers,
		states:       make(map[int64]*ConversationState),
		logger:       logger,
	}, nil
}
