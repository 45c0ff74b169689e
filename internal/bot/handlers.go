package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	// Check if user is in a conversation
	if state, ok := b.state(userID); ok {
		if state.Step == -1 {
			// Conversation already complete, clean it up
			b.clearState(userID)
		} else if message.IsCommand() {
			// Allow any command to interrupt an ongoing conversation
			b.clearState(userID)
		} else {
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "daily":
		b.handleDaily(ctx, message)
	case "monthly":
		b.handleMonthly(ctx, message)
	case "read":
		b.handleReadStart(ctx, message)
	case "progress":
		b.handleProgress(message)
	case "recent":
		b.handleRecent(ctx, message)
	case "goal":
		b.handleGoalStart(message)
	case "wishlist":
		b.handleWishlist(ctx, message)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /start to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()

	// Answer the callback query to remove loading state
	if b.api != nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, "readtoday:"):
		b.handleReadTodayCallback(ctx, query)
	case strings.HasPrefix(data, "wish:"):
		b.handleWishCallback(ctx, query)
	case strings.HasPrefix(data, "book:"):
		b.handleBookCallback(query)
	case strings.HasPrefix(data, "rating:"):
		b.handleRatingCallback(query)
	}
}
