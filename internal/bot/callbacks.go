package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleReadTodayCallback logs the book as read today, without the
// rating/notes conversation. Used by the "Mark as read" button.
func (b *Bot) handleReadTodayCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	bookID := strings.TrimPrefix(query.Data, "readtoday:")

	_, err := b.tracker.AddEvent(ctx, bookID, b.clock.Now(), "", 0)
	if err != nil {
		b.logger.Error("Failed to add reading event", zap.Error(err))
		b.reply(query.Message.Chat.ID, "Couldn't save the reading event, please try again later.")
		return
	}

	b.reply(query.Message.Chat.ID, "Marked as read ✅\n\n"+formatSnapshot(b.tracker.Snapshot()))
}

// handleWishCallback adds the book to the reading list.
func (b *Bot) handleWishCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	bookID := strings.TrimPrefix(query.Data, "wish:")

	if err := b.store.AddToReadingList(ctx, bookID); err != nil {
		b.logger.Error("Failed to add to reading list", zap.Error(err))
		b.reply(query.Message.Chat.ID, "Couldn't update the reading list, please try again later.")
		return
	}

	b.reply(query.Message.Chat.ID, "Saved to your reading list 🔖")
}

// handleBookCallback records the chosen book and asks for a rating.
func (b *Bot) handleBookCallback(query *tgbotapi.CallbackQuery) {
	state, ok := b.state(query.From.ID)
	if !ok || state.Command != "read" || state.Step != 1 {
		return
	}

	state.Data["book_id"] = strings.TrimPrefix(query.Data, "book:")
	state.Step = 2

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "How would you rate it?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐️ 1", "rating:1"),
			tgbotapi.NewInlineKeyboardButtonData("⭐️ 2", "rating:2"),
			tgbotapi.NewInlineKeyboardButtonData("⭐️ 3", "rating:3"),
			tgbotapi.NewInlineKeyboardButtonData("⭐️ 4", "rating:4"),
			tgbotapi.NewInlineKeyboardButtonData("⭐️ 5", "rating:5"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("No rating", "rating:skip"),
		),
	)
	b.sendMessage(msg)
}

// handleRatingCallback records the rating and asks for notes.
func (b *Bot) handleRatingCallback(query *tgbotapi.CallbackQuery) {
	state, ok := b.state(query.From.ID)
	if !ok || state.Command != "read" || state.Step != 2 {
		return
	}

	value := strings.TrimPrefix(query.Data, "rating:")
	if value != "skip" {
		rating, err := strconv.Atoi(value)
		if err != nil || rating < 1 || rating > 5 {
			return
		}
		state.Data["rating"] = rating
	}
	state.Step = 3

	b.reply(query.Message.Chat.ID, "Any notes? Send text, or - to skip.")
}
