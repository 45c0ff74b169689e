package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the Book Diary Bot! 📚

Available commands:
/daily - Show today's book pick
/monthly - Show the book of the month
/read - Log a finished book
/progress - View reading progress
/recent - Show recent reads
/goal - View or change your reading goal
/wishlist - Show your reading list`

	b.reply(message.Chat.ID, text)
}

// handleDaily shows the deterministic pick for today
func (b *Bot) handleDaily(ctx context.Context, message *tgbotapi.Message) {
	selection, ok, err := b.picker.DailyPick(ctx)
	if err != nil {
		b.logger.Error("Failed to compute daily pick", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't reach storage, please try again later.")
		return
	}
	if !ok {
		b.reply(message.Chat.ID, "The catalog is empty, no pick today.")
		return
	}

	text := fmt.Sprintf("📖 Book of the day (%s)\n\n%s", selection.Date, formatItem(selection.Item))
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Mark as read", "readtoday:"+selection.Item.ID),
			tgbotapi.NewInlineKeyboardButtonData("🔖 Save for later", "wish:"+selection.Item.ID),
		),
	)
	b.sendMessage(msg)
}

// handleMonthly shows the book of the month
func (b *Bot) handleMonthly(ctx context.Context, message *tgbotapi.Message) {
	selection, ok, err := b.picker.MonthlyPick(ctx, b.clock.Now())
	if err != nil {
		b.logger.Error("Failed to resolve monthly pick", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't reach storage, please try again later.")
		return
	}
	if !ok {
		b.reply(message.Chat.ID, "The catalog is empty, no pick this month.")
		return
	}

	source := "rotation"
	if selection.Pinned {
		source = "staff pick"
	}
	text := fmt.Sprintf("🗓 Book of the month %d-%02d (%s)\n\n%s",
		selection.Year, selection.Month, source, formatItem(selection.Item))
	b.reply(message.Chat.ID, text)
}

// handleReadStart initiates the read-logging conversation
func (b *Bot) handleReadStart(ctx context.Context, message *tgbotapi.Message) {
	pool, err := b.catalog.LoadPool(ctx)
	if err != nil {
		b.logger.Error("Failed to load catalog", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't reach storage, please try again later.")
		return
	}
	if len(pool) == 0 {
		b.reply(message.Chat.ID, "The catalog is empty, nothing to log.")
		return
	}

	b.setState(message.From.ID, &ConversationState{
		Command: "read",
		Step:    1,
		Data:    make(map[string]interface{}),
	})

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range pool {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(item.Title, "book:"+item.ID),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Which book did you finish?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// handleProgress shows the current progress snapshot
func (b *Bot) handleProgress(message *tgbotapi.Message) {
	b.reply(message.Chat.ID, formatSnapshot(b.tracker.Snapshot()))
}

// handleRecent shows the last reading events
func (b *Bot) handleRecent(ctx context.Context, message *tgbotapi.Message) {
	events := b.tracker.RecentEvents(5)
	if len(events) == 0 {
		b.reply(message.Chat.ID, "No books logged yet. Use /read to log your first one!")
		return
	}

	titles := b.titleIndex(ctx)
	text := "Recent reads:\n"
	for _, event := range events {
		text += "\n" + formatEvent(event, titles)
	}
	b.reply(message.Chat.ID, text)
}

// handleGoalStart shows the current goal and asks for a new one
func (b *Bot) handleGoalStart(message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: "goal",
		Step:    1,
		Data:    make(map[string]interface{}),
	})

	text := fmt.Sprintf("Your reading goal is %d books. Send a new goal, or any command to cancel.", b.tracker.Goal())
	b.reply(message.Chat.ID, text)
}

// handleWishlist shows the reading list
func (b *Bot) handleWishlist(ctx context.Context, message *tgbotapi.Message) {
	ids, err := b.store.ListReadingList(ctx)
	if err != nil {
		b.logger.Error("Failed to list reading list", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't reach storage, please try again later.")
		return
	}
	if len(ids) == 0 {
		b.reply(message.Chat.ID, "Your reading list is empty.")
		return
	}

	titles := b.titleIndex(ctx)
	text := "🔖 Your reading list:\n"
	for _, id := range ids {
		title := titles[id]
		if title == "" {
			title = id
		}
		text += "\n• " + title
	}
	b.reply(message.Chat.ID, text)
}

// titleIndex maps catalog item IDs to titles for display. A failed
// pool load degrades to bare IDs rather than failing the command.
func (b *Bot) titleIndex(ctx context.Context) map[string]string {
	titles := make(map[string]string)
	pool, err := b.catalog.LoadPool(ctx)
	if err != nil {
		b.logger.Warn("Failed to load catalog for titles", zap.Error(err))
		return titles
	}
	for _, item := range pool {
		titles[item.ID] = item.Title
	}
	return titles
}
