package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookdiary/internal/tracker"
)

// handleConversation routes a free-text message to the active
// multi-step command.
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Command {
	case "read":
		b.handleReadConversation(ctx, message, state)
	case "goal":
		b.handleGoalConversation(ctx, message, state)
	default:
		b.clearState(message.From.ID)
	}
}

// handleReadConversation handles the notes step of /read. Book and
// rating were collected via inline keyboard callbacks.
func (b *Bot) handleReadConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	if state.Step != 3 {
		// Still waiting for an inline keyboard selection
		b.reply(message.Chat.ID, "Please use the buttons above, or send any command to cancel.")
		return
	}

	notes := strings.TrimSpace(message.Text)
	if notes == "-" {
		notes = ""
	}

	bookID, _ := state.Data["book_id"].(string)
	rating, _ := state.Data["rating"].(int)

	state.Step = -1
	b.clearState(message.From.ID)

	event, err := b.tracker.AddEvent(ctx, bookID, b.clock.Now(), notes, rating)
	if err != nil {
		b.logger.Error("Failed to add reading event", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't save the reading event, please try again later.")
		return
	}

	titles := b.titleIndex(ctx)
	title := titles[event.BookID]
	if title == "" {
		title = event.BookID
	}
	b.reply(message.Chat.ID, "Logged \""+title+"\" ✅\n\n"+formatSnapshot(b.tracker.Snapshot()))
}

// handleGoalConversation parses and applies a new reading goal.
func (b *Bot) handleGoalConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	goal, err := strconv.Atoi(strings.TrimSpace(message.Text))
	if err != nil {
		b.reply(message.Chat.ID, "Please send a number, or any command to cancel.")
		return
	}

	if err := b.tracker.SetGoal(ctx, goal); err != nil {
		if errors.Is(err, tracker.ErrInvalidGoal) {
			// Keep the conversation open so the user can retry
			b.reply(message.Chat.ID, "The goal must be a positive number. Try again?")
			return
		}
		b.logger.Error("Failed to save goal", zap.Error(err))
		b.reply(message.Chat.ID, "Couldn't save the goal, please try again later.")
		return
	}

	state.Step = -1
	b.clearState(message.From.ID)
	b.reply(message.Chat.ID, "Reading goal updated! "+formatSnapshot(b.tracker.Snapshot()))
}
