package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookdiary/internal/catalog"
	"bookdiary/internal/clock"
	"bookdiary/internal/pick"
	"bookdiary/internal/storage/stubs"
	"bookdiary/internal/tracker"
)

// newTestBot builds a bot with a nil Telegram API so handlers can run
// without talking to Telegram.
func newTestBot(t *testing.T) (*Bot, *stubs.MockDB) {
	t.Helper()

	db := stubs.NewMockDB()
	clk := clock.Fixed{T: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	logger := zap.NewNop()

	trk := tracker.New(db, clk, tracker.DefaultGoal, logger)
	if err := trk.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load tracker: %v", err)
	}

	provider := catalog.NewStoreProvider(db, logger)
	picker := pick.New(provider, db, clk, logger)

	return &Bot{
		api:          nil,
		tracker:      trk,
		picker:       picker,
		catalog:      provider,
		store:        db,
		clock:        clk,
		allowedUsers: map[int64]bool{100: true},
		states:       make(map[int64]*ConversationState),
		logger:       logger,
	}, db
}

func command(userID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
	if len(text) > 0 && text[0] == '/' {
		end := len(text)
		for i, c := range text {
			if c == ' ' {
				end = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: end},
		}
	}
	return msg
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
	}
}

func TestHandleUpdate_UnauthorizedUserIgnored(t *testing.T) {
	bot, _ := newTestBot(t)

	bot.HandleUpdate(tgbotapi.Update{Message: command(999, "/read")})

	if _, ok := bot.state(999); ok {
		t.Error("Unauthorized user should not start a conversation")
	}
}

func TestReadConversation(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	// /read starts the conversation at the book selection step
	bot.handleMessage(command(userID, "/read"))

	state, ok := bot.state(userID)
	if !ok {
		t.Fatal("Expected conversation state after /read")
	}
	if state.Command != "read" || state.Step != 1 {
		t.Errorf("Expected read conversation at step 1, got %q step %d", state.Command, state.Step)
	}

	// Book selection via inline keyboard
	bot.handleCallbackQuery(callback(userID, "book:1"))
	state, _ = bot.state(userID)
	if state.Step != 2 {
		t.Errorf("Expected step 2 after book selection, got %d", state.Step)
	}
	if state.Data["book_id"] != "1" {
		t.Errorf("Expected book_id \"1\", got %v", state.Data["book_id"])
	}

	// Rating selection
	bot.handleCallbackQuery(callback(userID, "rating:4"))
	state, _ = bot.state(userID)
	if state.Step != 3 {
		t.Errorf("Expected step 3 after rating, got %d", state.Step)
	}

	// Notes step completes the conversation and logs the event
	bot.handleMessage(command(userID, "Short but great"))

	if _, ok := bot.state(userID); ok {
		t.Error("Conversation should be cleared after notes step")
	}

	events := bot.tracker.AllEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 logged event, got %d", len(events))
	}
	if events[0].BookID != "1" {
		t.Errorf("Expected book_id \"1\", got %q", events[0].BookID)
	}
	if events[0].Rating != 4 {
		t.Errorf("Expected rating 4, got %d", events[0].Rating)
	}
	if events[0].Notes != "Short but great" {
		t.Errorf("Unexpected notes: %q", events[0].Notes)
	}
}

func TestReadConversation_SkipRatingAndNotes(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	bot.handleMessage(command(userID, "/read"))
	bot.handleCallbackQuery(callback(userID, "book:2"))
	bot.handleCallbackQuery(callback(userID, "rating:skip"))
	bot.handleMessage(command(userID, "-"))

	events := bot.tracker.AllEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 logged event, got %d", len(events))
	}
	if events[0].Rating != 0 {
		t.Errorf("Expected no rating, got %d", events[0].Rating)
	}
	if events[0].Notes != "" {
		t.Errorf("Expected empty notes, got %q", events[0].Notes)
	}
}

func TestReadConversation_CommandInterrupts(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	bot.handleMessage(command(userID, "/read"))
	if _, ok := bot.state(userID); !ok {
		t.Fatal("Expected conversation state after /read")
	}

	// Any command cancels the ongoing conversation
	bot.handleMessage(command(userID, "/progress"))

	if _, ok := bot.state(userID); ok {
		t.Error("Conversation should be cleared by an interrupting command")
	}
	if len(bot.tracker.AllEvents()) != 0 {
		t.Error("No event should be logged for a cancelled conversation")
	}
}

func TestGoalConversation(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	bot.handleMessage(command(userID, "/goal"))

	state, ok := bot.state(userID)
	if !ok || state.Command != "goal" {
		t.Fatal("Expected goal conversation after /goal")
	}

	bot.handleMessage(command(userID, "24"))

	if _, ok := bot.state(userID); ok {
		t.Error("Conversation should be cleared after a valid goal")
	}
	if got := bot.tracker.Goal(); got != 24 {
		t.Errorf("Expected goal 24, got %d", got)
	}
}

func TestGoalConversation_InvalidGoalRetries(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	bot.handleMessage(command(userID, "/goal"))

	// Zero is rejected, the conversation stays open for a retry
	bot.handleMessage(command(userID, "0"))
	if _, ok := bot.state(userID); !ok {
		t.Fatal("Conversation should stay open after an invalid goal")
	}
	if got := bot.tracker.Goal(); got != 10 {
		t.Errorf("Goal should stay at default, got %d", got)
	}

	// Non-numeric input also keeps the conversation open
	bot.handleMessage(command(userID, "a dozen"))
	if _, ok := bot.state(userID); !ok {
		t.Fatal("Conversation should stay open after non-numeric input")
	}

	bot.handleMessage(command(userID, "12"))
	if got := bot.tracker.Goal(); got != 12 {
		t.Errorf("Expected goal 12, got %d", got)
	}
}

func TestReadTodayCallback(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	bot.handleCallbackQuery(callback(userID, "readtoday:3"))

	events := bot.tracker.AllEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 logged event, got %d", len(events))
	}
	if events[0].BookID != "3" {
		t.Errorf("Expected book_id \"3\", got %q", events[0].BookID)
	}
	if !events[0].CompletedOn.Equal(bot.clock.Now()) {
		t.Errorf("Expected completion at clock time, got %v", events[0].CompletedOn)
	}
}

func TestWishCallback(t *testing.T) {
	bot, db := newTestBot(t)
	userID := int64(100)

	bot.handleCallbackQuery(callback(userID, "wish:5"))

	ids, err := db.ListReadingList(context.Background())
	if err != nil {
		t.Fatalf("Failed to list reading list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "5" {
		t.Errorf("Expected reading list [5], got %v", ids)
	}
}

func TestStaleCallbacksIgnored(t *testing.T) {
	bot, _ := newTestBot(t)
	userID := int64(100)

	// Rating callback without an active read conversation is a no-op
	bot.handleCallbackQuery(callback(userID, "rating:5"))
	if _, ok := bot.state(userID); ok {
		t.Error("Stale rating callback should not create a conversation")
	}

	// Book callback at the wrong step is ignored too
	bot.setState(userID, &ConversationState{Command: "read", Step: 3, Data: map[string]interface{}{}})
	bot.handleCallbackQuery(callback(userID, "book:1"))
	state, _ := bot.state(userID)
	if state.Step != 3 {
		t.Errorf("Book callback at step 3 should be ignored, got step %d", state.Step)
	}
}
