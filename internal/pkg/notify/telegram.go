package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const sendInterval = 2 * time.Second

// TelegramNotifier pushes cycle reports and operational alerts to a chat.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a notifier, or nil when the bot cannot be
// reached; callers treat a nil notifier as "notifications disabled".
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}

	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// CycleFinished sends a one-line summary of a finished scrape cycle.
func (n *TelegramNotifier) CycleFinished(report *models.CycleReport) {
	if n == nil || report == nil {
		return
	}

	text := fmt.Sprintf(
		"Cycle %s\nextracted: %d\ncreated: %d\nduplicate: %d\nerrored: %d\ntook %.1fs",
		report.CycleID, report.Extracted, report.Created, report.Duplicate, report.Errored,
		report.DurationSeconds,
	)
	n.send(text)
}

// OperationalAlert signals a condition an operator should look at, like every
// extraction strategy coming up empty.
func (n *TelegramNotifier) OperationalAlert(message string) {
	if n == nil {
		return
	}
	n.send("⚠️ " + message)
}

func (n *TelegramNotifier) send(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "error", err)
		return
	}
	n.lastSend = time.Now()
}
