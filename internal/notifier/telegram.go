package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/rs/zerolog"
)

// sender is the part of tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends notifications to one Telegram chat
type TelegramNotifier struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	log            zerolog.Logger
}

// NewTelegramNotifier connects to the Bot API and validates the chat ID
func NewTelegramNotifier(botToken, chatID string, log zerolog.Logger) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newTelegramNotifier(bot, id, log), nil
}

func newTelegramNotifier(bot sender, chatID int64, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     3,
		retryDelayBase: time.Second,
		log:            log.With().Str("component", "telegram_notifier").Logger(),
	}
}

// NotifyAlert sends a triggered alert
func (n *TelegramNotifier) NotifyAlert(alert alerts.Alert) error {
	return n.sendMarkdownV2(formatAlert(alert))
}

// NotifySignal sends an actionable signal
func (n *TelegramNotifier) NotifySignal(ticker string, signal domain.TradingSignal) error {
	return n.sendMarkdownV2(formatSignal(ticker, signal))
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry
func (n *TelegramNotifier) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		_, err := n.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		n.log.Warn().Err(err).Int("attempt", i+1).Msg("Telegram send failed")
		time.Sleep(n.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", n.maxRetries, lastErr)
}

func formatAlert(alert alerts.Alert) string {
	var b strings.Builder
	b.WriteString("🔔 *Alert triggered*\n\n")
	fmt.Fprintf(&b, "*%s* %s %s %s\n",
		escapeMarkdownV2(alert.Ticker),
		escapeMarkdownV2(string(alert.Type)),
		escapeMarkdownV2(alert.Condition),
		escapeMarkdownV2(formatNumber(alert.TargetValue)))
	fmt.Fprintf(&b, "Current: %s", escapeMarkdownV2(formatNumber(alert.CurrentValue)))
	if alert.TriggeredAt != nil {
		fmt.Fprintf(&b, "\n📅 %s", escapeMarkdownV2(alert.TriggeredAt.Format("2006-01-02 15:04:05")))
	}
	return b.String()
}

func formatSignal(ticker string, signal domain.TradingSignal) string {
	emoji := "⏸"
	switch signal.Type {
	case domain.SignalBuy:
		emoji = "📈"
	case domain.SignalSell:
		emoji = "📉"
	case domain.SignalHold:
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s %s* \\(%s, %d%%\\)\n",
		emoji,
		escapeMarkdownV2(string(signal.Type)),
		escapeMarkdownV2(ticker),
		escapeMarkdownV2(string(signal.Strength)),
		signal.Confidence)
	for _, r := range signal.Reasons {
		fmt.Fprintf(&b, "• %s\n", escapeMarkdownV2(r))
	}
	if signal.TargetPrice != nil && signal.StopLoss != nil {
		fmt.Fprintf(&b, "Target %s / Stop %s",
			escapeMarkdownV2(formatNumber(*signal.TargetPrice)),
			escapeMarkdownV2(formatNumber(*signal.StopLoss)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
