// Package telegram publishes the rendered dashboard to a Telegram chat.
//
// Messages use MarkdownV2. Every backend-supplied string is escaped before it
// is placed into the message, and delivery is retried with a linear backoff.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/logger"
	"github.com/rewired-gh/salesdash/internal/projector"
)

// sender is the part of the bot API the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram delivery
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	sleep          func(time.Duration)
}

// Dashboard is the state published after a selection.
type Dashboard struct {
	Title     string
	Year      int
	Mode      string
	Sales     []projector.Row
	Inventory []projector.Row
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newClient(bot, chatIDInt, maxRetries, retryDelayBase), nil
}

func newClient(bot sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		sleep:          time.Sleep,
	}
}

// SendDashboard posts the dashboard tables as one message.
func (c *Client) SendDashboard(d Dashboard) error {
	msg := tgbotapi.NewMessage(c.chatID, formatDashboard(d))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			logger.Debug("Dashboard for %d sent to Telegram", d.Year)
			return nil
		}
		lastErr = err
		logger.Warn("Telegram send attempt %d/%d failed: %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			c.sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

func formatDashboard(d Dashboard) string {
	var b strings.Builder

	title := d.Title
	if title == "" {
		title = "Sales Dashboard"
	}
	fmt.Fprintf(&b, "📊 *%s %d* \\(%s\\)\n\n", escapeMarkdownV2(title), d.Year, escapeMarkdownV2(d.Mode))

	b.WriteString("*Sales*\n")
	if len(d.Sales) == 0 {
		b.WriteString("_no data_\n")
	}
	for _, row := range d.Sales {
		if len(row.Cells) == 0 {
			continue
		}
		line := salesLine(row)
		if row.Summary {
			line = "*" + line + "*"
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(d.Inventory) > 0 {
		b.WriteString("\n*Inventory*\n")
		for _, row := range d.Inventory {
			if line := inventoryLine(row); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// salesLine renders "label: Column value, ..." skipping placeholder cells.
func salesLine(row projector.Row) string {
	parts := make([]string, 0, len(row.Cells)-1)
	for i := 1; i < len(row.Cells) && i < len(projector.SalesColumns); i++ {
		if row.Cells[i] == projector.Placeholder {
			continue
		}
		parts = append(parts, projector.SalesColumns[i]+" "+row.Cells[i])
	}
	return escapeMarkdownV2(row.Cells[0] + ": " + strings.Join(parts, ", "))
}

func inventoryLine(row projector.Row) string {
	if len(row.Cells) < 4 {
		return ""
	}
	name, current, projected, growth := row.Cells[0], row.Cells[1], row.Cells[2], row.Cells[3]

	emoji := "➖"
	if g, err := strconv.ParseFloat(strings.TrimSuffix(growth, "%"), 64); err == nil {
		switch chart.Classify(g) {
		case chart.TrendGrowth:
			emoji = "📈"
		case chart.TrendDecline:
			emoji = "📉"
		}
	}

	line := fmt.Sprintf("%s %s: %s → %s \\(%s\\)", emoji,
		escapeMarkdownV2(name), escapeMarkdownV2(current), escapeMarkdownV2(projected), escapeMarkdownV2(growth))
	if len(row.Cells) > 4 && row.Cells[4] != projector.Placeholder {
		line += "\n   💡 " + escapeMarkdownV2(row.Cells[4])
	}
	return line
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, char := range text {
		switch char {
		case '\\', '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
