package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramSender posts outgoing SMS text to a staff Telegram chat. It stands in for
// an SMS gateway on staging where real numbers cannot receive messages.
type TelegramSender struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramSender creates a TelegramSender.
func NewTelegramSender(botToken, chatID string) *TelegramSender {
	return &TelegramSender{
		baseURL:  telegramAPI,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (s *TelegramSender) Send(ctx context.Context, phone, message string) error {
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram bot token or chat id not configured")
	}

	text := fmt.Sprintf("<b>📞 +%s</b>\n%s", html.EscapeString(phone), html.EscapeString(message))
	body, err := json.Marshal(telegramMessage{
		ChatID:    s.chatID,
		Text:      strings.TrimSpace(text),
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
