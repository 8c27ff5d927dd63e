package tg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const apiURL = "https://api.telegram.org"

type tgMsg struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Notifier posts messages to a fixed set of Telegram chats.
type Notifier struct {
	BaseURL  string
	botToken string
	chatIDs  []int64
	client   *http.Client
}

// NewNotifier returns nil when botToken or chatIDs is empty; a nil Notifier
// drops every message.
func NewNotifier(botToken string, chatIDs []int64) *Notifier {
	if botToken == "" || len(chatIDs) == 0 {
		return nil
	}
	return &Notifier{
		BaseURL:  apiURL,
		botToken: botToken,
		chatIDs:  chatIDs,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify sends text to every chat and returns the joined per-chat errors.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n == nil {
		return nil
	}

	var errs []error
	for _, chatID := range n.chatIDs {
		if err := n.send(ctx, chatID, text); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) send(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.BaseURL, n.botToken)

	msg := tgMsg{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram api returned status %s", res.Status)
	}

	return nil
}
