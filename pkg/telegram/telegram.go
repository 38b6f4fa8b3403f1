package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	// MaxMessageLength is the Bot API limit for a single message, in characters.
	MaxMessageLength = 4096
)

type Config struct {
	Token   string `envconfig:"BOT_TOKEN" json:"-"`
	ChatID  string `envconfig:"CHAT_ID"`
	BaseURL string `envconfig:"BOT_API_URL"`
}

type Client struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   cfg.Token,
		chatID:  cfg.ChatID,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// SendMessage posts text to the configured chat using Markdown parse mode.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.token == "" || c.chatID == "" {
		return errors.New("telegram: bot token and chat id are required")
	}
	text = truncate(text, MaxMessageLength)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return errors.Wrap(err, "marshal sendMessage")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "telegram: send")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return errors.Wrap(err, "telegram: read response")
	}
	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return errors.Wrapf(err, "telegram: parse response (status %d)", resp.StatusCode)
	}
	if !apiResp.OK {
		return errors.Errorf("telegram: %d %s", apiResp.ErrorCode, apiResp.Description)
	}
	return nil
}

// truncate cuts text to at most n runes without splitting a character.
func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
