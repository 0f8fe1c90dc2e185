package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	xhttp "Paratoner/pkg/http"
)

const defaultBaseURL = "https://api.telegram.org"

// Client sends one message per call via the Telegram Bot API. Credentials
// are read from the provider on every call so admin updates take effect
// between attempts.
type Client struct {
	creds   repository.CredentialProvider
	http    *xhttp.Client
	baseURL string
}

// New creates a Telegram channel client.
func New(creds repository.CredentialProvider, timeout time.Duration) *Client {
	return &Client{
		creds:   creds,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API host, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Channel implements repository.ChannelClient.
func (c *Client) Channel() models.Channel { return models.ChannelTelegram }

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendOnce performs a single sendMessage call.
func (c *Client) SendOnce(ctx context.Context, message string) error {
	cr := c.creds.Telegram()
	if !cr.Complete() {
		return errors.New("telegram credentials incomplete")
	}

	var resp sendMessageResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "POST",
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, cr.Token),
		Body: sendMessageRequest{
			ChatID:                cr.ChatID,
			Text:                  message,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		},
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send rejected: %s", resp.Description)
	}
	return nil
}
