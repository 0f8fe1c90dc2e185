package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	xhttp "Paratoner/pkg/http"
)

const defaultBaseURL = "https://api.twilio.com"

// Client sends one WhatsApp message per call via the Twilio Messages API.
type Client struct {
	creds   repository.CredentialProvider
	http    *xhttp.Client
	baseURL string
}

// New creates a Twilio WhatsApp channel client.
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
func (c *Client) Channel() models.Channel { return models.ChannelWhatsApp }

type createMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// SendOnce performs a single Messages.json call.
func (c *Client) SendOnce(ctx context.Context, message string) error {
	cr := c.creds.Twilio()
	if !cr.Complete() {
		return errors.New("twilio credentials incomplete")
	}

	form := url.Values{}
	form.Set("From", "whatsapp:+"+digitsOnly(cr.FromNumber))
	form.Set("To", "whatsapp:+"+digitsOnly(cr.ToNumber))
	form.Set("Body", message)

	var resp createMessageResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "POST",
		URL:    fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, cr.AccountSID),
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
		},
		Body: form,
		Auth: &xhttp.BasicAuth{Username: cr.AccountSID, Password: cr.AuthToken},
	}, &resp)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp.SID == "" {
		return fmt.Errorf("twilio send rejected: %s", resp.ErrorMessage)
	}
	return nil
}

// digitsOnly strips everything but digits so numbers configured with "+" or
// spaces still form a valid whatsapp: address.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
