package credentials

import (
	"strings"
	"sync"

	"Paratoner/internal/domain/models"
)

const maskVisible = 10

// Provider owns the channel secrets. Reads return value copies so an
// in-flight send never observes a partial admin update.
type Provider struct {
	mu       sync.RWMutex
	telegram models.TelegramCredentials
	twilio   models.TwilioCredentials
}

// New creates a provider seeded with the given credentials.
func New(tg models.TelegramCredentials, tw models.TwilioCredentials) *Provider {
	return &Provider{telegram: tg, twilio: tw}
}

// Telegram returns the current Telegram credentials.
func (p *Provider) Telegram() models.TelegramCredentials {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.telegram
}

// Twilio returns the current Twilio credentials.
func (p *Provider) Twilio() models.TwilioCredentials {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.twilio
}

// UpdateTelegram applies non-empty, non-masked fields.
func (p *Provider) UpdateTelegram(c models.TelegramCredentials) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if usable(c.Token) {
		p.telegram.Token = c.Token
	}
	if usable(c.ChatID) {
		p.telegram.ChatID = c.ChatID
	}
}

// UpdateTwilio applies non-empty, non-masked fields.
func (p *Provider) UpdateTwilio(c models.TwilioCredentials) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if usable(c.AccountSID) {
		p.twilio.AccountSID = c.AccountSID
	}
	if usable(c.AuthToken) {
		p.twilio.AuthToken = c.AuthToken
	}
	if usable(c.FromNumber) {
		p.twilio.FromNumber = c.FromNumber
	}
	if usable(c.ToNumber) {
		p.twilio.ToNumber = c.ToNumber
	}
}

// Masked returns the admin view: secrets shortened to a prefix plus "***".
func (p *Provider) Masked() models.MaskedKeysResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return models.MaskedKeysResponse{
		Telegram: models.MaskedTelegram{
			Token:  Mask(p.telegram.Token),
			ChatID: p.telegram.ChatID,
		},
		WhatsApp: models.MaskedTwilio{
			AccountSID: Mask(p.twilio.AccountSID),
			FromNumber: p.twilio.FromNumber,
			ToNumber:   p.twilio.ToNumber,
		},
	}
}

// Mask shortens a secret to its first characters plus "***". Empty stays
// empty so the UI can show an unset field.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > maskVisible {
		s = s[:maskVisible]
	}
	return s + "***"
}

// usable rejects empty values and masked round-trips from the admin UI.
func usable(s string) bool {
	return s != "" && !strings.HasSuffix(s, "***")
}
