package models

// WebhookRequest is the inbound TradingView-style payload. Absent fields are
// replaced with the historical sentinel values.
type WebhookRequest struct {
	Symbol  string `json:"symbol" default:"N/A"`
	Action  string `json:"action" default:"N/A"`
	Price   string `json:"price" default:"N/A"`
	Message string `json:"message" default:"Sinyal"`
}

// IngestAck acknowledges a processed webhook.
type IngestAck struct {
	Success  bool   `json:"success"`
	AlarmID  string `json:"alarm_id"`
	Telegram bool   `json:"telegram"`
	WhatsApp bool   `json:"whatsapp"`
}

// ToggleServiceRequest flips a channel's enabled flag.
type ToggleServiceRequest struct {
	Service string `json:"service" validate:"required,oneof=telegram whatsapp"`
}

// ToggleServiceResponse reports the toggle outcome.
type ToggleServiceResponse struct {
	Service  string `json:"service"`
	Enabled  bool   `json:"enabled"`
	Previous bool   `json:"previous"`
}

// TestMessageRequest sends a one-off message through the retry engine.
type TestMessageRequest struct {
	Service string `json:"service" validate:"required,oneof=telegram whatsapp"`
	Message string `json:"message" default:"Test mesajı"`
}

// TestMessageResponse reports a test delivery outcome.
type TestMessageResponse struct {
	Service string `json:"service"`
	Success bool   `json:"success"`
}

// UpdateKeysRequest carries admin credential updates. Masked values (suffix
// "***") and empty fields are ignored.
type UpdateKeysRequest struct {
	Telegram *TelegramCredentials `json:"telegram,omitempty"`
	WhatsApp *TwilioCredentials   `json:"whatsapp,omitempty"`
}

// MaskedKeysResponse is the masked credential view for the admin UI.
type MaskedKeysResponse struct {
	Telegram MaskedTelegram `json:"telegram"`
	WhatsApp MaskedTwilio   `json:"whatsapp"`
}

type MaskedTelegram struct {
	Token  string `json:"token"`
	ChatID string `json:"chat_id"`
}

type MaskedTwilio struct {
	AccountSID string `json:"account_sid"`
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
}

// SystemStats is the admin dashboard metrics view.
type SystemStats struct {
	TotalSignals       int     `json:"total_signals"`
	AverageDelayMs     float64 `json:"average_delay"`
	TelegramHealth     bool    `json:"telegram_health"`
	WhatsAppHealth     bool    `json:"whatsapp_health"`
	TelegramRetryCount int     `json:"telegram_retry_count"`
	WhatsAppRetryCount int     `json:"whatsapp_retry_count"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
}
