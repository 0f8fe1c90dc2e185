package models

import "time"

// Channel identifies an outbound notification provider.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
)

// Kind returns the message rendering kind for the channel.
func (c Channel) Kind() MessageKind {
	if c == ChannelTelegram {
		return KindHTML
	}
	return KindPlain
}

// MessageKind selects channel-specific rendering.
type MessageKind string

const (
	KindHTML  MessageKind = "html"
	KindPlain MessageKind = "plain"
)

// Signal is one normalized trading alert. After it is appended to the ledger
// it is never mutated.
type Signal struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Symbol    string           `json:"symbol"`
	Action    string           `json:"action"`
	Price     string           `json:"price"`
	Message   string           `json:"message"`
	Delivered map[Channel]bool `json:"delivered"`
}

// ChannelStatus is the admin-facing view of one channel's state.
type ChannelStatus struct {
	Enabled    bool `json:"enabled"`
	Healthy    bool `json:"healthy"`
	RetryCount int  `json:"retry_count"`
}

// TelegramCredentials holds Telegram Bot API secrets.
type TelegramCredentials struct {
	Token  string `json:"token"`
	ChatID string `json:"chat_id"`
}

// Complete reports whether all required fields are present.
func (c TelegramCredentials) Complete() bool {
	return c.Token != "" && c.ChatID != ""
}

// TwilioCredentials holds Twilio WhatsApp secrets and addresses.
type TwilioCredentials struct {
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"auth_token"`
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
}

// Complete reports whether all required fields are present.
func (c TwilioCredentials) Complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != "" && c.ToNumber != ""
}

// ExportSnapshot is the admin backup document: ledger contents plus channel
// configuration at export time.
type ExportSnapshot struct {
	ExportTimestamp time.Time                 `json:"export_timestamp"`
	SystemVersion   string                    `json:"system_version"`
	Alarms          []Signal                  `json:"alarms"`
	ServiceConfig   map[Channel]ChannelStatus `json:"service_config"`
	TotalAlarms     int                       `json:"total_alarms"`
	UptimeSeconds   float64                   `json:"uptime_seconds"`
}
