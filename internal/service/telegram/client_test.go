package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Paratoner/internal/domain/models"
	"Paratoner/internal/service/credentials"
)

func TestSendOnce(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	creds := credentials.New(models.TelegramCredentials{Token: "tok123", ChatID: "42"}, models.TwilioCredentials{})
	c := New(creds, time.Second)
	c.SetBaseURL(srv.URL)

	if err := c.SendOnce(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/bottok123/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["chat_id"] != "42" || gotBody["text"] != "<b>hi</b>" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if gotBody["parse_mode"] != "HTML" {
		t.Fatalf("expected HTML parse mode, got %v", gotBody["parse_mode"])
	}
}

func TestSendOnceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	creds := credentials.New(models.TelegramCredentials{Token: "tok", ChatID: "1"}, models.TwilioCredentials{})
	c := New(creds, time.Second)
	c.SetBaseURL(srv.URL)

	err := c.SendOnce(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestSendOnceIncompleteCredentials(t *testing.T) {
	creds := credentials.New(models.TelegramCredentials{}, models.TwilioCredentials{})
	c := New(creds, time.Second)

	if err := c.SendOnce(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error without credentials")
	}
}
