package channel

import (
	"errors"
	"testing"

	"Paratoner/internal/domain/models"
)

func TestRegistryToggle(t *testing.T) {
	reg := NewRegistry()
	reg.Register(models.ChannelTelegram, true)

	prev, now, err := reg.Toggle(models.ChannelTelegram)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !prev || now {
		t.Fatalf("expected true->false, got %v->%v", prev, now)
	}
	if reg.IsEnabled(models.ChannelTelegram) {
		t.Fatalf("expected disabled")
	}
}

func TestRegistrySetEnabledIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Register(models.ChannelWhatsApp, false)

	if _, err := reg.SetEnabled(models.ChannelWhatsApp, true); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
	prev, err := reg.SetEnabled(models.ChannelWhatsApp, true)
	if err != nil {
		t.Fatalf("set enabled twice: %v", err)
	}
	if !prev {
		t.Fatalf("expected previous true")
	}
	if !reg.IsEnabled(models.ChannelWhatsApp) {
		t.Fatalf("expected enabled")
	}
}

func TestRegistryUnknownChannel(t *testing.T) {
	reg := NewRegistry()

	if _, _, err := reg.Toggle(models.Channel("pigeon")); !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
	if reg.IsEnabled(models.Channel("pigeon")) {
		t.Fatalf("unknown channel must read as disabled")
	}
}

func TestRegistryHealthBookkeeping(t *testing.T) {
	reg := NewRegistry()
	reg.Register(models.ChannelTelegram, true)

	reg.RecordFailure(models.ChannelTelegram)
	reg.RecordFailure(models.ChannelTelegram)
	reg.RecordHealth(models.ChannelTelegram, false)

	st, err := reg.Status(models.ChannelTelegram)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Healthy || st.RetryCount != 2 {
		t.Fatalf("unexpected status %+v", st)
	}

	// success resets the consecutive failure count
	reg.RecordHealth(models.ChannelTelegram, true)
	st, _ = reg.Status(models.ChannelTelegram)
	if !st.Healthy || st.RetryCount != 0 {
		t.Fatalf("expected reset status, got %+v", st)
	}
}

func TestRegistryChannelsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(models.ChannelTelegram, true)
	reg.Register(models.ChannelWhatsApp, false)
	reg.Register(models.ChannelTelegram, false) // no-op

	chs := reg.Channels()
	if len(chs) != 2 || chs[0] != models.ChannelTelegram || chs[1] != models.ChannelWhatsApp {
		t.Fatalf("unexpected channels %v", chs)
	}
	if !reg.IsEnabled(models.ChannelTelegram) {
		t.Fatalf("re-register must not change state")
	}
}
