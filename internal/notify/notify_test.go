package notify

import (
	"testing"
	"time"
)

func TestHubNotifyAndExpiry(t *testing.T) {
	h := NewHub(3 * time.Second)
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	h.SetClock(func() time.Time { return now })

	h.Notify("Week data saved successfully!", Success)
	h.Notify("Error loading week", Error)

	active := h.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}
	if active[0].Severity != Success || active[1].Severity != Error {
		t.Fatalf("unexpected severities: %+v", active)
	}
	if active[0].ID == active[1].ID {
		t.Fatalf("ids must be unique")
	}

	// Past the TTL everything auto-dismisses.
	now = now.Add(4 * time.Second)
	if got := h.Active(); len(got) != 0 {
		t.Fatalf("expected auto-expiry, got %v", got)
	}
}

func TestHubDismiss(t *testing.T) {
	h := NewHub(time.Minute)
	h.Notify("one", Info)
	h.Notify("two", Info)
	first := h.Active()[0]
	h.Dismiss(first.ID)
	active := h.Active()
	if len(active) != 1 || active[0].Message != "two" {
		t.Fatalf("unexpected after dismiss: %+v", active)
	}
}

func TestMultiFansOut(t *testing.T) {
	a := NewHub(time.Minute)
	b := NewHub(time.Minute)
	Multi{a, b}.Notify("saved", Success)
	if len(a.Active()) != 1 || len(b.Active()) != 1 {
		t.Fatalf("expected both sinks to receive the notification")
	}
}
