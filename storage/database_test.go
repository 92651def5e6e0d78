package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db := &SQLiteDB{Path: filepath.Join(t.TempDir(), "bot.db")}
	if err := db.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTicketEventLog(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().Format(time.RFC3339)
	events := []TicketEvent{
		{GuildID: "g1", ChannelID: "ch1", UserID: "u1", ActorID: "u1", Action: TicketOpened, PlayerTag: "#ABC123", Timestamp: now},
		{GuildID: "g1", ChannelID: "ch1", UserID: "u1", ActorID: "staff1", Action: TicketDeleted, PlayerTag: "#ABC123", Timestamp: now},
		{GuildID: "g2", ChannelID: "ch2", UserID: "u2", ActorID: "u2", Action: TicketOpened, Timestamp: now},
	}
	for _, e := range events {
		if err := db.AddTicketEvent(e); err != nil {
			t.Fatalf("AddTicketEvent: %v", err)
		}
	}

	got, err := db.GetTicketEvents("g1", 10)
	if err != nil {
		t.Fatalf("GetTicketEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events for g1, want 2", len(got))
	}
	// Newest first.
	if got[0].Action != TicketDeleted || got[1].Action != TicketOpened {
		t.Errorf("unexpected order: %s, %s", got[0].Action, got[1].Action)
	}
	if got[0].ActorID != "staff1" || got[0].UserID != "u1" {
		t.Errorf("unexpected delete event: %+v", got[0])
	}
}

func TestTicketEventLogLimit(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().Format(time.RFC3339)
	for i := 0; i < 5; i++ {
		_ = db.AddTicketEvent(TicketEvent{GuildID: "g1", ChannelID: "ch", UserID: "u", ActorID: "u", Action: TicketOpened, Timestamp: now})
	}

	got, err := db.GetTicketEvents("g1", 3)
	if err != nil {
		t.Fatalf("GetTicketEvents: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d events, want 3", len(got))
	}
}

func TestGetTicketEventsEmptyGuild(t *testing.T) {
	db := newTestDB(t)
	got, err := db.GetTicketEvents("nope", 10)
	if err != nil {
		t.Fatalf("GetTicketEvents: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}
