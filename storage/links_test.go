package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLinkStoreAddAndList(t *testing.T) {
	store := NewFileLinkStore(t.TempDir())

	if links := store.PlayerLinks("u1"); len(links) != 0 {
		t.Fatalf("fresh store has %d links, want 0", len(links))
	}

	if err := store.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#ABC123"}); err != nil {
		t.Fatalf("AddPlayerLink: %v", err)
	}
	if err := store.AddPlayerLink("u1", Link{Name: "AltAccount", Tag: "#DEF456"}); err != nil {
		t.Fatalf("AddPlayerLink: %v", err)
	}

	links := store.PlayerLinks("u1")
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	// Insertion order is preserved.
	if links[0].Tag != "#ABC123" || links[1].Tag != "#DEF456" {
		t.Errorf("unexpected order: %+v", links)
	}

	if links := store.PlayerLinks("u2"); len(links) != 0 {
		t.Errorf("other user has %d links, want 0", len(links))
	}
}

func TestFileLinkStoreDuplicateRejected(t *testing.T) {
	store := NewFileLinkStore(t.TempDir())

	if err := store.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#ABC123"}); err != nil {
		t.Fatalf("AddPlayerLink: %v", err)
	}

	// Same tag again, in a different case.
	err := store.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#abc123"})
	if !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("duplicate add error = %v, want ErrAlreadyLinked", err)
	}
	if links := store.PlayerLinks("u1"); len(links) != 1 {
		t.Errorf("store changed by rejected add: %+v", links)
	}

	// Same tag for a different owner is fine.
	if err := store.AddPlayerLink("u2", Link{Name: "ArchQueen", Tag: "#ABC123"}); err != nil {
		t.Errorf("same tag for other user: %v", err)
	}
}

func TestFileLinkStoreRemove(t *testing.T) {
	store := NewFileLinkStore(t.TempDir())

	_ = store.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#ABC123"})
	_ = store.AddPlayerLink("u1", Link{Name: "AltAccount", Tag: "#DEF456"})

	// Removing an absent tag is a no-op.
	if err := store.RemovePlayerLink("u1", "#NOPE"); err != nil {
		t.Fatalf("RemovePlayerLink absent: %v", err)
	}
	if links := store.PlayerLinks("u1"); len(links) != 2 {
		t.Fatalf("no-op removal changed store: %+v", links)
	}

	if err := store.RemovePlayerLink("u1", "#ABC123"); err != nil {
		t.Fatalf("RemovePlayerLink: %v", err)
	}
	links := store.PlayerLinks("u1")
	if len(links) != 1 || links[0].Tag != "#DEF456" {
		t.Errorf("after removal: %+v", links)
	}
}

func TestFileLinkStoreClanLinks(t *testing.T) {
	store := NewFileLinkStore(t.TempDir())

	if err := store.AddClanLink("g1", Link{Name: "Berries", Tag: "#CLAN1"}); err != nil {
		t.Fatalf("AddClanLink: %v", err)
	}
	if err := store.AddClanLink("g1", Link{Name: "Berries", Tag: "#clan1"}); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("duplicate clan add error = %v, want ErrAlreadyLinked", err)
	}
	if err := store.RemoveClanLink("g1", "#CLAN1"); err != nil {
		t.Fatalf("RemoveClanLink: %v", err)
	}
	if clans := store.ClanLinks("g1"); len(clans) != 0 {
		t.Errorf("after removal: %+v", clans)
	}
}

func TestFileLinkStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "linked_players.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileLinkStore(dir)
	if links := store.PlayerLinks("u1"); len(links) != 0 {
		t.Errorf("corrupt file yielded %d links, want 0", len(links))
	}
	// And the store is still writable afterwards.
	if err := store.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#ABC123"}); err != nil {
		t.Errorf("AddPlayerLink after corrupt read: %v", err)
	}
	if links := store.PlayerLinks("u1"); len(links) != 1 {
		t.Errorf("got %d links, want 1", len(links))
	}
}

func TestFileLinkStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewFileLinkStore(dir)
	_ = first.AddPlayerLink("u1", Link{Name: "ArchQueen", Tag: "#ABC123"})

	second := NewFileLinkStore(dir)
	links := second.PlayerLinks("u1")
	if len(links) != 1 || links[0].Name != "ArchQueen" {
		t.Errorf("second instance sees %+v", links)
	}
}
