package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTicketConfigStoreSetGet(t *testing.T) {
	store := NewTicketConfigStore(t.TempDir())
	store.Load()

	if _, ok := store.Get("g1"); ok {
		t.Fatal("fresh store has a config for g1")
	}

	if err := store.Set("g1", TicketConfig{StaffRoleID: "r1", CategoryID: "c1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cfg, ok := store.Get("g1")
	if !ok || cfg.StaffRoleID != "r1" || cfg.CategoryID != "c1" {
		t.Errorf("Get = %+v, %v", cfg, ok)
	}
}

func TestTicketConfigStoreLastWriteWins(t *testing.T) {
	store := NewTicketConfigStore(t.TempDir())
	store.Load()

	_ = store.Set("g1", TicketConfig{StaffRoleID: "r1", CategoryID: "c1"})
	_ = store.Set("g1", TicketConfig{StaffRoleID: "r2"})

	cfg, _ := store.Get("g1")
	if cfg.StaffRoleID != "r2" {
		t.Errorf("StaffRoleID = %q, want r2", cfg.StaffRoleID)
	}
	if cfg.CategoryID != "" {
		t.Errorf("CategoryID = %q, want empty (full overwrite)", cfg.CategoryID)
	}
}

func TestTicketConfigStoreReloadFromDisk(t *testing.T) {
	dir := t.TempDir()

	first := NewTicketConfigStore(dir)
	first.Load()
	_ = first.Set("g1", TicketConfig{StaffRoleID: "r1"})

	// A new instance, as after a process restart, must agree with the file.
	second := NewTicketConfigStore(dir)
	second.Load()
	cfg, ok := second.Get("g1")
	if !ok || cfg.StaffRoleID != "r1" {
		t.Errorf("after reload: %+v, %v", cfg, ok)
	}
}

func TestTicketConfigStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "staff_roles.json"), []byte("???"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewTicketConfigStore(dir)
	store.Load()
	if _, ok := store.Get("g1"); ok {
		t.Error("corrupt file yielded a config")
	}
	if err := store.Set("g1", TicketConfig{StaffRoleID: "r1"}); err != nil {
		t.Errorf("Set after corrupt read: %v", err)
	}
}
