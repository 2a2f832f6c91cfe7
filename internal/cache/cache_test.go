package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/detent/runview/internal/source"
	"github.com/detent/runview/internal/workflow"
)

func openTestStore(t *testing.T) *TagStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestOpen_CreatesDatabase(t *testing.T) {
	s := openTestStore(t)

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("database file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("database permissions = %o, want 600", perm)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Store(ctx, "abc", workflow.CachedTag{Tag: "wdispatch", Status: workflow.TriggersFound}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()

	got, ok := s.Lookup(ctx, "abc")
	if !ok || got.Tag != "wdispatch" {
		t.Errorf("Lookup() after reopen = %+v, %v", got, ok)
	}
}

func TestTagStore_StoreLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entry := workflow.CachedTag{
		Tag:    "rdispatchwdispatch",
		Status: workflow.TriggersFound,
		Events: []workflow.TriggerEvent{
			{Event: "repository_dispatch", Types: []string{"deploy"}},
			{Event: "workflow_dispatch"},
		},
	}
	if err := s.Store(ctx, "hash-1", entry); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, ok := s.Lookup(ctx, "hash-1")
	if !ok {
		t.Fatal("Lookup() miss, want hit")
	}
	if !reflect.DeepEqual(got, entry) {
		t.Errorf("Lookup() = %+v, want %+v", got, entry)
	}

	if _, ok := s.Lookup(ctx, "missing"); ok {
		t.Error("Lookup() hit for unknown hash")
	}

	// Overwrite
	entry.Tag = "wdispatch"
	if err := s.Store(ctx, "hash-1", entry); err != nil {
		t.Fatalf("Store() overwrite error = %v", err)
	}
	if got, _ := s.Lookup(ctx, "hash-1"); got.Tag != "wdispatch" {
		t.Errorf("Lookup() after overwrite Tag = %q, want wdispatch", got.Tag)
	}

	if err := s.Store(ctx, "", entry); err == nil {
		t.Error("Store() with empty hash should fail")
	}
}

func TestTagStore_Prune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.Store(ctx, "old", workflow.CachedTag{Status: workflow.NoTriggers}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	if err := s.Store(ctx, "new", workflow.CachedTag{Status: workflow.NoTriggers}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	removed, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, ok := s.Lookup(ctx, "old"); ok {
		t.Error("old entry should be pruned")
	}
	if _, ok := s.Lookup(ctx, "new"); !ok {
		t.Error("new entry should survive")
	}
}

func TestTagStore_WithTagger(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	src := source.Memory{"ci.yml": "on:\n  workflow_dispatch:\n  push:\n"}
	tagger := workflow.NewTagger(src, workflow.WithCache(s))

	if got := tagger.Tag(ctx, "ci.yml"); got != "wdispatch" {
		t.Fatalf("Tag() = %q, want wdispatch", got)
	}

	cached, ok := s.Lookup(ctx, source.ContentHash(src["ci.yml"]))
	if !ok {
		t.Fatal("tagger did not populate the cache")
	}
	if cached.Tag != "wdispatch" || len(cached.Events) != 2 {
		t.Errorf("cached = %+v", cached)
	}
}
