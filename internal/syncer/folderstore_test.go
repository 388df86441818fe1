package syncer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
)

func TestFolderStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewFolderStore(t.TempDir())
	key := "checkpoint_1_with_id.json"
	data := []byte(`{"value":{},"signature":"0x"}`)
	if err := store.Put(ctx, key, data); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q", got)
	}
}

func TestFolderStore_GetMissing(t *testing.T) {
	store := NewFolderStore(t.TempDir())
	_, err := store.Get(context.Background(), "gcsLatestIndexKey")
	if err != ErrObjectNotFound {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFolderStore_AtomicPublish(t *testing.T) {
	dir := t.TempDir()
	store := NewFolderStore(dir)
	if err := store.Put(context.Background(), "agent1/gcsMetadataKey", []byte("atomic")); err != nil {
		t.Fatal(err)
	}
	// tmp/ should be empty (rename removes partial)
	entries, _ := os.ReadDir(filepath.Join(dir, "tmp"))
	if len(entries) > 0 {
		t.Errorf("tmp should be empty after publish, got %d entries", len(entries))
	}
}

func TestFolderStore_BacksFullSyncer(t *testing.T) {
	ctx := context.Background()
	store := NewFolderStore(t.TempDir())
	id := StoreIdentity{Bucket: "local-bucket", Folder: "agent1", Scheme: "file"}
	s, err := NewStoreSyncer(store, id, logr.Discard())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.WriteCheckpoint(ctx, testCheckpoint(9)); err != nil {
		t.Fatal(err)
	}
	got, err := s.FetchCheckpoint(ctx, 9)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Index() != 9 {
		t.Fatalf("expected checkpoint 9, got %+v", got)
	}
	if loc := s.AnnouncementLocation(); loc != "file://local-bucket/agent1/announcement.json" {
		t.Fatalf("unexpected location %q", loc)
	}
}
