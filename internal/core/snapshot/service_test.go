package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hostcraft/internal/config"
)

func TestSaveBlockSnapshotLocal(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}
	svc := NewService(cfg)

	svc.SaveBlockSnapshot(context.Background(), "https://www.airbnb.com/rooms/123?x=1", []byte("pngdata"))

	entries, err := os.ReadDir(filepath.Join(cfg.DataDir, "snapshots"))
	if err != nil {
		t.Fatalf("snapshot dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d files, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("file name: %q", name)
	}
	if strings.ContainsAny(name, ":/?&=#") {
		t.Errorf("unsanitized characters in %q", name)
	}
}

func TestSaveBlockSnapshotEmptyNoop(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}
	svc := NewService(cfg)

	svc.SaveBlockSnapshot(context.Background(), "https://www.airbnb.com/rooms/123", nil)

	if _, err := os.Stat(filepath.Join(cfg.DataDir, "snapshots")); !os.IsNotExist(err) {
		t.Error("empty snapshots must not create anything")
	}
}

func TestLocalPathRejectsTraversal(t *testing.T) {
	svc := NewService(config.Config{DataDir: "/data"})
	if _, err := svc.LocalPath("../secrets.txt"); err == nil {
		t.Error("path traversal must be rejected")
	}
	if _, err := svc.LocalPath("ok.png"); err != nil {
		t.Errorf("plain name should pass: %v", err)
	}
}
