package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/antoineross/supabase-go"
	storage_go "github.com/supabase-community/storage-go"

	"hostcraft/internal/config"
	"hostcraft/internal/logger"
)

// Service persists block snapshots, the page screenshots taken when a
// target refuses to render. They exist purely for diagnostics: operators
// use them to see what the bot protection served instead of the listing.
type Service struct {
	log            *logger.Logger
	cfg            config.Config
	supabaseClient *supabase.Client
}

func NewService(cfg config.Config) *Service {
	s := &Service{log: logger.New("SnapshotService"), cfg: cfg}
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
		if err != nil {
			s.log.LogWarnf("Supabase client init failed, snapshots stay local: %v", err)
		} else {
			s.supabaseClient = client
		}
	}
	return s
}

// SaveBlockSnapshot stores a PNG captured at block-detection time. It is
// best-effort: failures are logged and swallowed so a broken snapshot
// store can never affect a report.
func (s *Service) SaveBlockSnapshot(ctx context.Context, targetURL string, png []byte) {
	if len(png) == 0 {
		return
	}
	name := time.Now().Format("20060102_150405") + "_" + sanitize(targetURL) + ".png"

	if s.supabaseClient != nil && s.cfg.SupabaseBucket != "" {
		bucketPath := filepath.ToSlash(filepath.Join("blocked", name))
		mimeType := "image/png"
		if _, err := s.supabaseClient.Storage.UploadFile(s.cfg.SupabaseBucket, bucketPath, bytes.NewReader(png), storage_go.FileOptions{ContentType: &mimeType}); err != nil {
			s.log.LogWarnf("snapshot upload failed for %s: %v", targetURL, err)
		} else {
			s.log.LogInfof("block snapshot uploaded: %s/%s", s.cfg.SupabaseBucket, bucketPath)
			return
		}
	}

	dir := filepath.Join(s.cfg.DataDir, "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.LogWarnf("snapshot dir creation failed: %v", err)
		return
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		s.log.LogWarnf("snapshot write failed: %v", err)
		return
	}
	s.log.LogInfof("block snapshot saved: %s", path)
}

// LocalPath returns where a snapshot with the given name would live on
// disk. Used by the files route when serving snapshots locally.
func (s *Service) LocalPath(name string) (string, error) {
	clean := filepath.Base(name)
	if clean != name || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	return filepath.Join(s.cfg.DataDir, "snapshots", clean), nil
}

func sanitize(u string) string {
	replacer := strings.NewReplacer(":", "-", "/", "-", "?", "-", "&", "-", "=", "-", "#", "-", "%", "")
	out := replacer.Replace(u)
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
