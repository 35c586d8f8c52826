package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

// JSONFileStore keeps the feed as a pretty-printed JSON array on disk.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.FeedStore = (*JSONFileStore)(nil)

// NewJSONFileStore binds the store to a feed file path.
func NewJSONFileStore(path string, log *slog.Logger) *JSONFileStore {
	return &JSONFileStore{path: path, logger: log}
}

// Path returns the feed file location.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the feed. A missing file is an empty feed; an unreadable or
// malformed one is reported as domain.ErrStoreCorrupt.
func (s *JSONFileStore) Load(ctx context.Context) ([]domain.CommunicationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.debug("feed file not found", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreCorrupt, s.path, err)
	}

	records, err := decodeFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStoreCorrupt, s.path, err)
	}

	s.debug("feed loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save replaces the feed file. The data goes to a temp file that is renamed
// over the feed, so on failure the previous content stays untouched.
func (s *JSONFileStore) Save(ctx context.Context, records []domain.CommunicationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := encodeFeed(records)
	if err != nil {
		return &domain.WriteError{Path: s.path, Err: err}
	}

	if err := writeFileAtomic(s.path, payload); err != nil {
		return &domain.WriteError{Path: s.path, Err: err}
	}

	if s.logger != nil {
		s.logger.Info("feed written", "path", s.path, "records", len(records))
	}
	return nil
}

func decodeFeed(raw []byte) ([]domain.CommunicationRecord, error) {
	var records []domain.CommunicationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeFeed(records []domain.CommunicationRecord) ([]byte, error) {
	if records == nil {
		records = []domain.CommunicationRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}

func (s *JSONFileStore) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
