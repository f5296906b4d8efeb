package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"resume-parser/internal/domain"
)

// FileSessionStore keeps transient session records as temp_<sid>.json files and
// hands confirmed records to a DurableStorage.
type FileSessionStore struct {
	dir       string
	durable   domain.DurableStorage
	publisher domain.EventPublisher
	logger    domain.Logger
	now       func() time.Time

	// serialises promote and expire so a record is consumed once
	mu sync.Mutex
}

// NewFileSessionStore creates a session store rooted at dir
func NewFileSessionStore(
	dir string,
	durable domain.DurableStorage,
	publisher domain.EventPublisher,
	logger domain.Logger,
) *FileSessionStore {
	return &FileSessionStore{
		dir:       dir,
		durable:   durable,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *FileSessionStore) transientPath(sessionID string) string {
	return filepath.Join(s.dir, domain.TransientFilename(sessionID))
}

// Stage writes result as the transient record of result.SessionID.
func (s *FileSessionStore) Stage(ctx context.Context, result *domain.ExtractionResult) (string, error) {
	if result == nil || !domain.ValidSessionID(result.SessionID) {
		return "", &domain.ValidationError{Field: "session_id", Message: "missing or malformed"}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(s.transientPath(result.SessionID), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write session record: %w", err)
	}

	s.logger.Debug("Session staged", "session_id", result.SessionID)
	s.publish(ctx, result.SessionID, domain.SessionStaged, domain.TransientFilename(result.SessionID))
	return result.SessionID, nil
}

// Promote stores payload, re-indented with key order kept, as the durable
// record of sessionID and removes the transient record.
func (s *FileSessionStore) Promote(ctx context.Context, sessionID string, payload []byte) (string, error) {
	if !domain.ValidSessionID(sessionID) {
		return "", domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.transientPath(sessionID)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to stat session record: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(payload), "", "  "); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}

	filename := domain.DurableFilename(sessionID)
	if err := s.durable.Save(ctx, filename, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filename, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove session record", "session_id", sessionID, "error", err)
	}

	s.publish(ctx, sessionID, domain.SessionPromoted, filename)
	return filename, nil
}

// Fetch returns the durable record named filename.
func (s *FileSessionStore) Fetch(ctx context.Context, filename string) ([]byte, error) {
	if _, ok := domain.SessionIDFromDurable(filename); !ok {
		return nil, domain.ErrFileNotFound
	}
	return s.durable.Load(ctx, filename)
}

// Expire removes transient records of sessions issued before olderThan.
func (s *FileSessionStore) Expire(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list session records: %w", err)
	}

	expired := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		if entry.IsDir() {
			continue
		}
		sessionID, ok := transientSessionID(entry.Name())
		if !ok {
			continue
		}
		issued, ok := domain.SessionTime(sessionID)
		if !ok || !issued.Before(olderThan) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return expired, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		expired++
		s.publish(ctx, sessionID, domain.SessionExpired, entry.Name())
	}
	return expired, nil
}

func transientSessionID(name string) (string, bool) {
	id, ok := strings.CutPrefix(name, domain.TransientPrefix)
	if !ok {
		return "", false
	}
	id, ok = strings.CutSuffix(id, domain.FileExtension)
	if !ok || !domain.ValidSessionID(id) {
		return "", false
	}
	return id, true
}

func (s *FileSessionStore) publish(ctx context.Context, sessionID string, state domain.SessionState, filename string) {
	if s.publisher == nil {
		return
	}
	event := domain.SessionEvent{
		SessionID:  sessionID,
		State:      state,
		Filename:   filename,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event", "session_id", sessionID, "state", string(state), "error", err)
	}
}
