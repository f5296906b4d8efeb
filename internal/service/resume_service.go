package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"resume-parser/internal/domain"
	apperrors "resume-parser/pkg/errors"
)

// Client-facing messages.
const (
	MsgNoFile           = "No file uploaded"
	MsgEmptyFilename    = "Empty filename"
	MsgOnlyPDF          = "Only PDF files allowed"
	MsgProcessingFailed = "PDF processing failed"
	MsgServerError      = "Server error"
	MsgInvalidSaveData  = "Invalid data or missing session ID"
	MsgSessionNotFound  = "Session expired or invalid session ID"
	MsgSaveFailed       = "Error saving edited data"
	MsgFileNotFound     = "File not found"
	MsgFileTooLarge     = "File too large"
)

const (
	defaultStagedName    = "upload.pdf"
	stagedFilePermission = 0o644
)

// ResumeService runs the upload, confirm and download use cases.
type ResumeService struct {
	uploadPath        string
	allowedExtensions []string
	extractor         domain.TextExtractor
	entities          domain.EntityExtractor
	store             domain.SessionStore
	ids               *SessionIDGenerator
	logger            domain.Logger
}

// NewResumeService creates a new resume service instance
func NewResumeService(
	uploadPath string,
	allowedExtensions []string,
	extractor domain.TextExtractor,
	entities domain.EntityExtractor,
	store domain.SessionStore,
	ids *SessionIDGenerator,
	logger domain.Logger,
) *ResumeService {
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return &ResumeService{
		uploadPath:        uploadPath,
		allowedExtensions: exts,
		extractor:         extractor,
		entities:          entities,
		store:             store,
		ids:               ids,
		logger:            logger,
	}
}

// AllowedFile reports whether filename carries one of the allowed extensions.
func (s *ResumeService) AllowedFile(filename string) bool {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(filename[dot+1:])
	for _, allowed := range s.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Process stages the uploaded file, extracts its text and entities and keeps
// the result as a transient session record.
func (s *ResumeService) Process(ctx context.Context, filename string, file io.Reader) (*domain.ExtractionResult, error) {
	if filename == "" {
		return nil, apperrors.NewValidationError(MsgEmptyFilename)
	}
	if !s.AllowedFile(filename) {
		return nil, apperrors.NewValidationError(MsgOnlyPDF, filename)
	}

	sessionID := s.ids.Next()
	log := domain.WithFields(s.logger, "session_id", sessionID)

	path, err := s.stage(sessionID, filename, file)
	if path != "" {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn("Failed to remove staged upload", "path", path, "error", rmErr)
			}
		}()
	}
	if err != nil {
		log.Error("Failed to stage upload", err, "filename", filename)
		return nil, apperrors.NewInternalError(MsgServerError, err)
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		log.Warn("PDF extraction failed", "filename", filename, "error", err)
		return nil, apperrors.NewExtractionError(MsgProcessingFailed, err)
	}

	result := s.entities.Extract(text)
	result.SessionID = sessionID

	if _, err := s.store.Stage(ctx, result); err != nil {
		log.Error("Failed to stage session", err)
		return nil, apperrors.NewInternalError(MsgServerError, err)
	}

	log.Info("Resume processed",
		"filename", filename,
		"emails", len(result.PersonalInfo.Emails),
		"phones", len(result.PersonalInfo.Phones),
		"experience", result.Experience,
	)
	return result, nil
}

// stage writes the upload to a session qualified path. The returned path is
// non-empty once the file exists on disk, even when writing it failed.
func (s *ResumeService) stage(sessionID, filename string, file io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.uploadPath, sessionID+"_"+SecureFilename(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, stagedFilePermission)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		f.Close()
		return path, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to close staged file: %w", err)
	}
	return path, nil
}

// SaveEdited promotes the session named by the payload's session_id, storing
// the payload as the durable record. It returns the durable file name.
func (s *ResumeService) SaveEdited(ctx context.Context, payload []byte) (string, error) {
	payload = bytes.TrimSpace(payload)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil || len(body) == 0 {
		return "", apperrors.NewValidationError(MsgInvalidSaveData)
	}
	var sessionID string
	if raw, ok := body["session_id"]; !ok || json.Unmarshal(raw, &sessionID) != nil || sessionID == "" {
		return "", apperrors.NewValidationError(MsgInvalidSaveData)
	}

	filename, err := s.store.Promote(ctx, sessionID, payload)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", apperrors.NewNotFoundError(MsgSessionNotFound)
		}
		s.logger.Error("Failed to save edited data", err, "session_id", sessionID)
		return "", apperrors.NewInternalError(MsgSaveFailed, err)
	}

	s.logger.Info("Resume data saved", "session_id", sessionID, "filename", filename)
	return filename, nil
}

// Download returns the contents of a durable file.
func (s *ResumeService) Download(ctx context.Context, filename string) ([]byte, error) {
	data, err := s.store.Fetch(ctx, filename)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, apperrors.NewNotFoundError(MsgFileNotFound)
		}
		s.logger.Error("Failed to fetch file", err, "filename", filename)
		return nil, apperrors.NewInternalError(MsgServerError, err)
	}
	return data, nil
}

// SecureFilename reduces name to a safe base name made of ASCII letters,
// digits, dots, dashes and underscores.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'):
			b.WriteRune(r)
		}
	}
	secured := strings.Trim(b.String(), "._")
	if secured == "" {
		return defaultStagedName
	}
	return secured
}
