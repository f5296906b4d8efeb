package domain

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sessionIDPattern = regexp.MustCompile(`^\d{8}_\d{6}_\d{6}$`)

// ValidSessionID reports whether id has the YYYYMMDD_HHMMSS_ffffff shape.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

const sessionIDTimeLayout = "20060102_150405"

// FormatSessionID renders t as YYYYMMDD_HHMMSS_ffffff.
func FormatSessionID(t time.Time) string {
	return t.Format(sessionIDTimeLayout) + "_" + fmt.Sprintf("%06d", t.Nanosecond()/int(time.Microsecond))
}

// SessionTime returns the local time a session id was issued at.
func SessionTime(id string) (time.Time, bool) {
	if !ValidSessionID(id) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(sessionIDTimeLayout, id[:15], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	micros, err := strconv.Atoi(id[16:])
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(time.Duration(micros) * time.Microsecond), true
}

// Persisted file names.
const (
	TransientPrefix = "temp_"
	DurablePrefix   = "resume_data_"
	FileExtension   = ".json"
)

// TransientFilename is the name of the staged record of sessionID.
func TransientFilename(sessionID string) string {
	return TransientPrefix + sessionID + FileExtension
}

// DurableFilename is the name of the confirmed record of sessionID.
func DurableFilename(sessionID string) string {
	return DurablePrefix + sessionID + FileExtension
}

// SessionIDFromDurable extracts the session id of a durable file name.
func SessionIDFromDurable(name string) (string, bool) {
	id, ok := strings.CutPrefix(name, DurablePrefix)
	if !ok {
		return "", false
	}
	id, ok = strings.CutSuffix(id, FileExtension)
	if !ok || !ValidSessionID(id) {
		return "", false
	}
	return id, true
}

// SessionState is the lifecycle state of a staged extraction.
type SessionState string

const (
	SessionStaged   SessionState = "staged"
	SessionPromoted SessionState = "promoted"
	SessionExpired  SessionState = "expired"
)

// SessionEvent describes a lifecycle transition of a session.
type SessionEvent struct {
	SessionID  string       `json:"session_id"`
	State      SessionState `json:"state"`
	Filename   string       `json:"filename,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SessionStore keeps extraction results between upload and confirmation.
type SessionStore interface {
	// Stage stores result as a transient record keyed by result.SessionID.
	Stage(ctx context.Context, result *ExtractionResult) (string, error)
	// Promote writes payload to durable storage and drops the transient record.
	Promote(ctx context.Context, sessionID string, payload []byte) (string, error)
	// Fetch reads a durable file by name.
	Fetch(ctx context.Context, filename string) ([]byte, error)
	// Expire drops transient records staged before olderThan.
	Expire(ctx context.Context, olderThan time.Time) (int, error)
}

// DurableStorage persists confirmed files.
type DurableStorage interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

// EventPublisher announces session lifecycle transitions.
type EventPublisher interface {
	Publish(ctx context.Context, event SessionEvent) error
}
