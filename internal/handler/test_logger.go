package handler

import (
	"sync"

	"resume-parser/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct {
	mu      sync.Mutex
	entries []string
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+msg)
}

// Entries returns the level and message of every logged entry.
func (l *MockHandlerLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             { l.record("INFO", msg) }
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) { l.record("ERROR", msg) }
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            { l.record("DEBUG", msg) }
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             { l.record("WARN", msg) }

var _ domain.Logger = (*MockHandlerLogger)(nil)
