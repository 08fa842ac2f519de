package testutil

import (
	"sync"

	"github.com/lucas874/machine-go/observability"
)

// MockLogger implements observability.Logger for testing, capturing every
// call for later assertion instead of writing to stdlib log output.
// Captures calls by level rather than writing to stdlib log output.
type MockLogger struct {
	Logs []LogEntry
	mu   sync.Mutex
}

// LogEntry is a single captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(msg string, fields ...any) { m.log("debug", msg, fields...) }
func (m *MockLogger) Info(msg string, fields ...any)  { m.log("info", msg, fields...) }
func (m *MockLogger) Warn(msg string, fields ...any)  { m.log("warn", msg, fields...) }
func (m *MockLogger) Error(msg string, fields ...any) { m.log("error", msg, fields...) }

// Bind returns the same logger; MockLogger doesn't need per-binding field
// tracking since tests assert on captured Logs directly.
func (m *MockLogger) Bind(fields ...any) observability.Logger { return m }

func (m *MockLogger) log(level, msg string, fields ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Message: msg, Fields: fields})
}

// HasLog reports whether a message was logged at the given level.
func (m *MockLogger) HasLog(level, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && l.Message == message {
			return true
		}
	}
	return false
}
