package logsvc

import (
	"fmt"
	"sync"

	"github.com/facsched/backend/core"
)

// Entry is one record of a MemoryLogger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// MemoryLogger keeps log entries in memory; used in tests.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*MemoryLogger)(nil)

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
	l.mu.Unlock()
}

func (l *MemoryLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *MemoryLogger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *MemoryLogger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *MemoryLogger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *MemoryLogger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }

func (l *MemoryLogger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}
