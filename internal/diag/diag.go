// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diag is the single reporting channel for progress, warnings and
// errors raised while loading, compiling and caching taxonomies.
package diag

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Severity ranks a diagnostic message. Lower values are more severe.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Debug
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Sink accepts diagnostic messages.
type Sink interface {
	WriteMessage(text string, level Severity)
}

// ZapSink forwards messages to a zap logger at the matching level.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger. A nil logger yields a no-op sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// WriteMessage implements Sink.
func (s *ZapSink) WriteMessage(text string, level Severity) {
	switch level {
	case Error:
		s.logger.Error(text)
	case Warning:
		s.logger.Warn(text)
	case Info:
		s.logger.Info(text)
	default:
		s.logger.Debug(text)
	}
}

// Discard drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteMessage(string, Severity) {}

// Message is one recorded diagnostic.
type Message struct {
	Text  string
	Level Severity
}

// Recorder keeps messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// WriteMessage implements Sink.
func (r *Recorder) WriteMessage(text string, level Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: text, Level: level})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Count returns the number of recorded messages at level.
func (r *Recorder) Count(level Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
