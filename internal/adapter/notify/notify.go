// Package notify holds the ways a resolver can surface messages: the process
// log, a terminal, or a buffer read back by an API session.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/martijn/stockpoint/internal/core/resolver"
	"go.uber.org/zap"
)

// Log writes notifications to a zap logger. Warnings are logged at warn
// level, everything else at info.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("notify")}
}

func (n *Log) Notify(title, message string, severity resolver.Severity) {
	fields := []zap.Field{
		zap.String("title", title),
		zap.String("severity", string(severity)),
	}
	if severity == resolver.SeverityWarning {
		n.log.Warn(message, fields...)
		return
	}
	n.log.Info(message, fields...)
}

// Writer prints notifications as single lines, for interactive CLI use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(title, message string, severity resolver.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s: %s\n", severity, title, message)
}

// Notification is one message captured by a Recorder.
type Notification struct {
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Severity resolver.Severity `json:"severity"`
	At       time.Time         `json:"at"`
}

// Recorder buffers notifications until they are drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(title, message string, severity resolver.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{
		Title:    title,
		Message:  message,
		Severity: severity,
		At:       time.Now(),
	})
}

// Drain returns the buffered notifications, oldest first, and empties the
// buffer.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}

// Fanout delivers every notification to each of its notifiers in order.
type Fanout []resolver.Notifier

func (f Fanout) Notify(title, message string, severity resolver.Severity) {
	for _, n := range f {
		n.Notify(title, message, severity)
	}
}
