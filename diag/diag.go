// Package diag collects the messages produced while converting a scene.
package diag

import (
	"fmt"
	"io"
	"log"
	"sync"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Status is the highest severity logged so far.
type Status = Severity

type Message struct {
	Severity Severity
	Text     string
}

func (m Message) String() string {
	return m.Severity.String() + ": " + m.Text
}

// Logger records messages in order. Status only escalates.
// A Logger is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	messages []Message
	status   Status
	// Echo receives every message as it is logged when set.
	Echo *log.Logger
}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Log(severity Severity, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{Severity: severity, Text: text})
	if severity > l.status {
		l.status = severity
	}
	if l.Echo != nil {
		l.Echo.Print(Message{Severity: severity, Text: text})
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(Info, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Log(Warning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Log(Error, fmt.Sprintf(format, args...))
}

func (l *Logger) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Logger) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...)
}

// Count returns the number of messages with the given severity.
func (l *Logger) Count(severity Severity) int {
	n := 0
	for _, m := range l.Messages() {
		if m.Severity == severity {
			n++
		}
	}
	return n
}

// Child returns an empty logger whose messages can be merged back later.
// Used to keep the message order stable when work runs in parallel.
func (l *Logger) Child() *Logger {
	return &Logger{}
}

// Merge appends all messages of c, in order.
func (l *Logger) Merge(c *Logger) {
	for _, m := range c.Messages() {
		l.Log(m.Severity, m.Text)
	}
}

func (l *Logger) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, m := range l.Messages() {
		c, err := fmt.Fprintln(w, m)
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
