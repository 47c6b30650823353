package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Level is the log severity: DEBUG, INFO, WARN, ERROR.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelString(l Level) string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ErrObj for error logs
type ErrObj struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Entry strictly follows the log schema used across the backend.
type Entry struct {
	Timestamp  string         `json:"timestamp"`            // ISO 8601 (UTC)
	Level      string         `json:"level"`                // INFO | DEBUG | WARN | ERROR
	Service    string         `json:"service"`              // e.g., booking-service
	Action     string         `json:"action"`               // event name, e.g., booking_accepted
	Message    string         `json:"message"`              // human-readable
	Hostname   string         `json:"hostname"`             // container/host
	RequestID  string         `json:"request_id,omitempty"` // correlation id
	BookingID  string         `json:"booking_id,omitempty"` // when applicable
	Error      *ErrObj        `json:"error,omitempty"`      // only for ERROR
	Additional map[string]any `json:"additional,omitempty"` // optional extras
}

type Logger struct {
	service  string
	minLevel Level
	hostname string
	pretty   bool // if true, json.MarshalIndent

	outWriter io.Writer
	errWriter io.Writer
	mu        sync.Mutex
}

// NewLogger writes JSON lines to stdout (errors to stderr).
func NewLogger(service string) *Logger {
	h, _ := os.Hostname()
	return &Logger{
		service:   service,
		minLevel:  ParseLevel(os.Getenv("LOG_LEVEL")),
		hostname:  h,
		pretty:    strings.ToLower(os.Getenv("LOG_PRETTY")) == "true",
		outWriter: os.Stdout,
		errWriter: os.Stderr,
	}
}

// NewTestLogger discards all output. For unit tests that inject a logger.
func NewTestLogger() *Logger {
	return &Logger{
		service:   "test",
		minLevel:  LevelError + 1,
		outWriter: io.Discard,
		errWriter: io.Discard,
	}
}

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e) }

func (l *Logger) Fatal(e Entry) {
	// include stack automatically for fatal
	if e.Error == nil {
		e.Error = &ErrObj{Msg: e.Message, Stack: string(debug.Stack())}
	} else if e.Error.Stack == "" {
		e.Error.Stack = string(debug.Stack())
	}
	l.log(LevelError, e)
	os.Exit(1)
}

func (l *Logger) log(level Level, e Entry) {
	if level < l.minLevel {
		return
	}

	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if e.Level == "" {
		e.Level = levelString(level)
	}
	if e.Service == "" {
		e.Service = l.service
	}
	if e.Hostname == "" {
		e.Hostname = l.hostname
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	writer := l.outWriter
	if level == LevelError {
		writer = l.errWriter
	}

	var b []byte
	var err error
	if l.pretty {
		b, err = json.MarshalIndent(e, "", "  ")
	} else {
		b, err = json.Marshal(e)
	}
	if err != nil {
		fmt.Fprintf(l.errWriter, `{"timestamp":"%s","level":"ERROR","service":"%s","message":"failed to marshal log: %v"}`+"\n",
			time.Now().UTC().Format(time.RFC3339Nano), l.service, err)
		return
	}

	_, _ = writer.Write(b)
	_, _ = writer.Write([]byte("\n"))
}
