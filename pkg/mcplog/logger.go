// Package mcplog writes one JSONL line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Call outcomes.
const (
	StatusOK        = "ok"
	StatusToolError = "tool_error" // handler returned an error result
	StatusError     = "error"      // handler returned a Go error
)

// Entry is the schema for one logged tool call.
type Entry struct {
	Time          string         `json:"ts"`
	Tool          string         `json:"tool"`
	Args          map[string]any `json:"args"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// Open opens path for appending, creating parent directories. An empty path
// returns nil, nil; callers treat a nil Logger as disabled.
func Open(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(e)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// NewEntry describes a finished call that started at start.
func NewEntry(start time.Time, req mcp.CallToolRequest, result *mcp.CallToolResult, err error) Entry {
	e := Entry{
		Time:          start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Args:          Redact(req.GetArguments()),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
		Status:        Status(result, err),
	}
	if cerr := CallError(result, err); cerr != nil {
		e.Error = cerr.Error()
	}
	return e
}

// Status classifies a call outcome.
func Status(result *mcp.CallToolResult, err error) string {
	switch {
	case err != nil:
		return StatusError
	case result != nil && result.IsError:
		return StatusToolError
	default:
		return StatusOK
	}
}

// CallError returns err, or the text of an error result, or nil.
func CallError(result *mcp.CallToolResult, err error) error {
	if err != nil {
		return err
	}
	if result == nil || !result.IsError {
		return nil
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return errors.New(tc.Text)
		}
	}
	return errors.New("tool error")
}

// maxArgLen bounds logged string arguments.
const maxArgLen = 64

// Redact copies args, replacing strings longer than maxArgLen with a
// "<key>_len" entry.
func Redact(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > maxArgLen {
			out[k+"_len"] = len(s)
			continue
		}
		out[k] = v
	}
	return out
}

// ResponseBytes returns the encoded size of a result's content, or 0.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is replaceable in tests.
var Now = time.Now
