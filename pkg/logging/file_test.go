package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(t *testing.T, format Format, level Level) (*FileLogger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: path, Format: format, Level: level})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestNewFileLogger_CreatesNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "run.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: path, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestFileLogger_LevelFiltering(t *testing.T) {
	logger, path := newTestLogger(t, FormatText, WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)

	content := readLog(t, path)
	for _, absent := range []string{"debug message", "info message"} {
		if strings.Contains(content, absent) {
			t.Errorf("log contains %q below the configured level", absent)
		}
	}
	for _, present := range []string{"warn message", "error message"} {
		if !strings.Contains(content, present) {
			t.Errorf("log missing %q", present)
		}
	}
}

func TestFileLogger_TextFormat(t *testing.T) {
	logger, path := newTestLogger(t, FormatText, DebugLevel)

	logger.Info(context.Background(), "module family compared", Fields{
		"module":  "danm13",
		"members": 3,
	})

	line := readLog(t, path)
	for _, want := range []string{"[INFO]", "module family compared", "module=danm13", "members=3"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFileLogger_TextFieldOrderStable(t *testing.T) {
	logger, path := newTestLogger(t, FormatText, DebugLevel)

	fields := Fields{"zeta": 1, "alpha": 2, "mid": 3}
	logger.Info(context.Background(), "ordered", fields)
	logger.Info(context.Background(), "ordered", fields)

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Strip timestamps; the field portion must be identical.
	suffix := func(s string) string {
		i := strings.Index(s, "[INFO]")
		return s[i:]
	}
	if suffix(lines[0]) != suffix(lines[1]) {
		t.Errorf("field order unstable:\n%s\n%s", lines[0], lines[1])
	}
	if !strings.Contains(lines[0], "alpha=2 mid=3 zeta=1") {
		t.Errorf("fields not sorted: %s", lines[0])
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, path := newTestLogger(t, FormatJSON, DebugLevel)

	logger.Warn(context.Background(), "structural comparison degraded to hashing", Fields{
		"identifier": "danm13.rim/broken.utc",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "structural comparison degraded to hashing" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["identifier"] != "danm13.rim/broken.utc" {
		t.Errorf("identifier = %v", entry["identifier"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("entry missing timestamp")
	}
}

func TestFileLogger_ErrorField(t *testing.T) {
	logger, path := newTestLogger(t, FormatJSON, DebugLevel)

	logger.Error(context.Background(), "capsule unreadable", os.ErrNotExist, Fields{
		"path": "modules/danm13.rim",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["error"] != os.ErrNotExist.Error() {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, path := newTestLogger(t, FormatText, DebugLevel)

	child := logger.WithFields(Fields{"run_id": "abc123"})
	child.Info(context.Background(), "verdict", Fields{"outcome": "modified"})

	line := readLog(t, path)
	if !strings.Contains(line, "run_id=abc123") || !strings.Contains(line, "outcome=modified") {
		t.Errorf("line %q missing inherited or call fields", line)
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, path := newTestLogger(t, FormatText, DebugLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Info(context.Background(), "concurrent", Fields{"worker": n})
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 200 {
		t.Fatalf("got %d lines, want 200", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "concurrent") {
			t.Errorf("interleaved line: %q", line)
		}
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x", nil)
	logger.Info(ctx, "x", nil)
	logger.Warn(ctx, "x", nil)
	logger.Error(ctx, "x", os.ErrClosed, nil)
	if logger.WithFields(Fields{"a": 1}) != logger {
		t.Error("WithFields should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
