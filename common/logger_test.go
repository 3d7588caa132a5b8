package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{
		level:  LevelWarn,
		output: &buf,
		logger: log.New(&buf, "", 0),
	}

	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "WARN") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{
		level:  LevelDebug,
		output: &buf,
		logger: log.New(&buf, "", 0),
	}

	logger.Info("Connecting to %s", "Frankfurt")

	output := buf.String()

	if !strings.Contains(output, time.Now().Format("2006/01/02")) {
		t.Error("Log should contain date in YYYY/MM/DD format")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Log should contain level indicator")
	}
	if !strings.Contains(output, "Connecting to Frankfurt") {
		t.Error("Log should contain formatted message")
	}
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	largeContent := strings.Repeat("x", 1024*1024)
	if err := os.WriteFile(logFile, []byte(largeContent), 0600); err != nil {
		t.Fatal(err)
	}

	logger := &AppLogger{
		level:       LevelInfo,
		maxFileSize: 512 * 1024,
		maxBackups:  2,
	}

	logger.rotateIfNeeded(logFile)

	if info, err := os.Stat(logFile); err == nil && info.Size() > 0 {
		t.Error("Original log file should be removed or empty after rotation")
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "test.log.*"))
	if len(matches) == 0 {
		t.Error("Backup file should be created after rotation")
	}
}
