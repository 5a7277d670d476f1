package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

// TestNewLogger verifies basic logger creation
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"JSON Info", "json", "info"},
		{"JSON Debug", "json", "debug"},
		{"JSON Error", "json", "error"},
		{"Console Info", "console", "info"},
		{"Text Warn", "text", "warn"},
		{"Empty Format", "", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(Config{
				Format: tt.format,
				Level:  tt.level,
				Output: &buf,
			})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			logger.Error().Msg("heartbeat")
			if !strings.Contains(buf.String(), "heartbeat") {
				t.Errorf("Expected heartbeat in output, got: %s", buf.String())
			}
		})
	}
}

// TestNewLogger_InvalidLevel verifies error handling for invalid log level
func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(Config{
		Format: "json",
		Level:  "invalid",
	})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

// TestNewLogger_InvalidFormat verifies error handling for invalid log format
func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(Config{
		Format: "xml",
		Level:  "info",
	})
	if err == nil {
		t.Error("Expected error for invalid log format")
	}
}

// TestLogLevelFiltering verifies that log levels are properly filtered
func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewLogger(Config{Format: "json", Level: "warn", Output: &buf})

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should be filtered at Warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info message should be filtered at Warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should be present")
	}
	if !strings.Contains(output, "error message") {
		t.Error("Error message should be present")
	}
}

// TestJSONOutput verifies JSON format output
func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewLogger(Config{Format: "json", Level: "info", Output: &buf})

	logger.Info().Str("foo", "bar").Msg("json test")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v, output: %s", err, buf.String())
	}

	if entry["message"] != "json test" {
		t.Errorf("Expected message='json test', got %v", entry["message"])
	}
	if entry["foo"] != "bar" {
		t.Errorf("Expected foo='bar', got %v", entry["foo"])
	}
	if entry["component"] != "slabkit" {
		t.Errorf("Expected component='slabkit', got %v", entry["component"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("Expected a timestamp field")
	}
}

// TestDiscardLogger verifies the discard logger for tests
func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	logger.Info().Msg("this should be discarded")
	logger.Error().Msg("this too")
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got level %v", logger.GetLevel())
	}
}

// TestDefaultLogger verifies the process default can be swapped
func TestDefaultLogger(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	if prev.GetLevel() != zerolog.WarnLevel {
		t.Errorf("Expected default level warn, got %v", prev.GetLevel())
	}

	var buf bytes.Buffer
	SetDefault(zerolog.New(&buf))
	swapped := Default()
	swapped.Warn().Msg("swapped")
	if !strings.Contains(buf.String(), "swapped") {
		t.Errorf("Expected swapped logger to receive output, got: %s", buf.String())
	}
}

// TestLoggingMetrics verifies the metrics hook counts entries by level
func TestLoggingMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewLogger(Config{Format: "json", Level: "info", Output: &buf})

	beforeInfo := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("info"))
	beforeError := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("error"))

	logger.Info().Msg("one")
	logger.Info().Msg("two")
	logger.Error().Msg("three")
	logger.Debug().Msg("filtered")

	if got := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("info")) - beforeInfo; got != 2 {
		t.Errorf("Expected 2 info entries counted, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("error")) - beforeError; got != 1 {
		t.Errorf("Expected 1 error entry counted, got %v", got)
	}
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Format != "json" {
		t.Errorf("Expected default format='json', got %s", cfg.Format)
	}
	if cfg.Level != "warn" {
		t.Errorf("Expected default level='warn', got %s", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("Expected default output to be set")
	}
}
