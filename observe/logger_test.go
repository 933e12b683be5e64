package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_IncludesCallFields verifies call fields are present in log output.
func TestLogger_IncludesCallFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{
		Component: "supplier",
		Operation: "place_order",
	}

	callLogger := logger.WithCall(meta)
	callLogger.Info(context.Background(), "test message")

	output := buf.String()

	// Parse JSON output
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, output)
	}

	// Verify call fields
	if v, ok := logEntry["call.id"].(string); !ok || v != "supplier.place_order" {
		t.Errorf("expected call.id='supplier.place_order', got %v", logEntry["call.id"])
	}
	if v, ok := logEntry["call.component"].(string); !ok || v != "supplier" {
		t.Errorf("expected call.component='supplier', got %v", logEntry["call.component"])
	}
	if v, ok := logEntry["call.operation"].(string); !ok || v != "place_order" {
		t.Errorf("expected call.operation='place_order', got %v", logEntry["call.operation"])
	}
}

// TestLogger_IncludesDuration verifies duration_ms field is present.
func TestLogger_IncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "test_call"}
	callLogger := logger.WithCall(meta)

	callLogger.Info(context.Background(), "test message",
		Field{Key: "duration_ms", Value: 50.5},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["duration_ms"].(float64); !ok || v != 50.5 {
		t.Errorf("expected duration_ms=50.5, got %v", logEntry["duration_ms"])
	}
}

// TestLogger_ErrorLevel verifies error log level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "error_call"}
	callLogger := logger.WithCall(meta)

	callLogger.Error(context.Background(), "call failed",
		Field{Key: "error", Value: "connection timeout"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	// Verify level
	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}

	// Verify error field
	if v, ok := logEntry["error"].(string); !ok || v != "connection timeout" {
		t.Errorf("expected error='connection timeout', got %v", logEntry["error"])
	}
}

// TestLogger_InfoLevel verifies info log level.
func TestLogger_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "info_call"}
	callLogger := logger.WithCall(meta)

	callLogger.Info(context.Background(), "operation complete")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "info" {
		t.Errorf("expected level='info', got %v", logEntry["level"])
	}
}

// TestLogger_CredentialsRedacted verifies credential fields are not logged.
func TestLogger_CredentialsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "sensitive_call"}
	callLogger := logger.WithCall(meta)

	// Simulate logging with an "authorization" field that should be redacted
	callLogger.Info(context.Background(), "call executed",
		Field{Key: "authorization", Value: "Bearer secret_token_123"},
	)

	output := buf.String()

	// The raw credential value should NOT appear
	if strings.Contains(output, "secret_token_123") {
		t.Error("raw credential should be redacted, but found in output")
	}

	// Should contain redacted marker
	if !strings.Contains(output, "[REDACTED]") {
		t.Error("expected redacted marker in output")
	}
}

// TestLogger_RedactsAllSensitiveKeys verifies every documented key is redacted.
func TestLogger_RedactsAllSensitiveKeys(t *testing.T) {
	for _, key := range RedactedFields {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter("info", &buf)

		logger.Info(context.Background(), "test",
			Field{Key: key, Value: "super_sensitive_value"},
		)

		if strings.Contains(buf.String(), "super_sensitive_value") {
			t.Errorf("field %q should be redacted", key)
		}
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	meta := CallMeta{Operation: "filtered_call"}
	callLogger := logger.WithCall(meta)

	// Info should be filtered out
	callLogger.Info(context.Background(), "info message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	// Warn should pass through
	callLogger.Warn(context.Background(), "warn message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_DebugLevel verifies debug level filtering.
func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	meta := CallMeta{Operation: "debug_call"}
	callLogger := logger.WithCall(meta)

	callLogger.Debug(context.Background(), "debug message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "debug" {
		t.Errorf("expected level='debug', got %v", logEntry["level"])
	}
}

// TestLogger_WarnLevel verifies warn level.
func TestLogger_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "warn_call"}
	callLogger := logger.WithCall(meta)

	callLogger.Warn(context.Background(), "warning message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "warn" {
		t.Errorf("expected level='warn', got %v", logEntry["level"])
	}
}

// TestLogger_TargetIncluded verifies target is included when set.
func TestLogger_TargetIncluded(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{
		Operation: "targeted_call",
		Target:    "https://api.backup.example.com",
	}
	callLogger := logger.WithCall(meta)

	callLogger.Info(context.Background(), "test")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["call.target"].(string); !ok || v != "https://api.backup.example.com" {
		t.Errorf("expected call.target='https://api.backup.example.com', got %v", logEntry["call.target"])
	}
}
