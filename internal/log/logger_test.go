package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerStampsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentLedger).Info("Command completed", FieldOperation, "create_project")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v, want %s", rec[FieldComponent], ComponentLedger)
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component repeated in %s", buf.String())
	}
	if rec[FieldOperation] != "create_project" {
		t.Errorf("operation = %v", rec[FieldOperation])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Logger == nil {
		t.Fatal("FromContext should never return nil")
	}
}

func TestNewContextCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Component: ComponentHTTP, Output: &buf})

	ctx := NewContext(context.Background(), base.With(FieldRequestID, "req-1"))
	FromContext(ctx).InfoContext(ctx, "inside")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("request id missing from %s", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	fields := NewFields().WithEntity("donation", 7).WithOperation("create_donation", "").WithError(nil).ToSlice()
	if len(fields) != 6 {
		t.Fatalf("expected 3 pairs, got %v", fields)
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestLogCommand(t *testing.T) {
	tests := []struct {
		name      string
		success   bool
		wantLevel string
		wantMsg   string
	}{
		{"completed", true, "INFO", "Command completed"},
		{"refused", false, "WARN", "Command refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Format: "json", Component: ComponentStorage, Output: &buf})

			NewStructuredLogger(logger).LogCommand(context.Background(), "create_rubro", OpCreate, tt.success, "rubro created")

			rec := decodeLine(t, &buf)
			if rec["level"] != tt.wantLevel || rec["msg"] != tt.wantMsg {
				t.Errorf("level/msg = %v/%v, want %s/%s", rec["level"], rec["msg"], tt.wantLevel, tt.wantMsg)
			}
			if rec[FieldComponent] != ComponentStorage {
				t.Errorf("component = %v, want %s", rec[FieldComponent], ComponentStorage)
			}
			if rec[FieldOperation] != "create_rubro" || rec[FieldAction] != OpCreate {
				t.Errorf("operation/action = %v/%v", rec[FieldOperation], rec[FieldAction])
			}
			if rec[FieldSuccess] != tt.success || rec[FieldMessage] != "rubro created" {
				t.Errorf("outcome fields = %v/%v", rec[FieldSuccess], rec[FieldMessage])
			}
		})
	}
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  string
		wantLevel string
	}{
		{"internal", errors.New("disk full"), ErrorTypeInternal, "ERROR"},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorTypeTimeout, "ERROR"},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), ErrorTypeCanceled, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Format: "json", Component: ComponentHTTP, Output: &buf})

			NewStructuredLogger(logger).LogError(context.Background(), "Request failed", tt.err, "GET /v1/projects", nil)

			rec := decodeLine(t, &buf)
			if rec[FieldErrorType] != tt.wantType {
				t.Errorf("error_type = %v, want %s", rec[FieldErrorType], tt.wantType)
			}
			if rec["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", rec["level"], tt.wantLevel)
			}
			if rec[FieldError] != tt.err.Error() || rec[FieldOperation] != "GET /v1/projects" {
				t.Errorf("error/operation = %v/%v", rec[FieldError], rec[FieldOperation])
			}
		})
	}
}
