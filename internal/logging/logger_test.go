package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(buf, levelVar)
	default:
		handler = newConsoleHandler(buf, levelVar)
	}
	return slog.New(handler), buf
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	logger, buf := newTestLogger(t, "console")
	WithComponent(logger, "extractor").Info("wrote subtitles", Int("cues", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO extractor: wrote subtitles") {
		t.Errorf("line = %q, want component prefix", line)
	}
	if !strings.Contains(line, "cues=42") {
		t.Errorf("line = %q, want cues attribute", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("line = %q, component should not render as key=value", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newTestLogger(t, "console")
	logger.Warn("skipping", String("path", "my video.mp4"), Error(errors.New("no video stream")))

	line := buf.String()
	if !strings.Contains(line, `path="my video.mp4"`) {
		t.Errorf("line = %q, want quoted path", line)
	}
	if !strings.Contains(line, `error="no video stream"`) {
		t.Errorf("line = %q, want quoted error", line)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	logger, buf := newTestLogger(t, "console")
	logger.WithGroup("video").Info("probed", Int("frames", 900))

	if !strings.Contains(buf.String(), "video.frames=900") {
		t.Errorf("line = %q, want dotted group key", buf.String())
	}
}

func TestJSONHandlerLowercasesLevel(t *testing.T) {
	logger, buf := newTestLogger(t, "json")
	logger.Error("boom")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["level"] != "error" {
		t.Errorf("level = %v, want error", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("record missing ts field")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("New with unknown format should fail")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should report disabled at every level")
	}
}
