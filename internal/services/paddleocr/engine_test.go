package paddleocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"subsnap/internal/config"
	"subsnap/internal/logging"
	"subsnap/internal/media/frames"
	"subsnap/internal/ocr"
	"subsnap/internal/services"
)

var _ ocr.Engine = (*Engine)(nil)

func fakeHelper(t *testing.T, script string) Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake helper uses a shell script")
	}
	path := filepath.Join(t.TempDir(), "paddleocr")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	appCfg := config.Default()
	cfg := ConfigFromApp(&appCfg)
	cfg.Binary = path
	cfg.StartupTimeout = 5 * time.Second
	return cfg
}

func testFrame() *frames.Frame {
	return &frames.Frame{Index: 0, Width: 2, Height: 2, Pix: make([]byte, 12)}
}

func TestEngineRecognize(t *testing.T) {
	cfg := fakeHelper(t, `
echo '{"status":"ready"}'
while read line; do
  echo '{"results":[{"box":[{"x":0,"y":0}],"text":" hi| ","score":0.9}]}'
done
`)
	engine, err := Start(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Close()

	results, err := engine.Recognize(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Text != "hiI" {
		t.Errorf("text = %q, want cleaned %q", results[0].Text, "hiI")
	}
	if results[0].Score != 0.9 {
		t.Errorf("score = %v, want 0.9", results[0].Score)
	}
}

func TestEngineReportsHelperError(t *testing.T) {
	cfg := fakeHelper(t, `
echo '{"status":"ready"}'
while read line; do
  echo '{"error":"model crashed"}'
done
`)
	engine, err := Start(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Close()

	_, err = engine.Recognize(context.Background(), testFrame())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("Recognize error = %v, want ErrExternalTool", err)
	}
}

func TestStartRejectsBadReadyLine(t *testing.T) {
	cfg := fakeHelper(t, `echo '{"status":"loading"}'`)
	if _, err := Start(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatal("Start should fail on an unexpected startup message")
	}
}

func TestStartTimesOut(t *testing.T) {
	cfg := fakeHelper(t, `sleep 30`)
	cfg.StartupTimeout = 100 * time.Millisecond
	start := time.Now()
	if _, err := Start(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatal("Start should time out")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Start did not respect the startup timeout")
	}
}

func TestStartRequiresBinary(t *testing.T) {
	cfg := Config{}
	_, err := Start(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("Start error = %v, want ErrConfiguration", err)
	}
}

func TestRecognizeIncludesStderrTail(t *testing.T) {
	cfg := fakeHelper(t, `
echo '{"status":"ready"}'
read line
echo 'CUDA out of memory' >&2
exit 1
`)
	engine, err := Start(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Close()

	_, err = engine.Recognize(context.Background(), testFrame())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("Recognize error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Errorf("Recognize error = %v, want helper stderr included", err)
	}
}

func TestEngineUnavailableAfterHelperExit(t *testing.T) {
	cfg := fakeHelper(t, `
echo '{"status":"ready"}'
exit 0
`)
	engine, err := Start(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Recognize(context.Background(), testFrame()); err == nil {
		t.Fatal("Recognize should fail after the helper exits")
	}
	if _, err := engine.Recognize(context.Background(), testFrame()); err == nil {
		t.Fatal("subsequent calls should keep failing")
	}
}
