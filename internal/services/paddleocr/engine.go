package paddleocr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"subsnap/internal/logging"
	"subsnap/internal/media/frames"
	"subsnap/internal/ocr"
	"subsnap/internal/services"
	"subsnap/internal/textutil"
)

// Engine drives the external recognition helper as a long-lived subprocess.
// The protocol is line-delimited JSON on stdin/stdout: one request object per
// line in, one response object per line out, in order. The helper prints a
// ready line after model load.
//
// Engine is not safe for concurrent use; construct one per worker.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
	stderr  *stderrBuffer
	workDir string
	seq     int
	broken  bool
}

type request struct {
	Image string `json:"image"`
}

type response struct {
	Status  string       `json:"status,omitempty"`
	Results []ocr.Result `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// Start launches the helper process and waits for it to report readiness.
func Start(ctx context.Context, cfg Config, logger *slog.Logger) (*Engine, error) {
	if strings.TrimSpace(cfg.Binary) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ocr", "start", "binary not set", nil)
	}

	workDir, err := os.MkdirTemp("", "subsnap-ocr-")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start", "create work directory", err)
	}

	cmd := exec.Command(cfg.Binary, cfg.args()...) //nolint:gosec
	stderr := new(stderrBuffer)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.RemoveAll(workDir)
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start", "open stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.RemoveAll(workDir)
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start", "open stdout pipe", err)
	}

	if err := cmd.Start(); err != nil {
		os.RemoveAll(workDir)
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start", cfg.Binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	engine := &Engine{
		cfg:     cfg,
		logger:  logging.WithComponent(logger, "ocr"),
		cmd:     cmd,
		stdin:   stdin,
		scanner: scanner,
		stderr:  stderr,
		workDir: workDir,
	}

	timeout := cfg.StartupTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	startupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := engine.readResponse(startupCtx)
	if err != nil {
		engine.kill()
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start", "engine did not report ready", err)
	}
	if resp.Status != "ready" {
		engine.kill()
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "start",
			fmt.Sprintf("unexpected startup message %q", resp.Status), nil)
	}

	engine.logger.Debug("engine ready",
		logging.String("binary", cfg.Binary),
		logging.String("language", cfg.Language),
		logging.Bool("gpu", cfg.UseGPU))
	return engine, nil
}

// Recognize writes the frame to the engine work directory and requests
// detections for it. Detection text is cleaned before being returned; regions
// whose text is empty after cleanup are dropped by the caller via ocr.Tag.
func (e *Engine) Recognize(ctx context.Context, frame *frames.Frame) ([]ocr.Result, error) {
	if e.broken {
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "recognize", "engine unavailable after earlier failure", nil)
	}

	e.seq++
	imagePath := filepath.Join(e.workDir, fmt.Sprintf("frame_%d.png", e.seq))
	if err := frame.WritePNG(imagePath); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "recognize", "write frame image", err)
	}
	defer os.Remove(imagePath)

	if err := e.send(request{Image: imagePath}); err != nil {
		e.broken = true
		// Reap before reading the tail so the stderr copy goroutine has
		// been joined and the diagnostics are complete.
		e.kill()
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "recognize", e.stderrTail(), err)
	}

	resp, err := e.readResponse(ctx)
	if err != nil {
		e.broken = true
		e.kill()
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "recognize", e.stderrTail(), err)
	}
	if resp.Error != "" {
		return nil, services.Wrap(services.ErrExternalTool, "ocr", "recognize", resp.Error, nil)
	}

	results := resp.Results[:0]
	for _, res := range resp.Results {
		res.Text = textutil.CleanOCRText(res.Text)
		results = append(results, res)
	}
	return results, nil
}

// Close shuts the helper down and removes the work directory.
func (e *Engine) Close() error {
	var firstErr error
	if e.stdin != nil {
		if err := e.stdin.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		e.stdin = nil
	}
	if e.cmd != nil {
		done := make(chan error, 1)
		go func() { done <- e.cmd.Wait() }()
		select {
		case err := <-done:
			if err != nil && firstErr == nil && !e.broken {
				firstErr = services.Wrap(services.ErrExternalTool, "ocr", "close", e.stderrTail(), err)
			}
		case <-time.After(10 * time.Second):
			e.cmd.Process.Kill()
			<-done
		}
		e.cmd = nil
	}
	if e.workDir != "" {
		os.RemoveAll(e.workDir)
		e.workDir = ""
	}
	return firstErr
}

func (e *Engine) send(req request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = e.stdin.Write(payload)
	return err
}

func (e *Engine) readResponse(ctx context.Context) (response, error) {
	type scanResult struct {
		line []byte
		err  error
	}
	ch := make(chan scanResult, 1)
	go func() {
		if e.scanner.Scan() {
			line := make([]byte, len(e.scanner.Bytes()))
			copy(line, e.scanner.Bytes())
			ch <- scanResult{line: line}
			return
		}
		err := e.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		ch <- scanResult{err: err}
	}()

	select {
	case <-ctx.Done():
		e.broken = true
		return response{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return response{}, res.err
		}
		var resp response
		if err := json.Unmarshal(res.line, &resp); err != nil {
			return response{}, fmt.Errorf("malformed engine response: %w", err)
		}
		return resp, nil
	}
}

func (e *Engine) kill() {
	if e.stdin != nil {
		e.stdin.Close()
		e.stdin = nil
	}
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
		e.cmd.Wait()
		e.cmd = nil
	}
	if e.workDir != "" {
		os.RemoveAll(e.workDir)
		e.workDir = ""
	}
}

// stderrBuffer collects helper diagnostics. os/exec copies stderr into it
// from its own goroutine until the process is reaped, while stderrTail reads
// it on error paths with the helper still running.
type stderrBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *stderrBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (e *Engine) stderrTail() string {
	text := strings.TrimSpace(e.stderr.String())
	if text == "" {
		return "engine produced no diagnostics"
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "; ")
}
