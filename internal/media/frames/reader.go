package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"

	"subsnap/internal/media/ffprobe"
	"subsnap/internal/timecode"
)

// ErrFrameRead indicates the decoder could not deliver a requested frame:
// premature end of stream, a corrupt frame, or a failed seek. Not retried;
// container corruption is not transient.
var ErrFrameRead = errors.New("frame read failure")

// Reader streams the sampled frames of one video in ascending index order.
// It drives an ffmpeg subprocess whose select filter drops undesired frames
// before they are ever encoded to the pipe, so stepping over frames is cheap.
//
// Usage follows the scanner idiom:
//
//	for reader.Next() {
//	    frame := reader.Frame()
//	    ...
//	}
//	if err := reader.Err(); err != nil { ... }
type Reader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer

	next func() (int, bool)
	stop func()

	width  int
	height int
	buf    []byte

	frame *Frame
	err   error
	done  bool
}

// NewReader starts the decode subprocess for the given sampling range and
// preprocessing chain.
func NewReader(ctx context.Context, binary string, video ffprobe.Video, rng timecode.Range, transforms []Transform) (*Reader, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	width, height := ChainSize(transforms, video.Width, video.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame reader: invalid output dimensions %dx%d", width, height)
	}

	filter := selectFilter(rng)
	if chain := ChainFilter(transforms); chain != "" {
		filter += "," + chain
	}
	filter += ",format=rgb24"

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-nostdin",
		"-i", video.Path,
		"-vf", filter,
		"-fps_mode", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("frame reader: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("frame reader: start %s: %w", binary, err)
	}

	next, stop := iter.Pull(rng.All())
	return &Reader{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		next:   next,
		stop:   stop,
		width:  width,
		height: height,
		buf:    make([]byte, width*height*3),
	}, nil
}

// selectFilter builds the ffmpeg select expression that keeps exactly the
// frames the range yields. Argument commas must be escaped inside the
// filter graph.
func selectFilter(rng timecode.Range) string {
	return fmt.Sprintf(
		`select='gte(n\,%d)*lt(n\,%d)*not(mod(n-%d\,%d))'`,
		rng.Start, rng.End, rng.Start, rng.Step,
	)
}

// Next advances to the next sampled frame. It returns false at the end of
// the range or on error; check Err afterwards.
func (r *Reader) Next() bool {
	if r.done || r.err != nil {
		return false
	}

	idx, ok := r.next()
	if !ok {
		r.finish()
		return false
	}

	if _, err := io.ReadFull(r.stdout, r.buf); err != nil {
		// Reap the process before touching stderr; os/exec writes the
		// buffer from a goroutine that only Wait joins.
		r.cleanup()
		detail := strings.TrimSpace(r.stderr.String())
		if detail != "" {
			r.err = fmt.Errorf("%w: frame %d: %v: %s", ErrFrameRead, idx, err, detail)
		} else {
			r.err = fmt.Errorf("%w: frame %d: %v", ErrFrameRead, idx, err)
		}
		return false
	}

	pix := make([]byte, len(r.buf))
	copy(pix, r.buf)
	r.frame = &Frame{Index: idx, Width: r.width, Height: r.height, Pix: pix}
	return true
}

// Frame returns the frame read by the last successful Next call.
func (r *Reader) Frame() *Frame {
	return r.frame
}

// Err returns the first error encountered while reading.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the subprocess. Safe to call multiple times and after a
// completed iteration.
func (r *Reader) Close() error {
	if !r.done && r.err == nil {
		r.cleanup()
	}
	return nil
}

// finish drains the pipe and reaps the subprocess after a complete pass.
func (r *Reader) finish() {
	r.done = true
	r.stop()
	_, _ = io.Copy(io.Discard, r.stdout)
	if err := r.cmd.Wait(); err != nil {
		detail := strings.TrimSpace(r.stderr.String())
		if detail != "" {
			r.err = fmt.Errorf("%w: %v: %s", ErrFrameRead, err, detail)
		} else {
			r.err = fmt.Errorf("%w: %v", ErrFrameRead, err)
		}
	}
}

// cleanup tears down the subprocess after a failure or early close.
func (r *Reader) cleanup() {
	r.done = true
	r.stop()
	_ = r.stdout.Close()
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.cmd.Wait()
}
