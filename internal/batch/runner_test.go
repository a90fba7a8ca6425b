package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gofrs/flock"

	"subsnap/internal/logging"
	"subsnap/internal/ocr"
	"subsnap/internal/queue"
	"subsnap/internal/subtitle"
	"subsnap/internal/testsupport"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.mp4"))
	writeFile(t, filepath.Join(root, "a.MKV"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "nested", "c.mp4"))
	writeFile(t, filepath.Join(root, "done.mp4"))
	writeFile(t, filepath.Join(root, "output", "done.lrc"))

	videos, skipped, err := Discover(root, []string{".mp4", ".mkv"}, subtitle.FormatLRC)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	want := []string{
		filepath.Join(root, "a.MKV"),
		filepath.Join(root, "b.mp4"),
		filepath.Join(root, "nested", "c.mp4"),
	}
	if len(videos) != len(want) {
		t.Fatalf("videos = %v, want %v", videos, want)
	}
	for i := range want {
		if videos[i] != want[i] {
			t.Errorf("videos[%d] = %q, want %q", i, videos[i], want[i])
		}
	}
}

func TestOverHighWater(t *testing.T) {
	if overHighWater(memorySample{UsedPercent: 89.9}, 90) {
		t.Error("89.9% should be under a 90% high water mark")
	}
	if !overHighWater(memorySample{UsedPercent: 90}, 90) {
		t.Error("90% should trigger a 90% high water mark")
	}
}

func newTestRunner(t *testing.T, factory EngineFactory, opts ...testsupport.ConfigOption) (*Runner, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Batch.Workers = 2
	cfg.Batch.BatchSize = 2

	store := testsupport.MustOpenStore(t, cfg)
	return NewRunner(cfg, store, factory, logging.NewNop()), store
}

// stubMediaTools puts fake ffprobe/ffmpeg binaries on PATH: a 2x2 video with
// 8 frames at 4 fps, which the default 0.5s interval samples at 0, 2, 4, 6.
func stubMediaTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake media tools use shell scripts")
	}
	binDir := t.TempDir()
	ffprobe := `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","width":2,"height":2,"nb_frames":"8","r_frame_rate":"4/1"}],"format":{"duration":"2.0"}}
JSON
`
	// Four sampled 2x2 RGB24 frames, 48 bytes.
	ffmpeg := "#!/bin/sh\nhead -c 48 /dev/zero\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(ffprobe), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(ffmpeg), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRunCompletesVideo(t *testing.T) {
	stubMediaTools(t)

	// "hello" and "hello!" score around 91; a threshold above that keeps
	// them as separate cues.
	engine := &testsupport.FakeEngine{
		ResultsByFrame: map[int][]ocr.Result{
			0: {{Text: "hello", Score: 0.9}},
			4: {{Text: "hello!", Score: 0.8}},
		},
	}
	runner, store := newTestRunner(t,
		func(context.Context) (ocr.Engine, error) { return engine, nil },
		testsupport.WithOutputFormat("txt"),
		testsupport.WithSimilarityThreshold(95),
	)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"))

	outcome, err := runner.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Summary.Completed != 1 {
		t.Fatalf("summary = %+v, want 1 completed", outcome.Summary)
	}
	if engine.Recognized != 4 {
		t.Errorf("engine recognized %d frames, want 4", engine.Recognized)
	}
	if !engine.Closed {
		t.Error("engine was not closed after the run")
	}

	items, err := store.ItemsByRun(context.Background(), outcome.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	item := items[0]
	if item.Status != queue.StatusCompleted {
		t.Errorf("status = %q, want completed", item.Status)
	}
	if item.CueCount != 2 {
		t.Errorf("cue count = %d, want 2", item.CueCount)
	}
	wantOutput := filepath.Join(root, "output", "a.txt")
	if item.OutputPath != wantOutput {
		t.Errorf("output path = %q, want %q", item.OutputPath, wantOutput)
	}
	if _, err := os.Stat(wantOutput); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestRunRecordsEngineStartFailure(t *testing.T) {
	factory := func(context.Context) (ocr.Engine, error) {
		return nil, errors.New("model files missing")
	}
	runner, store := newTestRunner(t, factory)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"))
	writeFile(t, filepath.Join(root, "b.mp4"))
	writeFile(t, filepath.Join(root, "c.mp4"))

	outcome, err := runner.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Discovered != 3 {
		t.Errorf("discovered = %d, want 3", outcome.Discovered)
	}
	if outcome.Summary.Failed != 3 {
		t.Errorf("failed = %d, want 3", outcome.Summary.Failed)
	}

	items, err := store.ItemsByRun(context.Background(), outcome.RunID)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if item.Status != queue.StatusFailed {
			t.Errorf("item %s status = %q, want failed", item.SourcePath, item.Status)
		}
		if item.ErrorMessage == "" {
			t.Errorf("item %s has no error message", item.SourcePath)
		}
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	runner, _ := newTestRunner(t, func(context.Context) (ocr.Engine, error) {
		t.Fatal("engine factory should not run with no videos")
		return nil, nil
	})

	outcome, err := runner.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Discovered != 0 || outcome.Summary.Total != 0 {
		t.Errorf("outcome = %+v, want empty", outcome)
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	runner, store := newTestRunner(t, func(context.Context) (ocr.Engine, error) {
		return nil, errors.New("unused")
	})

	lock := flock.New(store.Path() + ".lock")
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: %v", err)
	}
	defer lock.Unlock()

	_, err = runner.Run(context.Background(), t.TempDir())
	if !errors.Is(err, ErrRunActive) {
		t.Fatalf("Run error = %v, want ErrRunActive", err)
	}
}
