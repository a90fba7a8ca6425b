package subtitle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	got := OutputPath(filepath.Join("media", "series", "episode01.mkv"), FormatLRC)
	want := filepath.Join("media", "series", "output", "episode01.lrc")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	cues := []Cue{{Content: "hello", Start: 0, End: durationSeconds(2)}}

	path, err := WriteFile(video, cues, FormatTXT)
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if path != filepath.Join(dir, "output", "clip.txt") {
		t.Errorf("WriteFile path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "00:00.00 --> 00:02.00\nhello\n\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", string(data), want)
	}

	if !HasOutput(video, FormatTXT) {
		t.Error("HasOutput = false after writing")
	}
	if HasOutput(video, FormatLRC) {
		t.Error("HasOutput = true for a format never written")
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")

	if _, err := WriteFile(video, []Cue{{Content: "old", End: durationSeconds(1)}}, FormatLRC); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := WriteFile(video, []Cue{{Content: "new", End: durationSeconds(1)}}, FormatLRC)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "[00:00.00]new\n[00:01.00]" {
		t.Errorf("output = %q, want overwritten content", string(data))
	}
}

func TestWriteFileRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	if _, err := WriteFile(video, nil, Format("srt")); err == nil {
		t.Fatal("WriteFile with unknown format should fail")
	}
	if _, err := os.Stat(filepath.Join(dir, "output")); !os.IsNotExist(err) {
		t.Error("failed write must not leave an output directory behind")
	}
}
