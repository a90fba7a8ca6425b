package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "ocr", "recognize", "engine exited", cause)

	if !errors.Is(err, ErrExternalTool) {
		t.Error("wrapped error should match its marker")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	want := "external tool error: ocr: recognize: engine exited: exit status 1"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrConfiguration, "ocr", "", "binary not set", nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Error("wrapped error should match its marker")
	}
	if err.Error() != "configuration error: ocr: binary not set" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to ErrTransient")
	}
	if err.Error() != "transient failure: service failure" {
		t.Errorf("error = %q", err.Error())
	}
}
