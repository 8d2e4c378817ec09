package clilog

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return string(out)
}

func TestPrintInfo_SuppressedWhenQuiet(t *testing.T) {
	defer SetQuiet(false)

	SetQuiet(true)
	out := captureStdout(t, func() {
		PrintInfo("should not appear\n")
	})
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected PrintInfo to be suppressed in quiet mode, got %q", out)
	}

	SetQuiet(false)
	out = captureStdout(t, func() {
		PrintInfo("should appear\n")
	})
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected PrintInfo to print when not quiet, got %q", out)
	}
}

func TestPrintSuccess_WritesToStdout(t *testing.T) {
	out := captureStdout(t, func() {
		PrintSuccess("done\n")
	})
	if !strings.Contains(out, "done") {
		t.Errorf("expected success message in stdout, got %q", out)
	}
}

func TestInitColor_TogglesNoColor(t *testing.T) {
	defer InitColor(true)

	InitColor(false)
	if !color.NoColor {
		t.Errorf("expected InitColor(false) to set color.NoColor = true")
	}

	InitColor(true)
	if color.NoColor {
		t.Errorf("expected InitColor(true) to set color.NoColor = false")
	}
}
