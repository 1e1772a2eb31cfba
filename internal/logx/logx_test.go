package logx

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_LevelFiltering(t *testing.T) {
	var buf strings.Builder
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	if err := Setup("warn", false, ""); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	defer Setup("info", false, "")

	Debug("Agent", "hidden debug")
	Info("Agent", "hidden info")
	Warn("Agent", "visible warning")
	Error("Agent", "visible error %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("filtered levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] [Agent] visible warning") {
		t.Fatalf("warn missing: %q", out)
	}
	if !strings.Contains(out, "[ERROR] [Agent] visible error 42") {
		t.Fatalf("error missing: %q", out)
	}
}

func TestSetup_WritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copilot.log")
	if err := Setup("info", false, path); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}

	Info("App", "written to file")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO] [App] written to file") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestTimer(t *testing.T) {
	var buf strings.Builder
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Setup("info", false, "")
	tm := Start("Shell", "run command")
	tm.End()

	if !strings.Contains(buf.String(), "[TIMING] run command") {
		t.Fatalf("timing entry missing: %q", buf.String())
	}
}
