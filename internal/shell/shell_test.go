package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_CapturesStdout(t *testing.T) {
	r := NewRunner(t.TempDir(), nil)
	res := r.Run(context.Background(), "echo hello")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
	if res.ReturnCode != 0 {
		t.Fatalf("unexpected return code: %d", res.ReturnCode)
	}
}

func TestRun_ReportsExitCode(t *testing.T) {
	r := NewRunner(t.TempDir(), nil)
	res := r.Run(context.Background(), "echo oops >&2; exit 3")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.ReturnCode != 3 {
		t.Fatalf("expected return code 3, got %d", res.ReturnCode)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Fatalf("unexpected stderr: %q", res.Stderr)
	}
}

func TestRun_UsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(dir, nil)
	res := r.Run(context.Background(), "ls")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.Contains(res.Stdout, "marker.txt") {
		t.Fatalf("expected marker.txt in output, got %q", res.Stdout)
	}
}

func TestRun_SupportsPipes(t *testing.T) {
	r := NewRunner(t.TempDir(), nil)
	res := r.Run(context.Background(), "echo 'Protein Protein' | cat")
	if !res.Success || strings.TrimSpace(res.Stdout) != "Protein Protein" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(t.TempDir(), nil)
	res := r.Run(ctx, "sleep 10")
	if res.Success {
		t.Fatalf("expected failure on canceled context")
	}
}

func TestCommandExists(t *testing.T) {
	if !CommandExists("sh") {
		t.Fatalf("sh should exist")
	}
	if CommandExists("definitely-not-a-real-binary-xyz") {
		t.Fatalf("bogus binary should not exist")
	}
}

func TestFindExecutable(t *testing.T) {
	if FindExecutable("definitely-not-a-real-binary-xyz", "sh") == "" {
		t.Fatalf("expected to find sh")
	}
	if FindExecutable("definitely-not-a-real-binary-xyz") != "" {
		t.Fatalf("expected empty path")
	}
}
