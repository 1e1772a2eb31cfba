// Package shell runs LLM-suggested commands against the host shell, one
// process at a time, and reports structured results back to the caller.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/metrics"
	"github.com/chatmol/gromacs-copilot/internal/term"
)

// Result describes the outcome of one shell invocation. It is shaped for
// JSON serialization into a tool-result message.
type Result struct {
	Success    bool   `json:"success"`
	ReturnCode int    `json:"return_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Command    string `json:"command"`
	Error      string `json:"error,omitempty"`
}

// maxShownOutput limits how much stdout is echoed to the terminal.
const maxShownOutput = 500

// Runner executes commands with the workspace as working directory.
type Runner struct {
	Dir     string
	Printer *term.Printer // nil disables terminal echo
}

func NewRunner(dir string, printer *term.Printer) *Runner {
	return &Runner{Dir: dir, Printer: printer}
}

// Run executes command through `sh -c` and captures its output. The command
// string may contain pipes; GROMACS group selections arrive as
// `echo 'Protein Protein' | gmx rms ...`.
func (r *Runner) Run(ctx context.Context, command string) Result {
	logx.Info("Shell", "Running command: %s", command)
	if r.Printer != nil {
		r.Printer.Print(command, term.Command)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = r.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Command: command,
	}

	switch {
	case err == nil:
		res.ReturnCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ReturnCode = exitErr.ExitCode()
		} else {
			// the process never started (bad dir, context canceled, ...)
			res.ReturnCode = 1
			res.Error = err.Error()
			logx.Error("Shell", "Command execution failed: %v", err)
		}
	}

	r.echo(res)
	outcome := "ok"
	if !res.Success {
		outcome = "error"
	}
	metrics.ShellCommands.Inc(map[string]string{"outcome": outcome})
	return res
}

func (r *Runner) echo(res Result) {
	if r.Printer == nil {
		return
	}
	if res.Success {
		switch {
		case len(res.Stdout) > maxShownOutput:
			trimmed := res.Stdout[:maxShownOutput] + "...\n[Output trimmed for brevity]"
			r.Printer.Print("Command succeeded with output:\n"+trimmed, term.Success)
		case strings.TrimSpace(res.Stdout) != "":
			r.Printer.Print("Command succeeded with output:\n"+res.Stdout, term.Success)
		default:
			r.Printer.Print("Command succeeded with no output", term.Success)
		}
		return
	}
	r.Printer.Print("Command failed with error:\n"+res.Stderr, term.Error)
}

// CommandExists reports whether a command is resolvable on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FindExecutable returns the first name resolvable on PATH, or "".
func FindExecutable(names ...string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
