// Package protocol ports the GROMACS workflow stages (setup, solvation,
// minimization, equilibration, production, analysis) into tools the agent
// can dispatch. Every tool shells out to the external gmx binary; nothing
// here simulates anything.
package protocol

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/guard"
	"github.com/chatmol/gromacs-copilot/internal/shell"
)

// Result is a JSON-serializable tool outcome sent back to the LLM.
type Result map[string]any

// OK builds a success result with extra fields.
func OK(kv map[string]any) Result {
	r := Result{"success": true}
	for k, v := range kv {
		r[k] = v
	}
	return r
}

// Fail builds an error result. The message is what the model sees.
func Fail(format string, args ...any) Result {
	return Result{"success": false, "error": fmt.Sprintf(format, args...)}
}

func (r Result) Success() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// ErrorText returns the error field, if present.
func (r Result) ErrorText() string {
	s, _ := r["error"].(string)
	return s
}

// Stage tracks where the workflow currently is.
type Stage int

const (
	StageSetup Stage = iota
	StagePrepareProtein
	StagePrepareLigand
	StagePrepareComplex
	StageSolvation
	StageEnergyMinimization
	StageEquilibration
	StageProduction
	StageAnalysis
	StageCompleted
)

var stageNames = map[Stage]string{
	StageSetup:              "SETUP",
	StagePrepareProtein:     "PREPARE_PROTEIN",
	StagePrepareLigand:      "PREPARE_LIGAND",
	StagePrepareComplex:     "PREPARE_COMPLEX",
	StageSolvation:          "SOLVATION",
	StageEnergyMinimization: "ENERGY_MINIMIZATION",
	StageEquilibration:      "EQUILIBRATION",
	StageProduction:         "PRODUCTION",
	StageAnalysis:           "ANALYSIS",
	StageCompleted:          "COMPLETED",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StageNames lists every stage name in workflow order.
func StageNames() []string {
	names := make([]string, 0, len(stageNames))
	for s := StageSetup; s <= StageCompleted; s++ {
		names = append(names, stageNames[s])
	}
	return names
}

func ParseStage(name string) (Stage, bool) {
	for s, n := range stageNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Tool is one dispatchable function: JSON-schema parameters for the LLM and
// a Go func for the agent.
type Tool struct {
	Name        string
	Description string
	Params      map[string]any // JSON schema "properties"
	Required    []string
	Run         func(ctx context.Context, args map[string]any) Result
}

// Protocol is a family of tools sharing workflow state.
type Protocol interface {
	Name() string
	State() Result
	CheckPrerequisites(ctx context.Context) Result
	Tools() []Tool
}

// Base carries what every protocol needs: the workspace, the gmx binary
// name, the command runner and the guard policy.
type Base struct {
	Workspace string
	GmxBin    string
	Runner    *shell.Runner
	Guard     *guard.Policy
	Cfg       *config.File // optional YAML overrides, may be nil
	Stage     Stage
}

// run guards and executes one command inside the workspace.
func (b *Base) run(ctx context.Context, command string) shell.Result {
	if b.Guard != nil {
		if err := b.Guard.Check(command); err != nil {
			return shell.Result{
				Success: false,
				Stderr:  err.Error(),
				Error:   err.Error(),
				Command: command,
			}
		}
	}
	return b.Runner.Run(ctx, command)
}

// CheckGromacs verifies the gmx binary responds.
func (b *Base) CheckGromacs(ctx context.Context) Result {
	res := b.run(ctx, b.GmxBin+" --version")
	if !res.Success {
		return Fail("GROMACS is not installed or not in PATH")
	}
	return OK(map[string]any{
		"installed": true,
		"version":   firstLine(res.Stdout),
	})
}

// WorkspaceInfo lists workspace files with sizes and modification times.
func (b *Base) WorkspaceInfo() Result {
	entries, err := os.ReadDir(b.Workspace)
	if err != nil {
		return Fail("reading workspace: %v", err)
	}
	files := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		info := map[string]any{
			"name":         e.Name(),
			"is_directory": e.IsDir(),
		}
		if fi, err := e.Info(); err == nil {
			info["modified"] = fi.ModTime().Format(time.ANSIC)
			if !e.IsDir() {
				info["size_bytes"] = fi.Size()
			}
		}
		files = append(files, info)
	}
	return OK(map[string]any{
		"workspace_path": b.Workspace,
		"current_stage":  b.Stage.String(),
		"files":          files,
	})
}

// SetStage moves the workflow to a named stage.
func (b *Base) SetStage(name string) Result {
	s, ok := ParseStage(name)
	if !ok {
		return Fail("unknown stage: %s", name)
	}
	b.Stage = s
	return OK(map[string]any{"current_stage": s.String()})
}

// exists reports whether a file exists inside the workspace.
func (b *Base) exists(name string) bool {
	_, err := os.Stat(filepath.Join(b.Workspace, name))
	return err == nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

// toString renders an LLM-provided value as an mdp parameter value.
// JSON numbers arrive as float64; integral ones must not print as 5e+06.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// --- typed access to LLM-provided arguments ---

func argString(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func argFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func argBool(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func argStringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
