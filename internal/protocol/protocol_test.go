package protocol

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/guard"
	"github.com/chatmol/gromacs-copilot/internal/shell"
)

func testBase(t *testing.T) Base {
	t.Helper()
	dir := t.TempDir()
	policy, err := guard.NewPolicy(nil, nil)
	require.NoError(t, err)
	return Base{
		Workspace: dir,
		GmxBin:    "gmx",
		Runner:    shell.NewRunner(dir, nil),
		Guard:     policy,
	}
}

func TestStageRoundTrip(t *testing.T) {
	for _, name := range StageNames() {
		s, ok := ParseStage(name)
		require.True(t, ok, name)
		require.Equal(t, name, s.String())
	}
	_, ok := ParseStage("NOT_A_STAGE")
	require.False(t, ok)
}

func TestStageNames_WorkflowOrder(t *testing.T) {
	names := StageNames()
	require.Equal(t, "SETUP", names[0])
	require.Equal(t, "COMPLETED", names[len(names)-1])
	require.Len(t, names, 10)
}

func TestToString(t *testing.T) {
	require.Equal(t, "5000000", toString(float64(5000000)))
	require.Equal(t, "0.002", toString(0.002))
	require.Equal(t, "steep", toString("steep"))
	require.Equal(t, "true", toString(true))
	require.Equal(t, "-1", toString(float64(-1)))
}

func TestRenderMDP_KnownKeysFirst(t *testing.T) {
	out := RenderMDP(map[string]string{
		"zcustom":    "1",
		"nsteps":     "50000",
		"integrator": "steep",
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "integrator"))
	require.True(t, strings.HasPrefix(lines[1], "nsteps"))
	require.True(t, strings.HasPrefix(lines[2], "zcustom"))
	require.Equal(t, "steep", mdpValue(t, out, "integrator"))
}

func TestCreateMDPFile(t *testing.T) {
	b := testBase(t)
	res := b.CreateMDPFile("em", map[string]string{"emtol": "500.0"})
	require.True(t, res.Success(), res.ErrorText())
	require.Equal(t, "em.mdp", res["mdp_file"])

	data, err := os.ReadFile(filepath.Join(b.Workspace, "em.mdp"))
	require.NoError(t, err)
	require.Equal(t, "500.0", mdpValue(t, string(data), "emtol"))
	require.Equal(t, "steep", mdpValue(t, string(data), "integrator"))
}

func TestCreateMDPFile_ConfigOverrides(t *testing.T) {
	b := testBase(t)
	b.Cfg = &config.File{MDP: map[string]map[string]string{
		"md": {"nsteps": "123"},
	}}

	res := b.CreateMDPFile("md", nil)
	require.True(t, res.Success())

	data, err := os.ReadFile(filepath.Join(b.Workspace, "md.mdp"))
	require.NoError(t, err)
	require.Equal(t, "123", mdpValue(t, string(data), "nsteps"))
}

func TestCreateMDPFile_UnknownType(t *testing.T) {
	b := testBase(t)
	res := b.CreateMDPFile("minimize", nil)
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "minimize")
}

func TestRun_GuardBlocks(t *testing.T) {
	b := testBase(t)
	res := b.run(context.Background(), "sudo rm -rf /")
	require.False(t, res.Success)
	require.Contains(t, res.Stderr, "blocked by guardrails")
}

func TestSetStage(t *testing.T) {
	b := testBase(t)
	res := b.SetStage("PRODUCTION")
	require.True(t, res.Success())
	require.Equal(t, StageProduction, b.Stage)

	res = b.SetStage("bogus")
	require.False(t, res.Success())
}

func TestWorkspaceInfo(t *testing.T) {
	b := testBase(t)
	require.NoError(t, os.WriteFile(filepath.Join(b.Workspace, "topol.top"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(b.Workspace, "analysis"), 0o755))

	res := b.WorkspaceInfo()
	require.True(t, res.Success())
	files := res["files"].([]map[string]any)
	require.Len(t, files, 2)

	byName := map[string]map[string]any{}
	for _, f := range files {
		byName[f["name"].(string)] = f
	}
	require.False(t, byName["topol.top"]["is_directory"].(bool))
	require.True(t, byName["analysis"]["is_directory"].(bool))
}

func TestSharedTools_RunShellCommand(t *testing.T) {
	b := testBase(t)
	tools := toolMap(b.sharedTools())

	res := tools["run_shell_command"].Run(context.Background(), map[string]any{"command": "echo workspace-ok"})
	require.True(t, res.Success())
	require.Contains(t, res["stdout"].(string), "workspace-ok")

	res = tools["run_shell_command"].Run(context.Background(), map[string]any{"command": "shutdown -h now"})
	require.False(t, res.Success())
}

func TestSharedTools_CreateMDPFileParams(t *testing.T) {
	b := testBase(t)
	tools := toolMap(b.sharedTools())

	// JSON numbers come through as float64
	res := tools["create_mdp_file"].Run(context.Background(), map[string]any{
		"mdp_type": "md",
		"params":   map[string]any{"nsteps": float64(2500000)},
	})
	require.True(t, res.Success(), res.ErrorText())

	data, err := os.ReadFile(filepath.Join(b.Workspace, "md.mdp"))
	require.NoError(t, err)
	require.Equal(t, "2500000", mdpValue(t, string(data), "nsteps"))
}

func TestRunShellCommand_ReportsLaunchError(t *testing.T) {
	base := testBase(t)
	base.Runner = shell.NewRunner(filepath.Join(base.Workspace, "missing"), nil)
	tools := toolMap(base.sharedTools())

	res := tools["run_shell_command"].Run(context.Background(), map[string]any{"command": "echo hi"})
	require.False(t, res.Success())
	// chdir failures leave stderr empty, the launch error carries the cause
	require.Equal(t, "", res["stderr"])
	require.NotEmpty(t, res.ErrorText())
}

// mdpValue extracts the value for key from rendered mdp content.
func mdpValue(t *testing.T, content, key string) string {
	t.Helper()
	for _, line := range strings.Split(content, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("key %s not found in mdp content", key)
	return ""
}

func toolMap(tools []Tool) map[string]Tool {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Name] = t
	}
	return m
}
