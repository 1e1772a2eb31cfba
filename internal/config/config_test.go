package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMDPParams(t *testing.T) {
	params, ok := DefaultMDPParams("em")
	require.True(t, ok)
	require.Equal(t, "steep", params["integrator"])

	// mutations must not leak into the defaults
	params["integrator"] = "md"
	again, _ := DefaultMDPParams("em")
	require.Equal(t, "steep", again["integrator"])

	_, ok = DefaultMDPParams("bogus")
	require.False(t, ok)
}

func TestDefaultMDPParams_ProductionLength(t *testing.T) {
	params, ok := DefaultMDPParams("md")
	require.True(t, ok)
	// 10 ns at 2 fs per step
	require.Equal(t, "5000000", params["nsteps"])
	require.Equal(t, "0.002", params["dt"])
}

func TestLoad_MergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copilot.yaml")
	content := []byte(`
mdp:
  md:
    nsteps: "250000"
    ref_t: "310 310"
guard:
  deny:
    - "rm -rf \\*"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{`rm -rf \*`}, f.Guard.Deny)

	params, ok := f.MDPParams("md")
	require.True(t, ok)
	require.Equal(t, "250000", params["nsteps"])
	require.Equal(t, "310 310", params["ref_t"])
	// untouched defaults survive the merge
	require.Equal(t, "0.002", params["dt"])
}

func TestLoad_RejectsUnknownMDPType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mdp:\n  production:\n    nsteps: \"1\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "production")
}

func TestForceFields(t *testing.T) {
	require.Equal(t, "amber99sb-ildn", ForceFields["AMBER99SB-ILDN"])
	require.Equal(t, "oplsaa", ForceFields["OPLS-AA/L"])
}

func TestStandardResidues(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range StandardResidues {
		seen[r] = true
	}
	require.True(t, seen["ALA"])
	require.True(t, seen["HOH"])
	require.False(t, seen["LIG"])
}
