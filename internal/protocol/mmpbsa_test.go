package protocol

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mmpbsaBase(t *testing.T) *MMPBSA {
	t.Helper()
	m, err := NewMMPBSA(testBase(t))
	require.NoError(t, err)
	return m
}

func TestMMPBSA_CreateInput_PB(t *testing.T) {
	m := mmpbsaBase(t)
	res := m.CreateInput("pb", 1, 500, 5, 0.15, false)
	require.True(t, res.Success(), res.ErrorText())

	data, err := os.ReadFile(filepath.Join(m.Workspace, "mmpbsa", "mmpbsa.in"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "&general")
	require.Contains(t, content, "startframe = 1")
	require.Contains(t, content, "endframe = 500")
	require.Contains(t, content, "interval = 5")
	require.Contains(t, content, "&pb")
	require.Contains(t, content, "istrng = 0.15")
	require.Contains(t, content, "radiopt = 0")
	require.NotContains(t, content, "entropy")
}

func TestMMPBSA_CreateInput_GBWithEntropy(t *testing.T) {
	m := mmpbsaBase(t)
	res := m.CreateInput("gb", 0, 0, 0, 0.1, true)
	require.True(t, res.Success(), res.ErrorText())

	data, err := os.ReadFile(filepath.Join(m.Workspace, "mmpbsa", "mmpbsa.in"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "&gb")
	require.Contains(t, content, "saltcon = 0.1")
	require.Contains(t, content, "igb = 5")
	require.Contains(t, content, "entropy = 1")
	// zero arguments fall back to defaults
	require.Contains(t, content, "startframe = 1")
	require.Contains(t, content, "endframe = 1000")
	require.Contains(t, content, "interval = 10")
}

func TestMMPBSA_CreateInput_UnknownMethod(t *testing.T) {
	m := mmpbsaBase(t)
	res := m.CreateInput("qm", 1, 10, 1, 0.15, false)
	require.False(t, res.Success())
}

const sampleMMPBSAResults = `| Run on Mon Aug 31 10:00:00 2026
***
GENERALIZED BORN:
===
Delta (Complex - Receptor - Ligand):
Energy Component    Average     SD   SEM
DELTA TOTAL
VDWAALS :  -45.1234  3.2100  0.3200
EEL :  -12.5000  2.1000  0.2100
EGB/EPB :  20.3000  1.9000  0.1900
ESURF :  -5.6000  0.4000  0.0400
DELTA TOTAL :  -42.9234  4.0000  0.4000
`

func TestMMPBSA_ParseResults(t *testing.T) {
	m := mmpbsaBase(t)
	path := filepath.Join(m.Workspace, "mmpbsa", "results_FINAL_RESULTS_MMPBSA.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleMMPBSAResults), 0o644))

	res := m.ParseResults()
	require.True(t, res.Success(), res.ErrorText())
	require.InDelta(t, -42.9234, res["binding_energy"], 1e-9)

	components := res["components"].(map[string]any)
	require.InDelta(t, -45.1234, components["van_der_waals"], 1e-9)
	require.InDelta(t, -12.5, components["electrostatic"], 1e-9)
	require.InDelta(t, 20.3, components["polar_solvation"], 1e-9)
	require.InDelta(t, -5.6, components["non_polar_solvation"], 1e-9)
}

func TestMMPBSA_ParseResults_MissingFile(t *testing.T) {
	m := mmpbsaBase(t)
	res := m.ParseResults()
	require.False(t, res.Success())
}

func TestMMPBSA_CheckPrerequisites_MissingFiles(t *testing.T) {
	m := mmpbsaBase(t)
	res := m.CheckPrerequisites(context.Background())
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "md.tpr")
}

func TestMMPBSA_State(t *testing.T) {
	m := mmpbsaBase(t)
	m.TopologyFile = "md.tpr"

	res := m.State()
	require.True(t, res.Success())
	require.Equal(t, "md.tpr", res["topology_file"])
}
