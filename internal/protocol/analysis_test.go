package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func analysisBase(t *testing.T, hasLigand bool) *Analysis {
	t.Helper()
	a, err := NewAnalysis(testBase(t), hasLigand)
	require.NoError(t, err)
	return a
}

func TestAnalysis_CheckPrerequisites_MissingFiles(t *testing.T) {
	a := analysisBase(t, false)
	res := a.CheckPrerequisites(context.Background())
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "md.xtc")
	require.Contains(t, res.ErrorText(), "md.edr")
}

func TestAnalysis_LigandToolsRequireLigand(t *testing.T) {
	a := analysisBase(t, false)

	res := a.AnalyzeLigandRMSD(context.Background())
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "No ligand")

	res = a.AnalyzeContacts(context.Background())
	require.False(t, res.Success())
}

func TestAnalysis_AnalyzeEnergy_UnknownTerm(t *testing.T) {
	a := analysisBase(t, false)

	res := a.AnalyzeEnergy(context.Background(), []string{"Enthalpy"})
	require.False(t, res.Success())

	results := res["results"].(map[string]any)
	term := results["Enthalpy"].(Result)
	require.Contains(t, term.ErrorText(), "Unknown energy term")
}

func TestFileToken(t *testing.T) {
	require.Equal(t, "c_alpha", fileToken("C-alpha"))
	require.Equal(t, "protein", fileToken("Protein"))
	require.Equal(t, "backbone", fileToken("Backbone"))
	require.Equal(t, "r_lig___a_c_", fileToken("r LIG & a C*"))
}

func TestAnalysis_EnergyTermNumbers(t *testing.T) {
	require.Equal(t, "10", energyTerms["Potential"])
	require.Equal(t, "16", energyTerms["Temperature"])
	require.Equal(t, "17", energyTerms["Pressure"])
	require.Len(t, energyTerms, 6)
}

func TestAnalysis_ToolNames(t *testing.T) {
	a := analysisBase(t, true)
	tools := toolMap(a.Tools())

	for _, name := range []string{
		"clean_trajectory",
		"analyze_rmsd",
		"analyze_rmsf",
		"analyze_gyration",
		"analyze_hydrogen_bonds",
		"analyze_secondary_structure",
		"analyze_energy",
		"analyze_ligand_rmsd",
		"analyze_protein_ligand_contacts",
		"generate_analysis_report",
		"run_shell_command",
	} {
		require.Contains(t, tools, name, "missing tool %s", name)
	}
}

func TestAnalysis_State(t *testing.T) {
	a := analysisBase(t, true)
	a.TrajectoryFile = "md.xtc"

	res := a.State()
	require.True(t, res.Success())
	require.Equal(t, true, res["has_ligand"])
	require.Equal(t, "md.xtc", res["trajectory_file"])
}
