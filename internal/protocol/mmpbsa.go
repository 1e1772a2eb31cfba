package protocol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/shell"
)

// MMPBSA drives binding free energy calculations through gmx_MMPBSA on a
// finished production run. It expects md.tpr and md.xtc in the workspace.
type MMPBSA struct {
	Base

	TrajectoryFile string
	TopologyFile   string
	IndexFile      string
}

func NewMMPBSA(base Base) (*MMPBSA, error) {
	dir := filepath.Join(base.Workspace, "mmpbsa")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create mmpbsa directory: %w", err)
	}
	logx.Info("Protocol", "MM-PBSA protocol initialized with workspace: %s", base.Workspace)
	return &MMPBSA{Base: base}, nil
}

func (m *MMPBSA) Name() string { return "mmpbsa" }

func (m *MMPBSA) mmpbsaDir() string { return filepath.Join(m.Workspace, "mmpbsa") }

func (m *MMPBSA) State() Result {
	var files []string
	if entries, err := os.ReadDir(m.mmpbsaDir()); err == nil {
		for _, e := range entries {
			files = append(files, e.Name())
		}
	}
	return OK(map[string]any{
		"workspace_path":   m.Workspace,
		"mmpbsa_directory": m.mmpbsaDir(),
		"trajectory_file":  m.TrajectoryFile,
		"topology_file":    m.TopologyFile,
		"index_file":       m.IndexFile,
		"mmpbsa_files":     files,
	})
}

func (m *MMPBSA) CheckPrerequisites(ctx context.Context) Result {
	gromacs := m.CheckGromacs(ctx)

	var missing []string
	for _, f := range []string{"md.tpr", "md.xtc"} {
		if !m.exists(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Fail("Missing required files: %s", strings.Join(missing, ", "))
	}

	m.TrajectoryFile = "md.xtc"
	m.TopologyFile = "md.tpr"

	return OK(map[string]any{
		"gromacs": gromacs,
		"gmx_mmpbsa": map[string]any{
			"installed": shell.CommandExists("gmx_MMPBSA"),
			"required":  true,
		},
		"trajectory_file": m.TrajectoryFile,
		"topology_file":   m.TopologyFile,
	})
}

// CreateIndexFile builds an index file holding protein and ligand groups and
// returns the group name to index mapping.
func (m *MMPBSA) CreateIndexFile(ctx context.Context, proteinSelection, ligandSelection string) Result {
	if proteinSelection == "" {
		proteinSelection = "Protein"
	}
	if ligandSelection == "" {
		ligandSelection = "LIG"
	}
	if !m.exists("md.tpr") {
		return Fail("Topology file not found")
	}

	cmd := fmt.Sprintf(`echo -e "name %s\nname %s\n\nq" | %s make_ndx -f md.tpr -o mmpbsa/mmpbsa.ndx`,
		proteinSelection, ligandSelection, m.GmxBin)
	if res := m.run(ctx, cmd); !res.Success {
		return Fail("Failed to create index file: %s", res.Stderr)
	}

	data, err := os.ReadFile(filepath.Join(m.Workspace, "mmpbsa/mmpbsa.ndx"))
	if err != nil {
		return Fail("Failed to read index file: %v", err)
	}

	groups := map[string]any{}
	idx := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(strings.Trim(line, "[ ]"))
			groups[name] = idx
			idx++
		}
	}

	m.IndexFile = "mmpbsa/mmpbsa.ndx"
	groups["index_file"] = m.IndexFile
	return OK(groups)
}

// CreateInput writes the gmx_MMPBSA input file for a PB or GB calculation.
func (m *MMPBSA) CreateInput(method string, startFrame, endFrame, interval int, ionicStrength float64, withEntropy bool) Result {
	if method == "" {
		method = "pb"
	}
	if startFrame <= 0 {
		startFrame = 1
	}
	if endFrame <= 0 {
		endFrame = 1000
	}
	if interval <= 0 {
		interval = 10
	}

	var b strings.Builder
	b.WriteString("&general\n")
	b.WriteString("  sys_name = Protein_Ligand\n")
	fmt.Fprintf(&b, "  startframe = %d\n", startFrame)
	fmt.Fprintf(&b, "  endframe = %d\n", endFrame)
	fmt.Fprintf(&b, "  interval = %d\n", interval)
	if withEntropy {
		b.WriteString("  entropy = 1\n")
		b.WriteString("  entropy_seg = 25\n")
	}
	b.WriteString("/\n\n")

	switch strings.ToLower(method) {
	case "pb":
		b.WriteString("&pb\n")
		fmt.Fprintf(&b, "  istrng = %s\n", strconv.FormatFloat(ionicStrength, 'g', -1, 64))
		b.WriteString("  fillratio = 4.0\n")
		b.WriteString("  inp = 2\n")
		b.WriteString("  radiopt = 0\n")
		b.WriteString("/\n")
	case "gb":
		b.WriteString("&gb\n")
		fmt.Fprintf(&b, "  saltcon = %s\n", strconv.FormatFloat(ionicStrength, 'g', -1, 64))
		b.WriteString("  igb = 5\n")
		b.WriteString("/\n")
	default:
		return Fail("Unknown MM-PBSA method: %s", method)
	}

	inputFile := filepath.Join(m.mmpbsaDir(), "mmpbsa.in")
	if err := os.WriteFile(inputFile, []byte(b.String()), 0o644); err != nil {
		return Fail("Error creating MM-PBSA input file: %v", err)
	}

	return OK(map[string]any{
		"input_file":   inputFile,
		"method":       method,
		"startframe":   startFrame,
		"endframe":     endFrame,
		"interval":     interval,
		"with_entropy": withEntropy,
	})
}

// RunCalculation invokes gmx_MMPBSA with the prepared input file.
func (m *MMPBSA) RunCalculation(ctx context.Context, ligandMolFile, indexFile, topologyFile, proteinGroup, ligandGroup, trajectoryFile string, overwrite bool) Result {
	if indexFile == "" || !m.exists(indexFile) {
		return Fail("Index file not found")
	}
	inputFile := filepath.Join(m.mmpbsaDir(), "mmpbsa.in")
	if _, err := os.Stat(inputFile); err != nil {
		return Fail("MM-PBSA input file not found. Create it first.")
	}

	overwriteFlag := ""
	if overwrite {
		overwriteFlag = "-O"
	}

	cmd := fmt.Sprintf("gmx_MMPBSA %s -i %s -cs %s -ci %s -cg %s %s -ct %s -lm %s -o mmpbsa/FINAL_RESULTS_MMPBSA.dat -nogui",
		overwriteFlag, inputFile, topologyFile, indexFile, proteinGroup, ligandGroup, trajectoryFile, ligandMolFile)
	if res := m.run(ctx, cmd); !res.Success {
		return Fail("MM-PBSA calculation failed: %s", res.Stderr)
	}

	results := filepath.Join(m.mmpbsaDir(), "FINAL_RESULTS_MMPBSA.dat")
	if _, err := os.Stat(results); err != nil {
		return Fail("MM-PBSA calculation did not produce expected output file")
	}

	return OK(map[string]any{
		"results_file": results,
		"output_dir":   m.mmpbsaDir(),
	})
}

// ParseResults reads the gmx_MMPBSA summary and extracts the binding free
// energy and its components.
func (m *MMPBSA) ParseResults() Result {
	path := filepath.Join(m.mmpbsaDir(), "results_FINAL_RESULTS_MMPBSA.dat")
	data, err := os.ReadFile(path)
	if err != nil {
		return Fail("MM-PBSA results file not found")
	}

	type entry struct {
		Mean   float64 `json:"mean"`
		Std    float64 `json:"std"`
		StdErr float64 `json:"std_err"`
	}
	detailed := map[string]entry{}
	inData := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "***") || strings.HasPrefix(line, "===") {
			continue
		}
		if !inData {
			if strings.HasPrefix(line, "DELTA TOTAL") {
				inData = true
			}
			continue
		}
		if !strings.Contains(line, ":") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) < 2 {
			continue
		}
		fields := strings.Fields(parts[1])
		if len(fields) < 3 {
			continue
		}
		mean, err1 := strconv.ParseFloat(fields[0], 64)
		std, err2 := strconv.ParseFloat(fields[1], 64)
		stdErr, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		detailed[strings.TrimSpace(parts[0])] = entry{Mean: mean, Std: std, StdErr: stdErr}
	}

	return OK(map[string]any{
		"binding_energy": detailed["DELTA TOTAL"].Mean,
		"components": map[string]any{
			"van_der_waals":       detailed["VDWAALS"].Mean,
			"electrostatic":       detailed["EEL"].Mean,
			"polar_solvation":     detailed["EGB/EPB"].Mean,
			"non_polar_solvation": detailed["ESURF"].Mean,
		},
		"detailed_results": detailed,
	})
}

func (m *MMPBSA) Tools() []Tool {
	return append(m.sharedTools(), []Tool{
		{
			Name:        "create_mmpbsa_index_file",
			Description: "Create index file for MM-PBSA analysis",
			Params: map[string]any{
				"protein_selection": map[string]any{
					"type":        "string",
					"description": "Selection for protein group",
				},
				"ligand_selection": map[string]any{
					"type":        "string",
					"description": "Selection for ligand group",
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return m.CreateIndexFile(ctx,
					argString(args, "protein_selection", "Protein"),
					argString(args, "ligand_selection", "LIG"))
			},
		},
		{
			Name:        "create_mmpbsa_input",
			Description: "Create input file for MM-PBSA/GBSA calculation",
			Params: map[string]any{
				"method": map[string]any{
					"type":        "string",
					"description": "Method to use (pb or gb)",
					"enum":        []string{"pb", "gb"},
				},
				"startframe": map[string]any{
					"type":        "integer",
					"description": "First frame to analyze",
				},
				"endframe": map[string]any{
					"type":        "integer",
					"description": "Last frame to analyze",
				},
				"interval": map[string]any{
					"type":        "integer",
					"description": "Interval between frames",
				},
				"ionic_strength": map[string]any{
					"type":        "number",
					"description": "Ionic strength for calculation",
				},
				"with_entropy": map[string]any{
					"type":        "boolean",
					"description": "Whether to include entropy calculation",
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return m.CreateInput(
					argString(args, "method", "pb"),
					argInt(args, "startframe", 1),
					argInt(args, "endframe", 1000),
					argInt(args, "interval", 10),
					argFloat(args, "ionic_strength", 0.15),
					argBool(args, "with_entropy", false))
			},
		},
		{
			Name:        "run_mmpbsa_calculation",
			Description: "Run MM-PBSA/GBSA calculation for protein-ligand binding free energy",
			Params: map[string]any{
				"ligand_mol_file": map[string]any{
					"type":        "string",
					"description": "The Antechamber output mol2 file of ligand parametrization",
				},
				"index_file": map[string]any{
					"type":        "string",
					"description": "GROMACS index file containing protein and ligand groups",
				},
				"topology_file": map[string]any{
					"type":        "string",
					"description": "GROMACS topology file (tpr) for the system",
				},
				"protein_group": map[string]any{
					"type":        "string",
					"description": "Name or index of the protein group in the index file",
				},
				"ligand_group": map[string]any{
					"type":        "string",
					"description": "Name or index of the ligand group in the index file",
				},
				"trajectory_file": map[string]any{
					"type":        "string",
					"description": "GROMACS trajectory file (xtc) for analysis",
				},
				"overwrite": map[string]any{
					"type":        "boolean",
					"description": "Whether to overwrite existing output files",
				},
			},
			Required: []string{"ligand_mol_file", "index_file", "topology_file", "protein_group", "ligand_group", "trajectory_file"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return m.RunCalculation(ctx,
					argString(args, "ligand_mol_file", ""),
					argString(args, "index_file", ""),
					argString(args, "topology_file", ""),
					argString(args, "protein_group", ""),
					argString(args, "ligand_group", ""),
					argString(args, "trajectory_file", ""),
					argBool(args, "overwrite", true))
			},
		},
		{
			Name:        "parse_mmpbsa_results",
			Description: "Parse MM-PBSA/GBSA results",
			Run: func(ctx context.Context, args map[string]any) Result {
				return m.ParseResults()
			},
		},
	}...)
}
