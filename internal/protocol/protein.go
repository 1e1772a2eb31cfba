package protocol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/logx"
)

// Protein drives a protein-only simulation from structure file to
// production trajectory.
type Protein struct {
	Base

	ProteinFile      string
	TopologyFile     string
	BoxFile          string
	SolvatedFile     string
	MinimizedFile    string
	EquilibratedFile string
	ProductionFile   string
}

func NewProtein(base Base) *Protein {
	logx.Info("Protocol", "Protein protocol initialized with workspace: %s", base.Workspace)
	return &Protein{Base: base}
}

func (p *Protein) Name() string { return "protein" }

func (p *Protein) State() Result {
	r := p.WorkspaceInfo()
	if !r.Success() {
		return r
	}
	r["protein_file"] = p.ProteinFile
	r["topology_file"] = p.TopologyFile
	r["box_file"] = p.BoxFile
	r["solvated_file"] = p.SolvatedFile
	r["minimized_file"] = p.MinimizedFile
	r["equilibrated_file"] = p.EquilibratedFile
	r["production_file"] = p.ProductionFile
	return r
}

func (p *Protein) CheckPrerequisites(ctx context.Context) Result {
	return p.CheckGromacs(ctx)
}

// CheckForLigands lists non-standard residues in a PDB file.
func (p *Protein) CheckForLigands(pdbFile string) Result {
	path := pdbFile
	if !filepath.IsAbs(path) && p.exists(pdbFile) {
		path = filepath.Join(p.Workspace, pdbFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fail("Failed to analyze PDB file: %v", err)
	}

	standard := make(map[string]bool, len(config.StandardResidues))
	for _, r := range config.StandardResidues {
		standard[r] = true
	}

	seen := make(map[string]bool)
	var ligands []string
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		if len(line) < 20 {
			continue
		}
		res := strings.TrimSpace(line[17:20])
		if res == "" || standard[res] || seen[res] {
			continue
		}
		seen[res] = true
		ligands = append(ligands, res)
	}

	return OK(map[string]any{"ligands": ligands})
}

// SetProteinFile copies the structure file into the workspace.
func (p *Protein) SetProteinFile(ctx context.Context, filePath string) Result {
	if _, err := os.Stat(filePath); err != nil {
		return Fail("Protein file not found: %s", filePath)
	}

	basename := filepath.Base(filePath)
	p.ProteinFile = basename

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return Fail("resolving %s: %v", filePath, err)
	}
	wsAbs, _ := filepath.Abs(filepath.Join(p.Workspace, basename))
	if abs != wsAbs {
		if res := p.run(ctx, fmt.Sprintf("cp %s .", abs)); !res.Success {
			return Fail("Failed to copy protein file to workspace: %s", res.Stderr)
		}
	}

	p.run(ctx, "mkdir -p topologies")

	return OK(map[string]any{
		"protein_file": p.ProteinFile,
		"file_path":    wsAbs,
	})
}

// GenerateTopology runs pdb2gmx with the mapped force field name.
func (p *Protein) GenerateTopology(ctx context.Context, forceField, waterModel string) Result {
	if p.ProteinFile == "" {
		return Fail("No protein file has been set")
	}
	if waterModel == "" {
		waterModel = "spc"
	}

	ffName, ok := config.ForceFields[forceField]
	if !ok {
		names := make([]string, 0, len(config.ForceFields))
		for name := range config.ForceFields {
			names = append(names, name)
		}
		sort.Strings(names)
		return Fail("Unknown force field: %s. Available options: %s", forceField, strings.Join(names, ", "))
	}

	cmd := fmt.Sprintf("%s pdb2gmx -f %s -o protein.gro -p topology.top -i posre.itp -ff %s -water %s",
		p.GmxBin, p.ProteinFile, ffName, waterModel)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to generate topology: %s", res.Stderr)
	}

	p.TopologyFile = "topology.top"
	p.BoxFile = "protein.gro"

	return OK(map[string]any{
		"topology_file": p.TopologyFile,
		"box_file":      p.BoxFile,
		"force_field":   forceField,
		"water_model":   waterModel,
	})
}

// DefineBox centers the structure in a box of the given type.
func (p *Protein) DefineBox(ctx context.Context, distance float64, boxType string) Result {
	if p.BoxFile == "" {
		return Fail("No protein structure file has been processed")
	}
	if distance <= 0 {
		distance = 1.0
	}
	if boxType == "" {
		boxType = "cubic"
	}

	cmd := fmt.Sprintf("%s editconf -f %s -o box.gro -c -d %g -bt %s", p.GmxBin, p.BoxFile, distance, boxType)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to define simulation box: %s", res.Stderr)
	}

	p.BoxFile = "box.gro"

	return OK(map[string]any{
		"box_file": p.BoxFile,
		"distance": distance,
		"box_type": boxType,
	})
}

// Solvate fills the box with water.
func (p *Protein) Solvate(ctx context.Context) Result {
	if p.BoxFile == "" || p.TopologyFile == "" {
		return Fail("Box file or topology file not defined")
	}

	cmd := fmt.Sprintf("%s solvate -cp %s -cs spc216.gro -o solvated.gro -p %s", p.GmxBin, p.BoxFile, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to solvate the protein: %s", res.Stderr)
	}

	p.SolvatedFile = "solvated.gro"

	return OK(map[string]any{"solvated_file": p.SolvatedFile})
}

// AddIons neutralizes the system and adds salt up to the concentration.
func (p *Protein) AddIons(ctx context.Context, concentration float64, neutral bool) Result {
	if p.SolvatedFile == "" || p.TopologyFile == "" {
		return Fail("Solvated file or topology file not defined")
	}
	if concentration <= 0 {
		concentration = 0.15
	}

	if r := p.CreateMDPFile("ions", nil); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f ions.mdp -c %s -p %s -o ions.tpr", p.GmxBin, p.SolvatedFile, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to prepare for adding ions: %s", res.Stderr)
	}

	neutralFlag := ""
	if neutral {
		neutralFlag = "-neutral"
	}
	cmd = fmt.Sprintf("echo 'SOL' | %s genion -s ions.tpr -o solvated_ions.gro -p %s -pname NA -nname CL %s -conc %g",
		p.GmxBin, p.TopologyFile, neutralFlag, concentration)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to add ions: %s", res.Stderr)
	}

	p.SolvatedFile = "solvated_ions.gro"

	return OK(map[string]any{
		"solvated_file": p.SolvatedFile,
		"concentration": concentration,
		"neutral":       neutral,
	})
}

// EnergyMinimization relaxes bad contacts before equilibration.
func (p *Protein) EnergyMinimization(ctx context.Context) Result {
	if p.SolvatedFile == "" || p.TopologyFile == "" {
		return Fail("Solvated file or topology file not defined")
	}

	if r := p.CreateMDPFile("em", nil); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f em.mdp -c %s -p %s -o em.tpr", p.GmxBin, p.SolvatedFile, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to prepare energy minimization: %s", res.Stderr)
	}

	if res := p.run(ctx, p.GmxBin+" mdrun -v -deffnm em"); !res.Success {
		return Fail("Energy minimization failed: %s", res.Stderr)
	}

	p.MinimizedFile = "em.gro"

	return OK(map[string]any{
		"minimized_file": p.MinimizedFile,
		"log_file":       "em.log",
		"energy_file":    "em.edr",
	})
}

// NVTEquilibration equilibrates temperature with position restraints on.
func (p *Protein) NVTEquilibration(ctx context.Context) Result {
	if p.MinimizedFile == "" || p.TopologyFile == "" {
		return Fail("Minimized file or topology file not defined")
	}

	if r := p.CreateMDPFile("nvt", nil); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f nvt.mdp -c %s -r %s -p %s -o nvt.tpr",
		p.GmxBin, p.MinimizedFile, p.MinimizedFile, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to prepare NVT equilibration: %s", res.Stderr)
	}

	if res := p.run(ctx, p.GmxBin+" mdrun -v -deffnm nvt"); !res.Success {
		return Fail("NVT equilibration failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"nvt_file":       "nvt.gro",
		"nvt_checkpoint": "nvt.cpt",
		"log_file":       "nvt.log",
		"energy_file":    "nvt.edr",
	})
}

// NPTEquilibration equilibrates pressure starting from the NVT state.
func (p *Protein) NPTEquilibration(ctx context.Context) Result {
	if r := p.CreateMDPFile("npt", nil); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f npt.mdp -c nvt.gro -r nvt.gro -t nvt.cpt -p %s -o npt.tpr",
		p.GmxBin, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to prepare NPT equilibration: %s", res.Stderr)
	}

	if res := p.run(ctx, p.GmxBin+" mdrun -v -deffnm npt"); !res.Success {
		return Fail("NPT equilibration failed: %s", res.Stderr)
	}

	p.EquilibratedFile = "npt.gro"

	return OK(map[string]any{
		"equilibrated_file": p.EquilibratedFile,
		"npt_checkpoint":    "npt.cpt",
		"log_file":          "npt.log",
		"energy_file":       "npt.edr",
	})
}

// ProductionMD runs the production simulation. nsteps follows from the
// requested length at the 2 fs timestep.
func (p *Protein) ProductionMD(ctx context.Context, lengthNs float64) Result {
	if p.EquilibratedFile == "" || p.TopologyFile == "" {
		return Fail("Equilibrated file or topology file not defined")
	}
	if lengthNs <= 0 {
		lengthNs = 10.0
	}

	nsteps := int(lengthNs * 1000000 / 2)
	if r := p.CreateMDPFile("md", map[string]string{"nsteps": fmt.Sprintf("%d", nsteps)}); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f md.mdp -c %s -t npt.cpt -p %s -o md.tpr",
		p.GmxBin, p.EquilibratedFile, p.TopologyFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to prepare production MD: %s", res.Stderr)
	}

	if res := p.run(ctx, p.GmxBin+" mdrun -v -deffnm md"); !res.Success {
		return Fail("Production MD failed: %s", res.Stderr)
	}

	p.ProductionFile = "md.gro"

	return OK(map[string]any{
		"production_file": p.ProductionFile,
		"trajectory_file": "md.xtc",
		"log_file":        "md.log",
		"energy_file":     "md.edr",
		"length_ns":       lengthNs,
	})
}

// AnalyzeRMSD computes protein RMSD over the production trajectory.
func (p *Protein) AnalyzeRMSD(ctx context.Context) Result {
	p.run(ctx, "mkdir -p analysis")

	cmd := fmt.Sprintf("echo 'Protein Protein' | %s rms -s md.tpr -f md.xtc -o analysis/rmsd.xvg -tu ns", p.GmxBin)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("RMSD analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/rmsd.xvg",
		"analysis_type": "RMSD",
	})
}

// AnalyzeRMSF computes per-residue fluctuations.
func (p *Protein) AnalyzeRMSF(ctx context.Context) Result {
	p.run(ctx, "mkdir -p analysis")

	cmd := fmt.Sprintf("echo 'C-alpha' | %s rmsf -s md.tpr -f md.xtc -o analysis/rmsf.xvg -res", p.GmxBin)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("RMSF analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/rmsf.xvg",
		"analysis_type": "RMSF",
	})
}

// AnalyzeGyration computes the radius of gyration.
func (p *Protein) AnalyzeGyration(ctx context.Context) Result {
	p.run(ctx, "mkdir -p analysis")

	cmd := fmt.Sprintf("echo 'Protein' | %s gyrate -s md.tpr -f md.xtc -o analysis/gyrate.xvg", p.GmxBin)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Radius of gyration analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/gyrate.xvg",
		"analysis_type": "Radius of Gyration",
	})
}

func (p *Protein) Tools() []Tool {
	return append(p.sharedTools(), p.workflowTools()...)
}

func (p *Protein) workflowTools() []Tool {
	return []Tool{
		{
			Name:        "set_protein_file",
			Description: "Set and prepare the protein file for simulation",
			Params: map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the protein structure file (PDB or GRO)",
				},
			},
			Required: []string{"file_path"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.SetProteinFile(ctx, argString(args, "file_path", ""))
			},
		},
		{
			Name:        "check_for_ligands",
			Description: "Check for potential ligands in the PDB file",
			Params: map[string]any{
				"pdb_file": map[string]any{
					"type":        "string",
					"description": "Path to the PDB file",
				},
			},
			Required: []string{"pdb_file"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.CheckForLigands(argString(args, "pdb_file", ""))
			},
		},
		{
			Name:        "generate_topology",
			Description: "Generate topology for the protein",
			Params: map[string]any{
				"force_field": map[string]any{
					"type":        "string",
					"description": "Name of the force field to use",
					"enum":        []string{"AMBER99SB-ILDN", "CHARMM36", "GROMOS96 53a6", "OPLS-AA/L"},
				},
				"water_model": map[string]any{
					"type":        "string",
					"description": "Water model to use",
					"enum":        config.WaterModels,
				},
			},
			Required: []string{"force_field"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.GenerateTopology(ctx, argString(args, "force_field", ""), argString(args, "water_model", "spc"))
			},
		},
		{
			Name:        "define_simulation_box",
			Description: "Define the simulation box",
			Params: map[string]any{
				"distance": map[string]any{
					"type":        "number",
					"description": "Minimum distance between protein and box edge (nm)",
				},
				"box_type": map[string]any{
					"type":        "string",
					"description": "Type of box",
					"enum":        config.BoxTypes,
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.DefineBox(ctx, argFloat(args, "distance", 1.0), argString(args, "box_type", "cubic"))
			},
		},
		{
			Name:        "solvate_system",
			Description: "Solvate the protein in water",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.Solvate(ctx)
			},
		},
		{
			Name:        "add_ions",
			Description: "Add ions to the solvated system",
			Params: map[string]any{
				"concentration": map[string]any{
					"type":        "number",
					"description": "Salt concentration in M, default is 0.15",
				},
				"neutral": map[string]any{
					"type":        "boolean",
					"description": "Whether to neutralize the system",
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AddIons(ctx, argFloat(args, "concentration", 0.15), argBool(args, "neutral", true))
			},
		},
		{
			Name:        "run_energy_minimization",
			Description: "Run energy minimization",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.EnergyMinimization(ctx)
			},
		},
		{
			Name:        "run_nvt_equilibration",
			Description: "Run NVT equilibration",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.NVTEquilibration(ctx)
			},
		},
		{
			Name:        "run_npt_equilibration",
			Description: "Run NPT equilibration",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.NPTEquilibration(ctx)
			},
		},
		{
			Name:        "run_production_md",
			Description: "Run production MD",
			Params: map[string]any{
				"length_ns": map[string]any{
					"type":        "number",
					"description": "Length of the simulation in nanoseconds",
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.ProductionMD(ctx, argFloat(args, "length_ns", 10.0))
			},
		},
		{
			Name:        "analyze_rmsd",
			Description: "Perform RMSD analysis",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AnalyzeRMSD(ctx)
			},
		},
		{
			Name:        "analyze_rmsf",
			Description: "Perform RMSF analysis",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AnalyzeRMSF(ctx)
			},
		},
		{
			Name:        "analyze_gyration",
			Description: "Perform radius of gyration analysis",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AnalyzeGyration(ctx)
			},
		},
	}
}
