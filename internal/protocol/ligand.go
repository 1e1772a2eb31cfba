package protocol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/shell"
)

// ProteinLigand extends the protein workflow with ligand parameterization
// through OpenBabel and ACPYPE. The ligand residue is renamed to LIG
// throughout so downstream index groups and analyses can rely on it.
type ProteinLigand struct {
	Protein

	LigandName  string
	LigandFile  string
	ComplexFile string
	IndexFile   string
	HasLigand   bool
}

func NewProteinLigand(base Base) *ProteinLigand {
	logx.Info("Protocol", "Protein-ligand protocol initialized with workspace: %s", base.Workspace)
	return &ProteinLigand{Protein: Protein{Base: base}}
}

func (p *ProteinLigand) Name() string { return "protein-ligand" }

func (p *ProteinLigand) State() Result {
	r := p.Protein.State()
	if !r.Success() {
		return r
	}
	r["ligand_name"] = p.LigandName
	r["ligand_file"] = p.LigandFile
	r["complex_file"] = p.ComplexFile
	r["index_file"] = p.IndexFile
	r["has_ligand"] = p.HasLigand
	return r
}

func (p *ProteinLigand) CheckPrerequisites(ctx context.Context) Result {
	gromacs := p.CheckGromacs(ctx)
	if !gromacs.Success() {
		return gromacs
	}
	return OK(map[string]any{
		"gromacs": gromacs,
		"openbabel": map[string]any{
			"installed": shell.CommandExists("obabel"),
			"required":  true,
		},
		"acpype": map[string]any{
			"installed": shell.CommandExists("acpype"),
			"required":  true,
		},
	})
}

// SetLigand marks a residue as the ligand and splits the input structure
// into receptor and ligand files.
func (p *ProteinLigand) SetLigand(ctx context.Context, ligandName string) Result {
	if p.ProteinFile == "" {
		return Fail("No protein file has been set")
	}

	p.LigandName = ligandName

	if res := p.run(ctx, "mkdir -p param/receptor param/ligand"); !res.Success {
		return Fail("Failed to create directories: %s", res.Stderr)
	}

	cmd := fmt.Sprintf("grep '^ATOM' %s > param/receptor/receptor.pdb", p.ProteinFile)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to extract protein atoms: %s", res.Stderr)
	}

	if r := p.ExtractLigand(filepath.Join(p.Workspace, p.ProteinFile), ligandName); !r.Success() {
		return r
	}

	p.LigandFile = "param/ligand/ligand.pdb"
	p.HasLigand = true

	return OK(map[string]any{
		"ligand_name":   ligandName,
		"ligand_file":   p.LigandFile,
		"receptor_file": "param/receptor/receptor.pdb",
	})
}

// ExtractLigand pulls the ligand atoms (and their CONECT records) out of the
// PDB file, renaming the residue to LIG.
func (p *ProteinLigand) ExtractLigand(pdbFile, ligandName string) Result {
	data, err := os.ReadFile(pdbFile)
	if err != nil {
		return Fail("Failed to extract ligand: %v", err)
	}

	ligandAtoms := make(map[int]bool)
	var keep []string
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case len(line) >= 20 && strings.Contains(line[17:20], ligandName):
			line = line[:17] + "LIG" + line[20:]
			keep = append(keep, line)
			if len(line) >= 11 {
				if serial, err := strconv.Atoi(strings.TrimSpace(line[6:11])); err == nil {
					ligandAtoms[serial] = true
				}
			}
		case strings.HasPrefix(line, "CONECT"):
			for _, f := range strings.Fields(line)[1:] {
				if idx, err := strconv.Atoi(f); err == nil && ligandAtoms[idx] {
					keep = append(keep, line)
					break
				}
			}
		}
	}

	if len(keep) == 0 {
		return Fail("No atoms found for ligand %s in %s", ligandName, pdbFile)
	}

	out := filepath.Join(p.Workspace, "param/ligand/ligand.pdb")
	if err := os.WriteFile(out, []byte(strings.Join(keep, "\n")+"\n"), 0o644); err != nil {
		return Fail("Failed to write ligand file: %v", err)
	}

	return OK(map[string]any{"ligand_file": "param/ligand/ligand.pdb"})
}

// PrepareLigandTopology parameterizes the ligand with OpenBabel + ACPYPE.
func (p *ProteinLigand) PrepareLigandTopology(ctx context.Context) Result {
	if !p.HasLigand || p.LigandFile == "" {
		return Fail("No ligand has been set")
	}
	if !shell.CommandExists("obabel") {
		return Fail("OpenBabel is required for ligand preparation but is not installed")
	}
	if !shell.CommandExists("acpype") {
		return Fail("ACPYPE is required for ligand preparation but is not installed")
	}

	if res := p.run(ctx, "cd param/ligand && obabel -ipdb ligand.pdb -omol2 -h > ligand.mol2"); !res.Success {
		return Fail("Failed to convert ligand to MOL2 format: %s", res.Stderr)
	}

	if res := p.run(ctx, "cd param/ligand && acpype -i ligand.mol2"); !res.Success {
		return Fail("Failed to generate ligand topology with ACPYPE: %s", res.Stderr)
	}

	if res := p.run(ctx, "cp param/ligand/ligand.acpype/ligand_GMX.itp ligand.itp"); !res.Success {
		return Fail("Failed to copy ligand topology: %s", res.Stderr)
	}

	ndxCmd := fmt.Sprintf("echo $'r LIG & !a H*\\nname 3 LIG-H\\nq' | %s make_ndx -f param/ligand/ligand.acpype/ligand_NEW.pdb -o lig_noh.ndx", p.GmxBin)
	if res := p.run(ctx, ndxCmd); !res.Success {
		return Fail("Failed to create index for ligand restraints: %s", res.Stderr)
	}

	if res := p.run(ctx, "cp param/ligand/ligand.acpype/posre_ligand.itp ."); !res.Success {
		return Fail("Failed to generate position restraints for ligand: %s", res.Stderr)
	}

	include := "\n; Include Position restraint file\n#ifdef POSRES\n#include \"posre_ligand.itp\"\n#endif\n"
	itp := filepath.Join(p.Workspace, "ligand.itp")
	f, err := os.OpenFile(itp, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Fail("Failed to update ligand.itp with position restraints: %v", err)
	}
	_, err = f.WriteString(include)
	f.Close()
	if err != nil {
		return Fail("Failed to update ligand.itp with position restraints: %v", err)
	}

	return OK(map[string]any{
		"ligand_topology": "ligand.itp",
		"ligand_posre":    "posre_ligand.itp",
	})
}

// PrepareReceptorTopology runs pdb2gmx on the receptor alone.
func (p *ProteinLigand) PrepareReceptorTopology(ctx context.Context, forceField, waterModel string) Result {
	if !p.exists("param/receptor/receptor.pdb") {
		return Fail("Receptor file not found")
	}

	ffName, ok := config.ForceFields[forceField]
	if !ok {
		return Fail("Unknown force field: %s", forceField)
	}
	if waterModel == "" {
		waterModel = "spc"
	}

	cmd := fmt.Sprintf("cd param/receptor && %s pdb2gmx -f receptor.pdb -o receptor_GMX.pdb -p topol.top -i posre.itp -ff %s -water %s",
		p.GmxBin, ffName, waterModel)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to generate receptor topology: %s", res.Stderr)
	}

	if res := p.run(ctx, "cp param/receptor/*.itp param/receptor/topol.top ."); !res.Success {
		return Fail("Failed to copy receptor topology files: %s", res.Stderr)
	}

	return OK(map[string]any{"receptor_topology": "topol.top"})
}

// MergeProteinLigand concatenates the processed receptor and ligand
// structures and splices the ligand include into the topology.
func (p *ProteinLigand) MergeProteinLigand(ctx context.Context) Result {
	if !p.HasLigand {
		return Fail("No ligand has been set")
	}

	cmd := "grep -h ATOM param/receptor/receptor_GMX.pdb param/ligand/ligand.acpype/ligand_NEW.pdb > complex.pdb"
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Failed to merge protein and ligand structures: %s", res.Stderr)
	}

	top := filepath.Join(p.Workspace, "topol.top")
	data, err := os.ReadFile(top)
	if err != nil {
		return Fail("Failed to update topology file: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	var out []string
	for _, line := range lines {
		out = append(out, line)
		if strings.Contains(line, `forcefield.itp"`) {
			out = append(out, `#include "ligand.itp"`)
		}
	}
	out = append(out, "ligand   1")
	if err := os.WriteFile(top, []byte(strings.Join(out, "\n")+"\n"), 0o644); err != nil {
		return Fail("Failed to update topology file: %v", err)
	}

	p.ComplexFile = "complex.pdb"
	p.TopologyFile = "topol.top"
	p.BoxFile = p.ComplexFile

	return OK(map[string]any{
		"complex_file":  p.ComplexFile,
		"topology_file": p.TopologyFile,
	})
}

var ndxGroupRe = regexp.MustCompile(`\[ \w+ \]`)

// CreateIndexGroups builds Protein_Ligand and Water_Ions groups and rewrites
// the thermostat coupling groups in the equilibration/production mdp files.
func (p *ProteinLigand) CreateIndexGroups(ctx context.Context) Result {
	if !p.HasLigand {
		return Fail("No ligand has been set")
	}
	if p.SolvatedFile == "" {
		return Fail("System must be solvated first")
	}

	ndxCmd := fmt.Sprintf(`echo -e "1 | r LIG\nr SOL | r CL | r NA\nq" | %s make_ndx -f %s -o index.ndx`, p.GmxBin, p.SolvatedFile)
	if res := p.run(ctx, ndxCmd); !res.Success {
		return Fail("Failed to create index groups: %s", res.Stderr)
	}

	// the two groups we just added are the last two in the file
	ndx := filepath.Join(p.Workspace, "index.ndx")
	data, err := os.ReadFile(ndx)
	if err != nil {
		return Fail("Failed to rename index groups: %v", err)
	}
	content := string(data)
	matches := ndxGroupRe.FindAllString(content, -1)
	if len(matches) >= 2 {
		content = strings.Replace(content, matches[len(matches)-1], "[ Water_Ions ]", 1)
		content = strings.Replace(content, matches[len(matches)-2], "[ Protein_Ligand ]", 1)
		if err := os.WriteFile(ndx, []byte(content), 0o644); err != nil {
			return Fail("Failed to rename index groups: %v", err)
		}
	}

	groups := map[string]string{"tc-grps": "Protein_Ligand Water_Ions"}
	for _, mdpType := range []string{"nvt", "npt", "md"} {
		if r := p.CreateMDPFile(mdpType, groups); !r.Success() {
			return Fail("Failed to update MDP files with new index groups")
		}
	}

	p.IndexFile = "index.ndx"

	return OK(map[string]any{
		"index_file": p.IndexFile,
		"groups":     []string{"Protein_Ligand", "Water_Ions"},
	})
}

// GenerateTopology builds the complex topology when a ligand is set, and
// falls back to the protein-only path otherwise.
func (p *ProteinLigand) GenerateTopology(ctx context.Context, forceField, waterModel string) Result {
	if p.ProteinFile == "" {
		return Fail("No protein file has been set")
	}
	if !p.HasLigand {
		return p.Protein.GenerateTopology(ctx, forceField, waterModel)
	}

	if r := p.PrepareReceptorTopology(ctx, forceField, waterModel); !r.Success() {
		return r
	}
	if r := p.PrepareLigandTopology(ctx); !r.Success() {
		return r
	}
	if r := p.MergeProteinLigand(ctx); !r.Success() {
		return r
	}

	return OK(map[string]any{
		"topology_file": p.TopologyFile,
		"complex_file":  p.ComplexFile,
		"force_field":   forceField,
		"water_model":   waterModel,
		"has_ligand":    p.HasLigand,
	})
}

// Solvate solvates the complex and refreshes the index groups.
func (p *ProteinLigand) Solvate(ctx context.Context) Result {
	r := p.Protein.Solvate(ctx)
	if !r.Success() {
		return r
	}
	if p.HasLigand {
		if ir := p.CreateIndexGroups(ctx); !ir.Success() {
			return ir
		}
		r["index_file"] = p.IndexFile
	}
	r["has_ligand"] = p.HasLigand
	return r
}

// AddIons adds ions and refreshes the index groups afterwards.
func (p *ProteinLigand) AddIons(ctx context.Context, concentration float64, neutral bool) Result {
	r := p.Protein.AddIons(ctx, concentration, neutral)
	if !r.Success() {
		return r
	}
	if p.HasLigand {
		if ir := p.CreateIndexGroups(ctx); !ir.Success() {
			return ir
		}
		r["index_file"] = p.IndexFile
	}
	r["has_ligand"] = p.HasLigand
	return r
}

func (p *ProteinLigand) indexOption() string {
	if p.HasLigand && p.IndexFile != "" {
		return "-n " + p.IndexFile
	}
	return ""
}

// EnergyMinimization is the protein version with the complex index file.
func (p *ProteinLigand) EnergyMinimization(ctx context.Context) Result {
	if p.SolvatedFile == "" || p.TopologyFile == "" {
		return Fail("Solvated file or topology file not defined")
	}
	if r := p.CreateMDPFile("em", nil); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f em.mdp -c %s -p %s -o em.tpr %s",
		p.GmxBin, p.SolvatedFile, p.TopologyFile, p.indexOption())
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

func (p *ProteinLigand) NVTEquilibration(ctx context.Context) Result {
	if p.MinimizedFile == "" || p.TopologyFile == "" {
		return Fail("Minimized file or topology file not defined")
	}
	if r := p.createCoupledMDP("nvt"); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f nvt.mdp -c %s -r %s -p %s -o nvt.tpr -maxwarn 2 %s",
		p.GmxBin, p.MinimizedFile, p.MinimizedFile, p.TopologyFile, p.indexOption())
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

func (p *ProteinLigand) NPTEquilibration(ctx context.Context) Result {
	if r := p.createCoupledMDP("npt"); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f npt.mdp -c nvt.gro -r nvt.gro -t nvt.cpt -p %s -o npt.tpr -maxwarn 2 %s",
		p.GmxBin, p.TopologyFile, p.indexOption())
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

func (p *ProteinLigand) ProductionMD(ctx context.Context, lengthNs float64) Result {
	if p.EquilibratedFile == "" || p.TopologyFile == "" {
		return Fail("Equilibrated file or topology file not defined")
	}
	if lengthNs <= 0 {
		lengthNs = 10.0
	}

	nsteps := int(lengthNs * 1000000 / 2)
	overrides := map[string]string{"nsteps": fmt.Sprintf("%d", nsteps)}
	if p.HasLigand {
		overrides["tc-grps"] = "Protein_Ligand Water_Ions"
	}
	if r := p.CreateMDPFile("md", overrides); !r.Success() {
		return r
	}

	cmd := fmt.Sprintf("%s grompp -f md.mdp -c %s -t npt.cpt -p %s -o md.tpr -maxwarn 2 %s",
		p.GmxBin, p.EquilibratedFile, p.TopologyFile, p.indexOption())
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

func (p *ProteinLigand) createCoupledMDP(mdpType string) Result {
	var overrides map[string]string
	if p.HasLigand {
		overrides = map[string]string{"tc-grps": "Protein_Ligand Water_Ions"}
	}
	return p.CreateMDPFile(mdpType, overrides)
}

// AnalyzeLigandRMSD computes RMSD of the ligand alone.
func (p *ProteinLigand) AnalyzeLigandRMSD(ctx context.Context) Result {
	if !p.HasLigand {
		return Fail("No ligand in the system")
	}
	p.run(ctx, "mkdir -p analysis")

	cmd := fmt.Sprintf("echo 'LIG LIG' | %s rms -s md.tpr -f md.xtc -o analysis/ligand_rmsd.xvg -tu ns", p.GmxBin)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Ligand RMSD analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/ligand_rmsd.xvg",
		"analysis_type": "Ligand RMSD",
	})
}

// AnalyzeContacts computes the protein-ligand minimum distance.
func (p *ProteinLigand) AnalyzeContacts(ctx context.Context) Result {
	if !p.HasLigand {
		return Fail("No ligand in the system")
	}
	p.run(ctx, "mkdir -p analysis")

	cmd := fmt.Sprintf("echo -e 'Protein\\nLIG' | %s mindist -s md.tpr -f md.xtc -od analysis/protein_ligand_mindist.xvg -tu ns", p.GmxBin)
	if res := p.run(ctx, cmd); !res.Success {
		return Fail("Protein-ligand contacts analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/protein_ligand_mindist.xvg",
		"analysis_type": "Protein-Ligand Minimum Distance",
	})
}

func (p *ProteinLigand) Tools() []Tool {
	tools := append(p.sharedTools(), []Tool{
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
			Name:        "set_ligand",
			Description: "Set the ligand for simulation",
			Params: map[string]any{
				"ligand_name": map[string]any{
					"type":        "string",
					"description": "Residue name of the ligand in the PDB file",
				},
			},
			Required: []string{"ligand_name"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.SetLigand(ctx, argString(args, "ligand_name", ""))
			},
		},
		{
			Name:        "generate_topology",
			Description: "Generate topology for the protein-ligand complex",
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
			Description: "Solvate the protein-ligand complex in water",
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
		{
			Name:        "analyze_ligand_rmsd",
			Description: "Perform RMSD analysis focused on the ligand",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AnalyzeLigandRMSD(ctx)
			},
		},
		{
			Name:        "analyze_protein_ligand_contacts",
			Description: "Analyze contacts between protein and ligand",
			Run: func(ctx context.Context, args map[string]any) Result {
				return p.AnalyzeContacts(ctx)
			},
		},
	}...)
	return tools
}
