package protocol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/shell"
)

// energyTerms maps energy term names to their usual selection numbers in
// gmx energy output.
var energyTerms = map[string]string{
	"Potential":   "10",
	"Kinetic":     "11",
	"Total":       "12",
	"Temperature": "16",
	"Pressure":    "17",
	"Volume":      "22",
}

// Analysis post-processes a finished production run: trajectory cleanup,
// RMSD/RMSF/gyration, hydrogen bonds, energy terms, secondary structure.
type Analysis struct {
	Base

	HasLigand      bool
	ProductionFile string
	TrajectoryFile string
	TopologyFile   string
	EnergyFile     string
}

func NewAnalysis(base Base, hasLigand bool) (*Analysis, error) {
	dir := filepath.Join(base.Workspace, "analysis")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create analysis directory: %w", err)
	}
	logx.Info("Protocol", "Analysis protocol initialized with workspace: %s", base.Workspace)
	return &Analysis{Base: base, HasLigand: hasLigand}, nil
}

func (a *Analysis) Name() string { return "analysis" }

func (a *Analysis) analysisDir() string { return filepath.Join(a.Workspace, "analysis") }

// fileToken reduces a group selection to something safe inside an output
// filename handed to `sh -c` ("C-alpha" -> "c_alpha").
func fileToken(selection string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(selection) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (a *Analysis) State() Result {
	var files []string
	if entries, err := os.ReadDir(a.analysisDir()); err == nil {
		for _, e := range entries {
			files = append(files, e.Name())
		}
	}
	return OK(map[string]any{
		"workspace_path":     a.Workspace,
		"analysis_directory": a.analysisDir(),
		"has_ligand":         a.HasLigand,
		"production_file":    a.ProductionFile,
		"trajectory_file":    a.TrajectoryFile,
		"topology_file":      a.TopologyFile,
		"energy_file":        a.EnergyFile,
		"analysis_files":     files,
	})
}

func (a *Analysis) CheckPrerequisites(ctx context.Context) Result {
	gromacs := a.CheckGromacs(ctx)
	dssp := shell.CommandExists("dssp") || shell.CommandExists("mkdssp")

	var missing []string
	for _, f := range []string{"md.xtc", "md.tpr", "md.edr"} {
		if !a.exists(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Fail("Missing required files: %s", strings.Join(missing, ", "))
	}

	a.ProductionFile = "md.gro"
	a.TrajectoryFile = "md.xtc"
	a.TopologyFile = "topol.top"
	a.EnergyFile = "md.edr"

	return OK(map[string]any{
		"gromacs": gromacs,
		"dssp": map[string]any{
			"installed": dssp,
			"required":  false,
		},
	})
}

// CleanTrajectory removes PBC artifacts, strips water and dumps the last
// frame as a PDB.
func (a *Analysis) CleanTrajectory(ctx context.Context) Result {
	cmd := fmt.Sprintf("echo 'Protein System' | %s trjconv -s md.tpr -f md.xtc -o analysis/clean_full.xtc -pbc nojump -ur compact -center", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Failed to clean trajectory: %s", res.Stderr)
	}

	cmd = fmt.Sprintf("echo 'Protein non-Water' | %s trjconv -s md.tpr -f analysis/clean_full.xtc -o analysis/clean_nowat.xtc -fit rot+trans", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Failed to create no-water trajectory: %s", res.Stderr)
	}

	cmd = fmt.Sprintf("echo 'Protein Protein' | %s trjconv -s md.tpr -f analysis/clean_nowat.xtc -o analysis/protein_lastframe.pdb -pbc nojump -ur compact -center -dump 9999999999999999", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Failed to extract last frame: %s", res.Stderr)
	}

	return OK(map[string]any{
		"clean_trajectory": "analysis/clean_full.xtc",
		"nowat_trajectory": "analysis/clean_nowat.xtc",
		"last_frame":       "analysis/protein_lastframe.pdb",
	})
}

func (a *Analysis) AnalyzeRMSD(ctx context.Context, selection, reference string) Result {
	if selection == "" {
		selection = "Backbone"
	}
	if reference == "" {
		reference = "Backbone"
	}
	out := fmt.Sprintf("analysis/rmsd_%s.xvg", fileToken(selection))

	cmd := fmt.Sprintf("echo '%s %s' | %s rms -s md.tpr -f analysis/clean_nowat.xtc -o %s -tu ns",
		reference, selection, a.GmxBin, out)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("RMSD analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   out,
		"analysis_type": "RMSD",
		"selection":     selection,
		"reference":     reference,
	})
}

func (a *Analysis) AnalyzeRMSF(ctx context.Context, selection string) Result {
	if selection == "" {
		selection = "Backbone"
	}
	out := fmt.Sprintf("analysis/rmsf_%s.xvg", fileToken(selection))

	cmd := fmt.Sprintf("echo '%s' | %s rmsf -s md.tpr -f analysis/clean_nowat.xtc -o %s -res",
		selection, a.GmxBin, out)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("RMSF analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   out,
		"analysis_type": "RMSF",
		"selection":     selection,
	})
}

func (a *Analysis) AnalyzeGyration(ctx context.Context, selection string) Result {
	if selection == "" {
		selection = "Protein"
	}
	out := fmt.Sprintf("analysis/gyrate_%s.xvg", fileToken(selection))

	cmd := fmt.Sprintf("echo '%s' | %s gyrate -s md.tpr -f analysis/clean_nowat.xtc -o %s",
		selection, a.GmxBin, out)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Radius of gyration analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   out,
		"analysis_type": "Radius of Gyration",
		"selection":     selection,
	})
}

func (a *Analysis) AnalyzeHydrogenBonds(ctx context.Context, selection1, selection2 string) Result {
	if selection1 == "" {
		selection1 = "Protein"
	}
	if selection2 == "" {
		selection2 = "Protein"
	}
	out := fmt.Sprintf("analysis/hbnum_%s_%s.xvg", fileToken(selection1), fileToken(selection2))

	cmd := fmt.Sprintf("echo -e '%s\\n%s' | %s hbond -s md.tpr -f analysis/clean_nowat.xtc -num %s",
		selection1, selection2, a.GmxBin, out)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Hydrogen bond analysis failed: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   out,
		"analysis_type": "Hydrogen Bonds",
		"selection1":    selection1,
		"selection2":    selection2,
	})
}

func (a *Analysis) AnalyzeSecondaryStructure(ctx context.Context) Result {
	if !shell.CommandExists("dssp") && !shell.CommandExists("mkdssp") {
		return Fail("DSSP is not installed, secondary structure analysis is unavailable")
	}

	cmd := fmt.Sprintf("echo 'Protein' | %s do_dssp -s md.tpr -f analysis/clean_nowat.xtc -o analysis/ss.xpm -ver 3 -tu ns -dt 0.05", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Secondary structure analysis failed: %s", res.Stderr)
	}

	cmd = fmt.Sprintf("%s xpm2ps -f analysis/ss.xpm -o analysis/ss.ps -by 10 -bx 3", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Failed to convert secondary structure map: %s", res.Stderr)
	}

	return OK(map[string]any{
		"output_file":   "analysis/ss.xpm",
		"plot_file":     "analysis/ss.ps",
		"analysis_type": "Secondary Structure",
	})
}

// AnalyzeEnergy extracts energy terms from md.edr, one xvg per term.
func (a *Analysis) AnalyzeEnergy(ctx context.Context, terms []string) Result {
	if len(terms) == 0 {
		terms = []string{"Potential", "Temperature", "Pressure"}
	}

	results := map[string]any{}
	allOK := true
	for _, term := range terms {
		num, ok := energyTerms[term]
		if !ok {
			results[term] = Fail("Unknown energy term: %s", term)
			allOK = false
			continue
		}
		out := fmt.Sprintf("analysis/energy_%s.xvg", strings.ToLower(term))
		cmd := fmt.Sprintf("echo '%s 0' | %s energy -f md.edr -o %s", num, a.GmxBin, out)
		if res := a.run(ctx, cmd); !res.Success {
			results[term] = Fail("Energy analysis for %s failed: %s", term, res.Stderr)
			allOK = false
			continue
		}
		results[term] = OK(map[string]any{
			"output_file":   out,
			"analysis_type": "Energy",
			"term":          term,
		})
	}

	if !allOK {
		r := Fail("Some energy analyses failed")
		r["results"] = results
		return r
	}
	return OK(map[string]any{"results": results})
}

func (a *Analysis) AnalyzeLigandRMSD(ctx context.Context) Result {
	if !a.HasLigand {
		return Fail("No ligand in the system")
	}
	cmd := fmt.Sprintf("echo 'LIG LIG' | %s rms -s md.tpr -f analysis/clean_nowat.xtc -o analysis/ligand_rmsd.xvg -tu ns", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Ligand RMSD analysis failed: %s", res.Stderr)
	}
	return OK(map[string]any{
		"output_file":   "analysis/ligand_rmsd.xvg",
		"analysis_type": "Ligand RMSD",
	})
}

func (a *Analysis) AnalyzeContacts(ctx context.Context) Result {
	if !a.HasLigand {
		return Fail("No ligand in the system")
	}
	cmd := fmt.Sprintf("echo -e 'Protein\\nLIG' | %s mindist -s md.tpr -f analysis/clean_nowat.xtc -od analysis/protein_ligand_mindist.xvg -tu ns", a.GmxBin)
	if res := a.run(ctx, cmd); !res.Success {
		return Fail("Protein-ligand contacts analysis failed: %s", res.Stderr)
	}
	return OK(map[string]any{
		"output_file":   "analysis/protein_ligand_mindist.xvg",
		"analysis_type": "Protein-Ligand Minimum Distance",
	})
}

// RunAll cleans the trajectory and performs the full standard analysis set.
func (a *Analysis) RunAll(ctx context.Context) Result {
	if r := a.CleanTrajectory(ctx); !r.Success() {
		return r
	}

	analyses := []Result{
		a.AnalyzeRMSD(ctx, "Backbone", "Backbone"),
		a.AnalyzeRMSD(ctx, "Protein", "Backbone"),
		a.AnalyzeRMSF(ctx, "C-alpha"),
		a.AnalyzeGyration(ctx, "Protein"),
		a.AnalyzeEnergy(ctx, []string{"Potential", "Temperature", "Pressure"}),
		a.AnalyzeHydrogenBonds(ctx, "Protein", "Protein"),
	}
	if a.HasLigand {
		analyses = append(analyses, a.AnalyzeLigandRMSD(ctx), a.AnalyzeContacts(ctx))
	}
	if shell.CommandExists("dssp") || shell.CommandExists("mkdssp") {
		analyses = append(analyses, a.AnalyzeSecondaryStructure(ctx))
	}

	succeeded := 0
	for _, r := range analyses {
		if r.Success() {
			succeeded++
		}
	}
	if succeeded == 0 {
		return Fail("All analyses failed")
	}

	return OK(map[string]any{
		"total_analyses":      len(analyses),
		"successful_analyses": succeeded,
		"analyses":            analyses,
		"report_directory":    a.analysisDir(),
	})
}

func (a *Analysis) Tools() []Tool {
	selectionParam := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	return append(a.sharedTools(), []Tool{
		{
			Name:        "clean_trajectory",
			Description: "Clean the trajectory by removing PBC effects and centering",
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.CleanTrajectory(ctx)
			},
		},
		{
			Name:        "analyze_rmsd",
			Description: "Perform RMSD analysis on the cleaned trajectory",
			Params: map[string]any{
				"selection": selectionParam("Group to compute RMSD for"),
				"reference": selectionParam("Group to fit against"),
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeRMSD(ctx,
					argString(args, "selection", "Backbone"),
					argString(args, "reference", "Backbone"))
			},
		},
		{
			Name:        "analyze_rmsf",
			Description: "Perform per-residue RMSF analysis",
			Params: map[string]any{
				"selection": selectionParam("Group to compute RMSF for"),
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeRMSF(ctx, argString(args, "selection", "Backbone"))
			},
		},
		{
			Name:        "analyze_gyration",
			Description: "Perform radius of gyration analysis",
			Params: map[string]any{
				"selection": selectionParam("Group to compute radius of gyration for"),
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeGyration(ctx, argString(args, "selection", "Protein"))
			},
		},
		{
			Name:        "analyze_hydrogen_bonds",
			Description: "Analyze hydrogen bonds between two groups",
			Params: map[string]any{
				"selection1": selectionParam("First group"),
				"selection2": selectionParam("Second group"),
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeHydrogenBonds(ctx,
					argString(args, "selection1", "Protein"),
					argString(args, "selection2", "Protein"))
			},
		},
		{
			Name:        "analyze_secondary_structure",
			Description: "Analyze secondary structure evolution with DSSP",
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeSecondaryStructure(ctx)
			},
		},
		{
			Name:        "analyze_energy",
			Description: "Extract energy terms from the production energy file",
			Params: map[string]any{
				"terms": map[string]any{
					"type":        "array",
					"description": "Energy terms to analyze",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"Potential", "Kinetic", "Total", "Temperature", "Pressure", "Volume"},
					},
				},
			},
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeEnergy(ctx, argStringSlice(args, "terms"))
			},
		},
		{
			Name:        "analyze_ligand_rmsd",
			Description: "Perform RMSD analysis focused on the ligand",
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeLigandRMSD(ctx)
			},
		},
		{
			Name:        "analyze_protein_ligand_contacts",
			Description: "Analyze contacts between protein and ligand",
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.AnalyzeContacts(ctx)
			},
		},
		{
			Name:        "generate_analysis_report",
			Description: "Run the full standard analysis set on the trajectory",
			Run: func(ctx context.Context, args map[string]any) Result {
				return a.RunAll(ctx)
			},
		},
	}...)
}
