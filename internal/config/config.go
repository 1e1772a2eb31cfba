package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default settings
const (
	DefaultWorkspace   = "./md_workspace"
	DefaultModel       = "gpt-4o"
	DefaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultDeepSeekURL = "https://api.deepseek.com/chat/completions"
)

// ForceFields maps user-facing force field names to GROMACS internal names.
var ForceFields = map[string]string{
	"AMBER99SB-ILDN": "amber99sb-ildn",
	"CHARMM36":       "charmm36-feb2021",
	"GROMOS96 53a6":  "gromos53a6",
	"OPLS-AA/L":      "oplsaa",
}

var WaterModels = []string{"spc", "tip3p", "tip4p"}

var BoxTypes = []string{"cubic", "dodecahedron", "octahedron"}

var MDPTypes = []string{"ions", "em", "nvt", "npt", "md"}

// StandardResidues are residue names never treated as ligand candidates.
var StandardResidues = []string{
	"ALA", "ARG", "ASN", "ASP", "CYS", "GLN", "GLU", "GLY", "HIS", "ILE",
	"LEU", "LYS", "MET", "PHE", "PRO", "SER", "THR", "TRP", "TYR", "VAL",
	"HOH", "WAT", "TIP", "SOL", "NA", "CL", "K", "CA", "MG", "ZN",
}

// DefaultMDPParams returns a fresh copy of the default parameter set for the
// given mdp type, so callers can mutate it freely.
func DefaultMDPParams(mdpType string) (map[string]string, bool) {
	base, ok := defaultMDP[mdpType]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	return out, true
}

var defaultMDP = map[string]map[string]string{
	"ions": {
		"integrator":    "steep",
		"emtol":         "1000.0",
		"emstep":        "0.01",
		"nsteps":        "50000",
		"nstlist":       "1",
		"cutoff-scheme": "Verlet",
		"ns_type":       "grid",
		"coulombtype":   "cutoff",
		"rcoulomb":      "1.0",
		"rvdw":          "1.0",
		"pbc":           "xyz",
	},
	"em": {
		"integrator":    "steep",
		"emtol":         "1000.0",
		"emstep":        "0.01",
		"nsteps":        "50000",
		"nstlist":       "1",
		"cutoff-scheme": "Verlet",
		"ns_type":       "grid",
		"coulombtype":   "PME",
		"rcoulomb":      "1.0",
		"rvdw":          "1.0",
		"pbc":           "xyz",
	},
	"nvt": {
		"title":                "Protein-ligand complex NVT equilibration",
		"define":               "-DPOSRES",
		"integrator":           "md",
		"nsteps":               "50000",
		"dt":                   "0.002",
		"nstxout":              "500",
		"nstvout":              "500",
		"nstenergy":            "500",
		"nstlog":               "500",
		"continuation":         "no",
		"constraint_algorithm": "lincs",
		"constraints":          "h-bonds",
		"lincs_iter":           "1",
		"lincs_order":          "4",
		"cutoff-scheme":        "Verlet",
		"ns_type":              "grid",
		"nstlist":              "10",
		"rcoulomb":             "1.0",
		"rvdw":                 "1.0",
		"DispCorr":             "EnerPres",
		"coulombtype":          "PME",
		"pme_order":            "4",
		"fourierspacing":       "0.16",
		"tcoupl":               "V-rescale",
		"tc-grps":              "Protein Non-Protein",
		"tau_t":                "0.1 0.1",
		"ref_t":                "300 300",
		"pcoupl":               "no",
		"pbc":                  "xyz",
		"gen_vel":              "yes",
		"gen_temp":             "300",
		"gen_seed":             "-1",
	},
	"npt": {
		"title":                "Protein-ligand complex NPT equilibration",
		"define":               "-DPOSRES",
		"integrator":           "md",
		"nsteps":               "50000",
		"dt":                   "0.002",
		"nstxout":              "500",
		"nstvout":              "500",
		"nstenergy":            "500",
		"nstlog":               "500",
		"continuation":         "yes",
		"constraint_algorithm": "lincs",
		"constraints":          "h-bonds",
		"lincs_iter":           "1",
		"lincs_order":          "4",
		"cutoff-scheme":        "Verlet",
		"ns_type":              "grid",
		"nstlist":              "10",
		"rcoulomb":             "1.0",
		"rvdw":                 "1.0",
		"DispCorr":             "EnerPres",
		"coulombtype":          "PME",
		"pme_order":            "4",
		"fourierspacing":       "0.16",
		"tcoupl":               "V-rescale",
		"tc-grps":              "Protein Non-Protein",
		"tau_t":                "0.1 0.1",
		"ref_t":                "300 300",
		"pcoupl":               "Parrinello-Rahman",
		"pcoupltype":           "isotropic",
		"tau_p":                "2.0",
		"ref_p":                "1.0",
		"compressibility":      "4.5e-5",
		"refcoord_scaling":     "com",
		"pbc":                  "xyz",
		"gen_vel":              "no",
	},
	"md": {
		"title":                "Protein-ligand complex MD simulation",
		"integrator":           "md",
		"nsteps":               "5000000", // 10 ns at dt=0.002
		"dt":                   "0.002",
		"nstxout":              "5000",
		"nstvout":              "5000",
		"nstenergy":            "5000",
		"nstlog":               "5000",
		"nstxout-compressed":   "5000",
		"compressed-x-grps":    "System",
		"continuation":         "yes",
		"constraint_algorithm": "lincs",
		"constraints":          "h-bonds",
		"lincs_iter":           "1",
		"lincs_order":          "4",
		"cutoff-scheme":        "Verlet",
		"ns_type":              "grid",
		"nstlist":              "10",
		"rcoulomb":             "1.0",
		"rvdw":                 "1.0",
		"DispCorr":             "EnerPres",
		"coulombtype":          "PME",
		"pme_order":            "4",
		"fourierspacing":       "0.16",
		"tcoupl":               "V-rescale",
		"tc-grps":              "Protein Non-Protein",
		"tau_t":                "0.1 0.1",
		"ref_t":                "300 300",
		"pcoupl":               "Parrinello-Rahman",
		"pcoupltype":           "isotropic",
		"tau_p":                "2.0",
		"ref_p":                "1.0",
		"compressibility":      "4.5e-5",
		"pbc":                  "xyz",
		"gen_vel":              "no",
	},
}

// File is the optional YAML configuration a user can pass with --config.
// MDP entries override the built-in defaults per mdp type; guard entries
// extend or relax the command guardrails.
type File struct {
	MDP map[string]map[string]string `yaml:"mdp"`

	Guard struct {
		Allow []string `yaml:"allow"`
		Deny  []string `yaml:"deny"`
	} `yaml:"guard"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for mdpType := range f.MDP {
		if _, ok := defaultMDP[mdpType]; !ok {
			return nil, fmt.Errorf("unknown mdp type in config: %s", mdpType)
		}
	}
	return &f, nil
}

// MDPParams merges file overrides on top of the built-in defaults.
func (f *File) MDPParams(mdpType string) (map[string]string, bool) {
	params, ok := DefaultMDPParams(mdpType)
	if !ok {
		return nil, false
	}
	if f != nil {
		for k, v := range f.MDP[mdpType] {
			params[k] = v
		}
	}
	return params, true
}
