package protocol

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/config"
)

// mdpKeyOrder keeps generated files readable: well-known keys first, the
// rest alphabetical. GROMACS itself does not care about ordering.
var mdpKeyOrder = []string{
	"title", "define", "integrator", "emtol", "emstep", "nsteps", "dt",
	"nstxout", "nstvout", "nstenergy", "nstlog", "nstxout-compressed",
	"compressed-x-grps", "continuation", "constraint_algorithm",
	"constraints", "lincs_iter", "lincs_order", "cutoff-scheme", "ns_type",
	"nstlist", "rcoulomb", "rvdw", "DispCorr", "coulombtype", "pme_order",
	"fourierspacing", "tcoupl", "tc-grps", "tau_t", "ref_t", "pcoupl",
	"pcoupltype", "tau_p", "ref_p", "compressibility", "refcoord_scaling",
	"pbc", "gen_vel", "gen_temp", "gen_seed",
}

// RenderMDP formats a parameter map as mdp file content.
func RenderMDP(params map[string]string) string {
	var b strings.Builder
	written := make(map[string]bool, len(params))

	for _, k := range mdpKeyOrder {
		if v, ok := params[k]; ok {
			fmt.Fprintf(&b, "%-22s = %s\n", k, v)
			written[k] = true
		}
	}
	rest := make([]string, 0)
	for k := range params {
		if !written[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(&b, "%-22s = %s\n", k, params[k])
	}
	return b.String()
}

// CreateMDPFile writes <mdpType>.mdp into the workspace from the defaults,
// the optional config-file overrides and per-call overrides, in that order.
func (b *Base) CreateMDPFile(mdpType string, overrides map[string]string) Result {
	var params map[string]string
	var ok bool
	if b.Cfg != nil {
		params, ok = b.Cfg.MDPParams(mdpType)
	} else {
		params, ok = config.DefaultMDPParams(mdpType)
	}
	if !ok {
		return Fail("unknown mdp type: %s (available: %s)", mdpType, strings.Join(config.MDPTypes, ", "))
	}
	for k, v := range overrides {
		params[k] = v
	}

	name := mdpType + ".mdp"
	path := filepath.Join(b.Workspace, name)
	if err := os.WriteFile(path, []byte(RenderMDP(params)), 0o644); err != nil {
		return Fail("writing %s: %v", name, err)
	}
	return OK(map[string]any{
		"mdp_file": name,
		"mdp_type": mdpType,
	})
}
