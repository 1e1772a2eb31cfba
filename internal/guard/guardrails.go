// Package guard validates LLM-suggested shell commands before they reach the
// host shell. The model is not trusted to stay inside the workspace.
package guard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/metrics"
)

// default deny list; matched case-insensitively against the whole command
var defaultDeny = []string{
	`rm\s+(-\w+\s+)*(/|~)(\s|$)`,   // deleting / or the home directory
	`rm\s+-[a-z]*r[a-z]*f?\s+/\S*`, // recursive delete of absolute paths
	`\bsudo\b`,
	`\bsu\s`,
	`\bmkfs(\.\w+)?\b`,
	`\bdd\s+.*of=/dev/`,
	`>\s*/dev/sd`,
	`:\(\)\s*\{.*\};\s*:`, // fork bomb
	`\b(shutdown|reboot|halt|poweroff)\b`,
	`\bchmod\s+(-\w+\s+)*777\s+/`,
	`curl\s+.*\|\s*(ba)?sh`,
	`wget\s+.*\|\s*(ba)?sh`,
}

type rule struct {
	pattern string
	re      *regexp.Regexp
}

// Policy holds compiled allow/deny rules. Deny rules block a command unless
// an allow rule matches it first.
type Policy struct {
	allow []rule
	deny  []rule
}

// NewPolicy compiles the default deny list plus user-supplied extras from the
// YAML config file.
func NewPolicy(extraAllow, extraDeny []string) (*Policy, error) {
	p := &Policy{}
	for _, src := range extraAllow {
		re, err := regexp.Compile(`(?i)` + src)
		if err != nil {
			return nil, fmt.Errorf("invalid allow pattern %q: %w", src, err)
		}
		p.allow = append(p.allow, rule{src, re})
	}
	for _, src := range append(append([]string{}, defaultDeny...), extraDeny...) {
		re, err := regexp.Compile(`(?i)` + src)
		if err != nil {
			return nil, fmt.Errorf("invalid deny pattern %q: %w", src, err)
		}
		p.deny = append(p.deny, rule{src, re})
	}
	return p, nil
}

// Check returns an error when the command trips a deny rule. The error text
// goes back to the LLM as the tool result.
func (p *Policy) Check(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return fmt.Errorf("empty command")
	}

	for _, a := range p.allow {
		if a.re.MatchString(cmd) {
			return nil
		}
	}
	for _, d := range p.deny {
		if d.re.MatchString(cmd) {
			metrics.GuardBlocks.Inc(map[string]string{"pattern": d.pattern})
			return fmt.Errorf("command blocked by guardrails (matched %q): %s", d.pattern, cmd)
		}
	}
	return nil
}
