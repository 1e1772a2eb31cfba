package protocol

import (
	"context"

	"github.com/chatmol/gromacs-copilot/internal/config"
)

// sharedTools are available in every protocol.
func (b *Base) sharedTools() []Tool {
	return []Tool{
		{
			Name:        "run_shell_command",
			Description: "Run a shell command",
			Params: map[string]any{
				"command": map[string]any{
					"type":        "string",
					"description": "Shell command to run",
				},
				"capture_output": map[string]any{
					"type":        "boolean",
					"description": "Whether to capture stdout/stderr",
				},
			},
			Required: []string{"command"},
			Run: func(ctx context.Context, args map[string]any) Result {
				command := argString(args, "command", "")
				res := b.run(ctx, command)
				out := Result{
					"success":     res.Success,
					"return_code": res.ReturnCode,
					"stdout":      res.Stdout,
					"stderr":      res.Stderr,
					"command":     res.Command,
				}
				// when the process never started, stderr is empty and the
				// model needs the launch error to react to it
				if res.Error != "" {
					out["error"] = res.Error
				}
				return out
			},
		},
		{
			Name:        "get_workspace_info",
			Description: "Get information about the current workspace",
			Run: func(ctx context.Context, args map[string]any) Result {
				return b.WorkspaceInfo()
			},
		},
		{
			Name:        "check_gromacs_installation",
			Description: "Check if GROMACS is installed and available",
			Run: func(ctx context.Context, args map[string]any) Result {
				return b.CheckGromacs(ctx)
			},
		},
		{
			Name:        "create_mdp_file",
			Description: "Create an MDP parameter file for GROMACS",
			Params: map[string]any{
				"mdp_type": map[string]any{
					"type":        "string",
					"description": "Type of MDP file",
					"enum":        config.MDPTypes,
				},
				"params": map[string]any{
					"type":        "object",
					"description": "Optional override parameters",
				},
			},
			Required: []string{"mdp_type"},
			Run: func(ctx context.Context, args map[string]any) Result {
				overrides := map[string]string{}
				if raw, ok := args["params"].(map[string]any); ok {
					for k, v := range raw {
						overrides[k] = toString(v)
					}
				}
				return b.CreateMDPFile(argString(args, "mdp_type", ""), overrides)
			},
		},
		{
			Name:        "set_simulation_stage",
			Description: "Set the current simulation stage",
			Params: map[string]any{
				"stage": map[string]any{
					"type":        "string",
					"description": "Name of the stage to set",
					"enum":        StageNames(),
				},
			},
			Required: []string{"stage"},
			Run: func(ctx context.Context, args map[string]any) Result {
				return b.SetStage(argString(args, "stage", ""))
			},
		},
	}
}
