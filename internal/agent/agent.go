// Package agent runs the LLM conversation loop that drives a molecular
// dynamics workflow through protocol tools.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/llm"
	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/metrics"
	"github.com/chatmol/gromacs-copilot/internal/protocol"
	"github.com/chatmol/gromacs-copilot/internal/report"
	"github.com/chatmol/gromacs-copilot/internal/term"
)

// Mode selects the system prompt: copilot asks the user before acting,
// agent pushes through the workflow on its own.
const (
	ModeCopilot = "copilot"
	ModeAgent   = "agent"
)

// Agent holds the conversation state and the active protocol. The protocol
// can be swapped mid-conversation when the LLM discovers a ligand or moves
// on to binding free energy calculations.
type Agent struct {
	SessionID string
	Mode      string

	client   llm.Client
	printer  *term.Printer
	base     protocol.Base
	protocol protocol.Protocol
	tools    map[string]protocol.Tool
	history  []llm.Message
}

func New(client llm.Client, printer *term.Printer, base protocol.Base, mode string) *Agent {
	a := &Agent{
		SessionID: uuid.NewString(),
		Mode:      mode,
		client:    client,
		printer:   printer,
		base:      base,
	}
	a.setProtocol(protocol.NewProtein(base))
	logx.Info("Agent", "session %s initialized (mode=%s)", a.SessionID, mode)
	return a
}

func (a *Agent) setProtocol(p protocol.Protocol) {
	a.protocol = p
	a.tools = make(map[string]protocol.Tool)
	for _, t := range p.Tools() {
		a.tools[t.Name] = t
	}
}

// Protocol returns the active protocol.
func (a *Agent) Protocol() protocol.Protocol { return a.protocol }

// ToolSpecs converts the active protocol's tools plus the agent-level
// protocol switch tools into the wire schema.
func (a *Agent) ToolSpecs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(a.tools)+2)
	for _, t := range a.protocol.Tools() {
		params := t.Params
		if params == nil {
			params = map[string]any{}
		}
		required := t.Required
		if required == nil {
			required = []string{}
		}
		specs = append(specs, llm.ToolSpec{
			Type: "function",
			Function: llm.FunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": params,
					"required":   required,
				},
			},
		})
	}
	// set_ligand lives on the protein-ligand protocol, but the upgrade in
	// ExecuteToolCall only happens once the model calls it, so it has to be
	// advertised while still on the plain protein protocol.
	if _, ok := a.protocol.(*protocol.Protein); ok {
		specs = append(specs, llm.ToolSpec{
			Type: "function",
			Function: llm.FunctionDef{
				Name:        "set_ligand",
				Description: "Set the ligand for simulation",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ligand_name": map[string]any{
							"type":        "string",
							"description": "Residue name of the ligand in the PDB file",
						},
					},
					"required": []string{"ligand_name"},
				},
			},
		})
	}
	for _, sw := range []struct{ name, desc string }{
		{"switch_to_mmpbsa_protocol", "Switch to MM-PBSA protocol for binding free energy calculations"},
		{"switch_to_analysis_protocol", "Switch to the analysis protocol for post-processing a finished production run"},
		{"generate_report", "Render plots for all analysis results and assemble a PDF report"},
	} {
		specs = append(specs, llm.ToolSpec{
			Type: "function",
			Function: llm.FunctionDef{
				Name:        sw.name,
				Description: sw.desc,
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
					"required":   []string{},
				},
			},
		})
	}
	return specs
}

// SwitchToMMPBSA replaces the active protocol with the MM-PBSA protocol,
// carrying over what state applies.
func (a *Agent) SwitchToMMPBSA() protocol.Result {
	prev := a.protocol.Name()
	m, err := protocol.NewMMPBSA(a.base)
	if err != nil {
		return protocol.Fail("Failed to switch to MM-PBSA protocol: %v", err)
	}
	switch p := a.protocol.(type) {
	case *protocol.Protein:
		m.TopologyFile = p.TopologyFile
	case *protocol.ProteinLigand:
		m.TopologyFile = p.TopologyFile
	}
	a.setProtocol(m)
	logx.Info("Agent", "switched protocol %s -> mmpbsa", prev)
	return protocol.OK(map[string]any{
		"message":           "Switched to MM-PBSA protocol successfully",
		"previous_protocol": prev,
		"current_protocol":  m.Name(),
	})
}

// SwitchToAnalysis replaces the active protocol with the analysis protocol.
func (a *Agent) SwitchToAnalysis() protocol.Result {
	prev := a.protocol.Name()
	hasLigand := false
	if p, ok := a.protocol.(*protocol.ProteinLigand); ok {
		hasLigand = p.HasLigand
	}
	an, err := protocol.NewAnalysis(a.base, hasLigand)
	if err != nil {
		return protocol.Fail("Failed to switch to analysis protocol: %v", err)
	}
	a.setProtocol(an)
	logx.Info("Agent", "switched protocol %s -> analysis", prev)
	return protocol.OK(map[string]any{
		"message":           "Switched to analysis protocol successfully",
		"previous_protocol": prev,
		"current_protocol":  an.Name(),
	})
}

// SwitchToLigand upgrades a plain protein protocol to the protein-ligand
// one, keeping the protein file and stage. Called implicitly the first
// time the LLM sets a ligand.
func (a *Agent) SwitchToLigand() protocol.Result {
	p, ok := a.protocol.(*protocol.Protein)
	if !ok {
		return protocol.OK(map[string]any{"current_protocol": a.protocol.Name()})
	}
	pl := protocol.NewProteinLigand(a.base)
	pl.Protein = *p
	a.setProtocol(pl)
	logx.Info("Agent", "switched protocol protein -> protein-ligand")
	return protocol.OK(map[string]any{
		"message":           "Switched to protein-ligand protocol successfully",
		"previous_protocol": "protein",
		"current_protocol":  pl.Name(),
	})
}

// ExecuteToolCall dispatches one tool call against the active protocol.
func (a *Agent) ExecuteToolCall(ctx context.Context, call llm.ToolCall) protocol.Result {
	name := call.Function.Name
	metrics.ToolCalls.Inc(map[string]string{"tool": name})

	switch name {
	case "switch_to_mmpbsa_protocol":
		return a.SwitchToMMPBSA()
	case "switch_to_analysis_protocol":
		return a.SwitchToAnalysis()
	case "generate_report":
		gen := &report.Generator{Workspace: a.base.Workspace}
		pdfPath, plots, err := gen.Generate()
		if err != nil {
			return protocol.Fail("Report generation failed: %v", err)
		}
		return protocol.OK(map[string]any{
			"report_file": pdfPath,
			"plot_files":  plots,
		})
	case "set_ligand":
		a.SwitchToLigand()
	}

	tool, ok := a.tools[name]
	if !ok {
		return protocol.Fail("Unknown function: %s", name)
	}

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return protocol.Fail("Invalid arguments for %s: %v", name, err)
		}
	}

	t := logx.Start("Agent", "tool "+name)
	result := tool.Run(ctx, args)
	t.End()
	return result
}

func (a *Agent) systemMessage() llm.Message {
	content := config.SystemMessageAdvisor
	if a.Mode == ModeAgent {
		content = config.SystemMessageAgent
	}
	return llm.Message{Role: "system", Content: content}
}

// Run drives the conversation until the user quits. The starting prompt
// kicks off the first exchange; afterwards the loop alternates between tool
// execution rounds and user input.
func (a *Agent) Run(ctx context.Context, startingPrompt string) error {
	a.history = []llm.Message{a.systemMessage()}
	if startingPrompt != "" {
		a.history = append(a.history, llm.Message{Role: "user", Content: startingPrompt})
	}

	reply, err := a.client.Chat(ctx, a.history, a.ToolSpecs())
	if err != nil {
		return fmt.Errorf("llm call failed: %w", err)
	}

	for {
		a.history = append(a.history, reply)

		if len(reply.ToolCalls) > 0 {
			for _, call := range reply.ToolCalls {
				a.printer.Print("Executing: "+call.Function.Name, term.Tool)
				result := a.ExecuteToolCall(ctx, call)
				payload, merr := json.Marshal(result)
				if merr != nil {
					payload = []byte(fmt.Sprintf(`{"success": false, "error": %q}`, merr.Error()))
				}
				a.history = append(a.history, llm.Message{
					Role:       "tool",
					ToolCallID: call.ID,
					Name:       call.Function.Name,
					Content:    string(payload),
				})
			}
			reply, err = a.client.Chat(ctx, a.history, a.ToolSpecs())
			if err != nil {
				return fmt.Errorf("llm call failed: %w", err)
			}
			continue
		}

		content := reply.Content
		final := strings.Contains(content, config.FinalAnswerMarker)
		if final {
			before, after, _ := strings.Cut(content, config.FinalAnswerMarker)
			if s := strings.TrimSpace(before); s != "" {
				a.printer.Print(s, term.Info)
			}
			a.printer.Box(strings.TrimSpace(config.FinalAnswerMarker+after), term.Final)
		} else {
			a.printer.Print(content, term.Info)
		}

		var input string
		if final {
			input = a.printer.Prompt("Do you want to continue with the next stage?", "yes")
			switch strings.ToLower(strings.TrimSpace(input)) {
			case "yes", "y", "continue", "":
			default:
				a.printer.Box("Exiting. Thank you for using GROMACS Copilot!", term.Success)
				return nil
			}
			input = a.printer.Prompt("What would you like to do next?", "")
		} else {
			input = a.printer.Prompt("Your response", "")
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "exit", "quit", "bye":
			a.printer.Box("Exiting. Thank you for using GROMACS Copilot!", term.Success)
			return nil
		}

		a.history = append(a.history, llm.Message{Role: "user", Content: input})
		reply, err = a.client.Chat(ctx, a.history, a.ToolSpecs())
		if err != nil {
			return fmt.Errorf("llm call failed: %w", err)
		}
	}
}
