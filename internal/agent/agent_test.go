package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/guard"
	"github.com/chatmol/gromacs-copilot/internal/llm"
	"github.com/chatmol/gromacs-copilot/internal/protocol"
	"github.com/chatmol/gromacs-copilot/internal/shell"
	"github.com/chatmol/gromacs-copilot/internal/term"
)

// fakeClient replays scripted replies and records every message list it was
// handed.
type fakeClient struct {
	replies []llm.Message
	calls   int
	seen    [][]llm.Message
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.Message, error) {
	f.seen = append(f.seen, append([]llm.Message(nil), messages...))
	if f.calls >= len(f.replies) {
		return llm.Message{}, errors.New("no scripted reply left")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func testAgent(t *testing.T, client llm.Client, input string) *Agent {
	t.Helper()
	dir := t.TempDir()
	policy, err := guard.NewPolicy(nil, nil)
	require.NoError(t, err)
	base := protocol.Base{
		Workspace: dir,
		GmxBin:    "gmx",
		Runner:    shell.NewRunner(dir, nil),
		Guard:     policy,
	}
	printer := term.NewPrinter(&bytes.Buffer{}, strings.NewReader(input), false)
	return New(client, printer, base, ModeCopilot)
}

func specNames(specs []llm.ToolSpec) map[string]llm.ToolSpec {
	m := make(map[string]llm.ToolSpec, len(specs))
	for _, s := range specs {
		m[s.Function.Name] = s
	}
	return m
}

func TestNew_StartsOnProteinProtocol(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	require.Equal(t, "protein", a.Protocol().Name())
	require.NotEmpty(t, a.SessionID)
}

func TestToolSpecs_IncludesAgentLevelTools(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	specs := specNames(a.ToolSpecs())

	for _, name := range []string{
		"run_shell_command",
		"switch_to_mmpbsa_protocol",
		"switch_to_analysis_protocol",
		"generate_report",
	} {
		require.Contains(t, specs, name, "missing spec %s", name)
	}

	// the ligand entry points must be offered before the model ever asks
	// for the protein-ligand protocol
	require.Contains(t, specs, "set_ligand")
	require.Contains(t, specs, "check_for_ligands")

	shellSpec := specs["run_shell_command"]
	require.Equal(t, "function", shellSpec.Type)
	require.Equal(t, "object", shellSpec.Function.Parameters["type"])
	require.NotNil(t, shellSpec.Function.Parameters["properties"])
	require.NotNil(t, shellSpec.Function.Parameters["required"])
}

func TestExecuteToolCall_SetLigandPromotesProtocol(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	require.Equal(t, "protein", a.Protocol().Name())

	res := a.ExecuteToolCall(context.Background(), llm.ToolCall{
		Function: llm.FunctionCall{Name: "set_ligand", Arguments: `{"ligand_name": "STI"}`},
	})

	// dispatch must reach the protein-ligand tool, not fall through to
	// an unknown-function error; it then fails on the missing protein file
	require.NotContains(t, res.ErrorText(), "Unknown function")
	require.Contains(t, res.ErrorText(), "protein file")
	require.Equal(t, "protein-ligand", a.Protocol().Name())
}

func TestToolSpecs_SetLigandOnlyOnProteinProtocol(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	require.Contains(t, specNames(a.ToolSpecs()), "set_ligand")

	a.SwitchToMMPBSA()
	specs := specNames(a.ToolSpecs())
	require.NotContains(t, specs, "set_ligand")
	require.NotContains(t, specs, "check_for_ligands")
}

func TestSwitchToLigand_KeepsProteinState(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	a.Protocol().(*protocol.Protein).ProteinFile = "complex.pdb"

	res := a.SwitchToLigand()
	require.True(t, res.Success())
	require.Equal(t, "protein-ligand", res["current_protocol"])

	pl, ok := a.Protocol().(*protocol.ProteinLigand)
	require.True(t, ok)
	require.Equal(t, "complex.pdb", pl.ProteinFile)

	// second call is a no-op
	res = a.SwitchToLigand()
	require.True(t, res.Success())
	require.Equal(t, "protein-ligand", res["current_protocol"])
}

func TestSwitchToMMPBSA_CarriesTopology(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	a.Protocol().(*protocol.Protein).TopologyFile = "topol.top"

	res := a.SwitchToMMPBSA()
	require.True(t, res.Success())
	require.Equal(t, "protein", res["previous_protocol"])

	m, ok := a.Protocol().(*protocol.MMPBSA)
	require.True(t, ok)
	require.Equal(t, "topol.top", m.TopologyFile)
}

func TestSwitchToAnalysis_CarriesLigandFlag(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	a.SwitchToLigand()
	a.Protocol().(*protocol.ProteinLigand).HasLigand = true

	res := a.SwitchToAnalysis()
	require.True(t, res.Success())

	an, ok := a.Protocol().(*protocol.Analysis)
	require.True(t, ok)
	require.True(t, an.HasLigand)
}

func TestExecuteToolCall_UnknownTool(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	res := a.ExecuteToolCall(context.Background(), llm.ToolCall{
		Function: llm.FunctionCall{Name: "fold_protein"},
	})
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "Unknown function")
}

func TestExecuteToolCall_BadArguments(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	res := a.ExecuteToolCall(context.Background(), llm.ToolCall{
		Function: llm.FunctionCall{Name: "run_shell_command", Arguments: "{not json"},
	})
	require.False(t, res.Success())
	require.Contains(t, res.ErrorText(), "Invalid arguments")
}

func TestExecuteToolCall_RunsProtocolTool(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	res := a.ExecuteToolCall(context.Background(), llm.ToolCall{
		Function: llm.FunctionCall{Name: "run_shell_command", Arguments: `{"command": "echo hello"}`},
	})
	require.True(t, res.Success(), res.ErrorText())
}

func TestRun_ExecutesToolCallsAndStopsOnExit(t *testing.T) {
	client := &fakeClient{replies: []llm.Message{
		{
			Role: "assistant",
			ToolCalls: []llm.ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: llm.FunctionCall{
					Name:      "run_shell_command",
					Arguments: `{"command": "echo stage done"}`,
				},
			}},
		},
		{
			Role:    "assistant",
			Content: "System prepared. " + config.FinalAnswerMarker,
		},
	}}
	a := testAgent(t, client, "no\n")

	err := a.Run(context.Background(), "simulate protein.pdb")
	require.NoError(t, err)
	require.Equal(t, 2, client.calls)

	// the second call must carry the tool result back to the model
	second := client.seen[1]
	last := second[len(second)-1]
	require.Equal(t, "tool", last.Role)
	require.Equal(t, "call_1", last.ToolCallID)
	require.Equal(t, "run_shell_command", last.Name)
	require.Contains(t, last.Content, `"success":true`)
}

func TestRun_PropagatesClientError(t *testing.T) {
	a := testAgent(t, &fakeClient{}, "")
	err := a.Run(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "llm call failed")
}
