// Package mcp exposes the protocol tools over the Model Context Protocol
// so external LLM clients can drive the workflow. The transport is
// newline-delimited JSON-RPC 2.0 on stdin/stdout.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatmol/gromacs-copilot/internal/agent"
	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/guard"
	"github.com/chatmol/gromacs-copilot/internal/llm"
	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/protocol"
	"github.com/chatmol/gromacs-copilot/internal/shell"
	"github.com/chatmol/gromacs-copilot/internal/term"
)

const protocolVersion = "2024-11-05"

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Server answers MCP requests. The agent is created lazily by the
// init_gromacs_copilot tool; until then only that tool is listed.
type Server struct {
	Version string
	Guard   *guard.Policy
	Cfg     *config.File

	agent *agent.Agent
}

// Serve reads requests from r until EOF, writing responses to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "parse error"}})
			continue
		}

		resp := s.handle(ctx, &req)
		if resp == nil {
			// notification, no reply
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req *request) *response {
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	resp := &response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo": map[string]any{
				"name":    "gromacs-copilot",
				"version": s.Version,
			},
		}
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = map[string]any{"tools": s.listTools()}
	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "invalid params"}
			return resp
		}
		resp.Result = s.callTool(ctx, params.Name, params.Arguments)
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
	return resp
}

var initTool = toolInfo{
	Name:        "init_gromacs_copilot",
	Description: "Initialize GROMACS Copilot with a workspace directory and GROMACS binary",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"workspace": map[string]any{
				"type":        "string",
				"description": "Path to the workspace directory",
			},
			"gmx_bin": map[string]any{
				"type":        "string",
				"description": "Path to the GROMACS binary",
			},
		},
		"required": []string{"workspace"},
	},
}

var switchTool = toolInfo{
	Name:        "switch_agent_protocol",
	Description: "Switch to another protocol",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"protocol": map[string]any{
				"type":        "string",
				"description": "Name of the protocol to switch to",
				"enum":        []string{"ligand", "mmpbsa", "analysis"},
			},
		},
		"required": []string{"protocol"},
	},
}

func (s *Server) listTools() []toolInfo {
	tools := []toolInfo{initTool}
	if s.agent == nil {
		return tools
	}
	tools = append(tools, switchTool)
	for _, spec := range s.agent.ToolSpecs() {
		switch spec.Function.Name {
		case "switch_to_mmpbsa_protocol", "switch_to_analysis_protocol":
			// covered by switch_agent_protocol
			continue
		}
		tools = append(tools, toolInfo{
			Name:        spec.Function.Name,
			Description: spec.Function.Description,
			InputSchema: spec.Function.Parameters,
		})
	}
	return tools
}

// callTool runs a tool and wraps the protocol result in MCP content.
func (s *Server) callTool(ctx context.Context, name string, rawArgs json.RawMessage) map[string]any {
	var result protocol.Result
	switch {
	case name == "init_gromacs_copilot":
		result = s.initAgent(rawArgs)
	case s.agent == nil:
		result = protocol.Fail("agent not initialized, call init_gromacs_copilot first")
	case name == "switch_agent_protocol":
		result = s.switchProtocol(rawArgs)
	default:
		args := "{}"
		if len(rawArgs) > 0 {
			args = string(rawArgs)
		}
		result = s.agent.ExecuteToolCall(ctx, llm.ToolCall{
			Type:     "function",
			Function: llm.FunctionCall{Name: name, Arguments: args},
		})
	}

	text, err := json.Marshal(result)
	if err != nil {
		text = []byte(fmt.Sprintf(`{"success": false, "error": %q}`, err.Error()))
	}
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": string(text)}},
		"isError": !result.Success(),
	}
}

func (s *Server) initAgent(rawArgs json.RawMessage) protocol.Result {
	var args struct {
		Workspace string `json:"workspace"`
		GmxBin    string `json:"gmx_bin"`
	}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return protocol.Fail("invalid arguments: %v", err)
		}
	}
	if args.Workspace == "" {
		args.Workspace = config.DefaultWorkspace
	}
	if args.GmxBin == "" {
		args.GmxBin = "gmx"
	}
	workspace, err := filepath.Abs(args.Workspace)
	if err != nil {
		return protocol.Fail("resolve workspace: %v", err)
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return protocol.Fail("create workspace: %v", err)
	}

	// output must stay off stdout, the transport owns it
	printer := term.NewPrinter(io.Discard, strings.NewReader(""), false)
	base := protocol.Base{
		Workspace: workspace,
		GmxBin:    args.GmxBin,
		Runner:    &shell.Runner{Dir: workspace, Printer: printer},
		Guard:     s.Guard,
		Cfg:       s.Cfg,
	}
	s.agent = agent.New(nil, printer, base, agent.ModeCopilot)
	logx.Info("MCP", "initialized with workspace %s", workspace)

	return protocol.OK(map[string]any{
		"message": "Initialized GROMACS Copilot with workspace: " + workspace,
	})
}

func (s *Server) switchProtocol(rawArgs json.RawMessage) protocol.Result {
	var args struct {
		Protocol string `json:"protocol"`
	}
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return protocol.Fail("invalid arguments: %v", err)
	}
	switch args.Protocol {
	case "mmpbsa":
		return s.agent.SwitchToMMPBSA()
	case "analysis":
		return s.agent.SwitchToAnalysis()
	case "ligand":
		return s.agent.SwitchToLigand()
	default:
		return protocol.Fail("protocol not supported: %s", args.Protocol)
	}
}
