// Package app wires the CLI options into a running copilot session.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chatmol/gromacs-copilot/internal/agent"
	"github.com/chatmol/gromacs-copilot/internal/config"
	"github.com/chatmol/gromacs-copilot/internal/guard"
	"github.com/chatmol/gromacs-copilot/internal/llm"
	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/mcp"
	"github.com/chatmol/gromacs-copilot/internal/metrics"
	"github.com/chatmol/gromacs-copilot/internal/protocol"
	"github.com/chatmol/gromacs-copilot/internal/shell"
	"github.com/chatmol/gromacs-copilot/internal/term"
)

const Version = "0.2.0"

const ModeMCP = "mcp"

// Options mirror the CLI flags.
type Options struct {
	Workspace  string
	Prompt     string
	APIKey     string
	Model      string
	URL        string
	Mode       string
	ConfigPath string
	LogFile    string
	LogLevel   string
	NoColor    bool
}

type App struct {
	opts    Options
	env     *config.EnvVars
	cfg     *config.File
	printer *term.Printer
	guard   *guard.Policy
	client  llm.Client
	agent   *agent.Agent

	workspace string
}

func New(opts Options) (*App, error) {
	// a .env next to the binary is a convenience, not a requirement
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	level := opts.LogLevel
	if level == "" {
		level = env.LogLevel
	}
	if err := logx.Setup(level, !opts.NoColor, opts.LogFile); err != nil {
		return nil, err
	}

	var cfg *config.File
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var extraAllow, extraDeny []string
	if cfg != nil {
		extraAllow, extraDeny = cfg.Guard.Allow, cfg.Guard.Deny
	}
	policy, err := guard.NewPolicy(extraAllow, extraDeny)
	if err != nil {
		return nil, fmt.Errorf("compile guardrails: %w", err)
	}

	a := &App{
		opts:    opts,
		env:     env,
		cfg:     cfg,
		printer: term.Default(opts.NoColor),
		guard:   policy,
	}
	if opts.Mode == ModeMCP {
		return a, nil
	}

	workspace, err := filepath.Abs(opts.Workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	apiKey := a.resolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required: pass --api-key or set OPENAI_API_KEY")
	}

	client := llm.NewOpenAIClient(opts.URL, apiKey, opts.Model)
	client.Timeout = env.LLMTimeout
	a.client = client

	a.workspace = workspace
	base := protocol.Base{
		Workspace: workspace,
		GmxBin:    env.GmxBin,
		Runner:    &shell.Runner{Dir: workspace, Printer: a.printer},
		Guard:     policy,
		Cfg:       cfg,
	}
	a.agent = agent.New(client, a.printer, base, opts.Mode)
	return a, nil
}

// resolveAPIKey prefers the flag, then picks the env key matching the
// endpoint host.
func (a *App) resolveAPIKey() string {
	if a.opts.APIKey != "" {
		return a.opts.APIKey
	}
	if strings.Contains(a.opts.URL, "deepseek") {
		if a.env.DeepSeekAPIKey != "" {
			return a.env.DeepSeekAPIKey
		}
	}
	return a.env.OpenAIAPIKey
}

func (a *App) Run(ctx context.Context) error {
	defer logx.Close()

	if a.opts.Mode == ModeMCP {
		logx.Info("App", "serving MCP on stdio")
		srv := &mcp.Server{Version: Version, Guard: a.guard, Cfg: a.cfg}
		return srv.Serve(ctx, os.Stdin, os.Stdout)
	}

	a.printer.Box("GROMACS Copilot "+Version+"\nLet an LLM run your molecular dynamics simulations.", term.Title)
	a.printer.Divider()

	if err := a.client.Ping(ctx); err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}
	logx.Info("App", "LLM endpoint %s reachable, model %s", a.opts.URL, a.opts.Model)

	runErr := a.agent.Run(ctx, a.opts.Prompt)

	if err := metrics.WriteFile(filepath.Join(a.workspace, "metrics.txt")); err != nil {
		logx.Warn("App", "failed to write metrics: %v", err)
	}
	return runErr
}
