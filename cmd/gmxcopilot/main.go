package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chatmol/gromacs-copilot/internal/app"
	"github.com/chatmol/gromacs-copilot/internal/config"
)

// runner is what main needs from the app: start it and wait.
type runner interface{ Run(context.Context) error }

// appCtor and fatalf are swappable in tests, so run can be exercised
// without wiring a real LLM client or killing the test process.
var appCtor = func(opts app.Options) (runner, error) { return app.New(opts) }

var fatalf = log.Fatalf

func run(ctx context.Context, opts app.Options) {
	a, err := appCtor(opts)
	if err != nil {
		fatalf("error initializing app: %v", err)
		return
	}
	if err := a.Run(ctx); err != nil {
		fatalf("error running app: %v", err)
		return
	}
}

func main() {
	var opts app.Options
	flag.StringVar(&opts.Workspace, "workspace", config.DefaultWorkspace, "working directory for simulation files")
	flag.StringVar(&opts.Prompt, "prompt", "", "starting prompt for the LLM")
	flag.StringVar(&opts.APIKey, "api-key", "", "API key for the LLM service (falls back to OPENAI_API_KEY)")
	flag.StringVar(&opts.Model, "model", config.DefaultModel, "model name")
	flag.StringVar(&opts.URL, "url", config.DefaultOpenAIURL, "LLM API endpoint")
	flag.StringVar(&opts.Mode, "mode", "copilot", "run mode: copilot, agent or mcp")
	flag.StringVar(&opts.ConfigPath, "config", "", "optional YAML config file with mdp overrides and guardrails")
	flag.StringVar(&opts.LogFile, "log-file", "", "also write logs to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run(ctx, opts)
}
