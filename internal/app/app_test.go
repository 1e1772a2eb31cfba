package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatmol/gromacs-copilot/internal/config"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	clearKeyEnv(t)
	_, err := New(Options{Workspace: t.TempDir(), Mode: "copilot"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key")
}

func TestNew_MCPModeNeedsNoKey(t *testing.T) {
	clearKeyEnv(t)
	a, err := New(Options{Mode: ModeMCP})
	require.NoError(t, err)
	require.Nil(t, a.agent)
}

func TestNew_WithAPIKey(t *testing.T) {
	clearKeyEnv(t)
	a, err := New(Options{
		Workspace: t.TempDir(),
		Mode:      "copilot",
		APIKey:    "sk-test",
		Model:     config.DefaultModel,
		URL:       config.DefaultOpenAIURL,
	})
	require.NoError(t, err)
	require.NotNil(t, a.agent)
	require.NotNil(t, a.client)
	require.NotEmpty(t, a.workspace)
}

func TestResolveAPIKey(t *testing.T) {
	env := &config.EnvVars{OpenAIAPIKey: "oak", DeepSeekAPIKey: "dsk"}

	cases := []struct {
		name string
		opts Options
		want string
	}{
		{"flag wins", Options{APIKey: "flag-key", URL: "https://api.deepseek.com"}, "flag-key"},
		{"deepseek endpoint", Options{URL: "https://api.deepseek.com/v1"}, "dsk"},
		{"openai endpoint", Options{URL: "https://api.openai.com/v1"}, "oak"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &App{opts: tc.opts, env: env}
			require.Equal(t, tc.want, a.resolveAPIKey())
		})
	}
}

func TestResolveAPIKey_DeepSeekFallsBackToOpenAI(t *testing.T) {
	a := &App{
		opts: Options{URL: "https://api.deepseek.com/v1"},
		env:  &config.EnvVars{OpenAIAPIKey: "oak"},
	}
	require.Equal(t, "oak", a.resolveAPIKey())
}
