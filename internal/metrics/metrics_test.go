package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCounterVec(t *testing.T) {
	cv := NewCounterVec("test_total", "test counter")
	lbls := map[string]string{"outcome": "ok"}

	if got := cv.Value(lbls); got != 0 {
		t.Fatalf("expected 0, got %g", got)
	}
	cv.Inc(lbls)
	cv.Inc(lbls)
	cv.Inc(map[string]string{"outcome": "error"})

	if got := cv.Value(lbls); got != 2 {
		t.Fatalf("expected 2, got %g", got)
	}
	if got := cv.Value(map[string]string{"outcome": "error"}); got != 1 {
		t.Fatalf("expected 1, got %g", got)
	}
}

func TestMakeKey_SortedAndEscaped(t *testing.T) {
	key := makeKey(map[string]string{"b": "2", "a": `say "hi"`})
	want := `a="say \"hi\"",b="2"`
	if string(key) != want {
		t.Fatalf("got %s, want %s", key, want)
	}
	if makeKey(nil) != "" {
		t.Fatalf("empty labels should yield empty key")
	}
}

func TestWrite_Format(t *testing.T) {
	ShellCommands.Inc(map[string]string{"outcome": "ok"})
	LLMChatDur.Observe(map[string]string{"outcome": "ok"}, 1.5)

	var b strings.Builder
	Write(&b)
	out := b.String()

	for _, want := range []string{
		"# TYPE copilot_shell_commands_total counter",
		`copilot_shell_commands_total{outcome="ok"}`,
		"# TYPE copilot_llm_chat_seconds summary",
		`copilot_llm_chat_seconds_sum{outcome="ok"}`,
		`copilot_llm_chat_seconds_count{outcome="ok"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.txt")
	if err := WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "copilot_tool_calls_total") {
		t.Fatalf("metrics file missing counter header:\n%s", data)
	}
}
