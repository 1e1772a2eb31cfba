package metrics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// A very small in-process metrics registry that exports Prometheus-like text.
// It supports counters and simple summaries (count/sum), with labeled samples.
// The CLI dumps the registry into the workspace at exit rather than serving it.

type labelsKey string

func makeKey(lbls map[string]string) labelsKey {
	if len(lbls) == 0 {
		return labelsKey("")
	}
	keys := make([]string, 0, len(lbls))
	for k := range lbls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		v := strings.ReplaceAll(lbls[k], "\"", "\\\"")
		b.WriteString("\"")
		b.WriteString(v)
		b.WriteString("\"")
	}
	return labelsKey(b.String())
}

type CounterVec struct {
	Name   string
	Help   string
	mu     sync.RWMutex
	values map[labelsKey]float64
}

func NewCounterVec(name, help string) *CounterVec {
	return &CounterVec{Name: name, Help: help, values: make(map[labelsKey]float64)}
}

func (cv *CounterVec) Inc(lbls map[string]string) {
	key := makeKey(lbls)
	cv.mu.Lock()
	cv.values[key]++
	cv.mu.Unlock()
}

// Value returns the current count for the given labels.
func (cv *CounterVec) Value(lbls map[string]string) float64 {
	key := makeKey(lbls)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.values[key]
}

// SummaryVec stores count and sum; we export metric_count and metric_sum.
type SummaryVec struct {
	Name  string
	Help  string
	mu    sync.RWMutex
	count map[labelsKey]float64
	sum   map[labelsKey]float64
}

func NewSummaryVec(name, help string) *SummaryVec {
	return &SummaryVec{Name: name, Help: help, count: make(map[labelsKey]float64), sum: make(map[labelsKey]float64)}
}

func (sv *SummaryVec) Observe(lbls map[string]string, v float64) {
	key := makeKey(lbls)
	sv.mu.Lock()
	sv.count[key]++
	sv.sum[key] += v
	sv.mu.Unlock()
}

// Global metrics we care about
var (
	ShellCommands = NewCounterVec("copilot_shell_commands_total", "Shell commands executed by outcome")
	GuardBlocks   = NewCounterVec("copilot_guard_blocks_total", "Commands rejected by guardrails")
	ToolCalls     = NewCounterVec("copilot_tool_calls_total", "Tool dispatches by tool and outcome")

	LLMPings   = NewCounterVec("copilot_llm_pings_total", "LLM Ping calls")
	LLMChats   = NewCounterVec("copilot_llm_chats_total", "LLM Chat calls")
	LLMChatDur = NewSummaryVec("copilot_llm_chat_seconds", "LLM Chat duration seconds")
)

// Write exports all metrics in Prometheus text format.
func Write(w io.Writer) {
	dumpCounter := func(cv *CounterVec) {
		fmt.Fprintf(w, "# HELP %s %s\n", cv.Name, cv.Help)
		fmt.Fprintf(w, "# TYPE %s counter\n", cv.Name)
		cv.mu.RLock()
		keys := make([]string, 0, len(cv.values))
		for key := range cv.values {
			keys = append(keys, string(key))
		}
		sort.Strings(keys)
		for _, key := range keys {
			val := cv.values[labelsKey(key)]
			if key == "" {
				fmt.Fprintf(w, "%s %g\n", cv.Name, val)
			} else {
				fmt.Fprintf(w, "%s{%s} %g\n", cv.Name, key, val)
			}
		}
		cv.mu.RUnlock()
	}

	dumpSummary := func(sv *SummaryVec) {
		// Prometheus summary convention: name_sum and name_count
		fmt.Fprintf(w, "# HELP %s %s\n", sv.Name, sv.Help)
		fmt.Fprintf(w, "# TYPE %s summary\n", sv.Name)
		sv.mu.RLock()
		keys := make([]string, 0, len(sv.count))
		for key := range sv.count {
			keys = append(keys, string(key))
		}
		sort.Strings(keys)
		for _, key := range keys {
			cnt := sv.count[labelsKey(key)]
			sum := sv.sum[labelsKey(key)]
			if key == "" {
				fmt.Fprintf(w, "%s_sum %g\n", sv.Name, sum)
				fmt.Fprintf(w, "%s_count %g\n", sv.Name, cnt)
			} else {
				fmt.Fprintf(w, "%s_sum{%s} %g\n", sv.Name, key, sum)
				fmt.Fprintf(w, "%s_count{%s} %g\n", sv.Name, key, cnt)
			}
		}
		sv.mu.RUnlock()
	}

	dumpCounter(ShellCommands)
	dumpCounter(GuardBlocks)
	dumpCounter(ToolCalls)
	dumpCounter(LLMPings)
	dumpCounter(LLMChats)
	dumpSummary(LLMChatDur)
}

// WriteFile dumps the registry to a file, typically <workspace>/metrics.txt.
func WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	Write(f)
	return nil
}
