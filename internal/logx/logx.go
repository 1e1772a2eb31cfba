package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const (
	Reset = "\033[0m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

var levelColor = map[string]string{
	"DEBUG": Cyan,
	"INFO":  Blue,
	"WARN":  Yellow,
	"ERROR": Red,
}

// colors per component
var componentColor = map[string]string{
	"Agent":    Green,
	"LLM":      Blue,
	"Shell":    Cyan,
	"Protocol": Magenta,
	"Report":   Yellow,
	"Config":   Magenta,
	"Guard":    Red,
	"MCP":      Cyan,
	"App":      Green,
}

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

var (
	minLevel = levelRank["INFO"]
	colors   = false
	logFile  *os.File
)

// Setup configures the minimum level, color mode and an optional log file.
// An empty path keeps logging on stderr only.
func Setup(level string, useColor bool, path string) error {
	if r, ok := levelRank[strings.ToUpper(level)]; ok {
		minLevel = r
	}
	colors = useColor

	if logFile != nil {
		logFile.Close()
		logFile = nil
		log.SetOutput(os.Stderr)
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}
	return nil
}

// Close releases the log file, if one was opened by Setup.
func Close() {
	if logFile != nil {
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

// --- Public API ---

func Debug(component, msg string, args ...any) {
	logGeneric("DEBUG", component, msg, args...)
}

func Info(component, msg string, args ...any) {
	logGeneric("INFO", component, msg, args...)
}

func Warn(component, msg string, args ...any) {
	logGeneric("WARN", component, msg, args...)
}

func Error(component, msg string, args ...any) {
	logGeneric("ERROR", component, msg, args...)
}

// --- Core ---

func logGeneric(level, component, msg string, args ...any) {
	if levelRank[level] < minLevel {
		return
	}
	full := fmt.Sprintf(msg, args...)

	if colors {
		lc := levelColor[level]
		cc := componentColor[component]
		log.Printf("%s[%s]%s %s[%s]%s %s",
			lc, level, Reset,
			cc, component, Reset,
			full,
		)
	} else {
		log.Printf("[%s] [%s] %s", level, component, full)
	}
}
