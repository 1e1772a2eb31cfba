// Package term handles the interactive terminal surface of the copilot:
// styled message printing and user prompts.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type MessageType int

const (
	Info MessageType = iota
	Success
	Warning
	Error
	Title
	System
	User
	Command
	Tool
	Final
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"

	red           = "\033[31m"
	green         = "\033[32m"
	yellow        = "\033[33m"
	cyan          = "\033[36m"
	brightBlack   = "\033[90m"
	brightGreen   = "\033[92m"
	brightBlue    = "\033[94m"
	brightMagenta = "\033[95m"
	brightCyan    = "\033[96m"
)

var styles = map[MessageType]struct {
	color  string
	prefix string
}{
	Info:    {cyan, "INFO    | "},
	Success: {green, "SUCCESS | "},
	Warning: {yellow, "WARNING | "},
	Error:   {red, "ERROR   | "},
	Title:   {brightBlue + bold, ""},
	System:  {brightMagenta, "SYSTEM  | "},
	User:    {brightCyan, "USER    | "},
	Command: {brightBlack, "$ "},
	Tool:    {brightGreen, "TOOL    | "},
	Final:   {brightGreen + bold, "FINAL   | "},
}

// Printer writes styled messages and reads user responses.
type Printer struct {
	out    io.Writer
	in     *bufio.Reader
	colors bool
	width  int
}

func NewPrinter(out io.Writer, in io.Reader, colors bool) *Printer {
	return &Printer{
		out:    out,
		in:     bufio.NewReader(in),
		colors: colors,
		width:  80,
	}
}

// Default returns a printer on stdout/stdin. Colors are disabled when stdout
// is not a terminal.
func Default(noColor bool) *Printer {
	colors := !noColor && isTerminal(os.Stdout)
	return NewPrinter(os.Stdout, os.Stdin, colors)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (p *Printer) paint(color, s string) string {
	if !p.colors {
		return s
	}
	return color + s + reset
}

// Print writes a message with the prefix and color of its type.
func (p *Printer) Print(message string, t MessageType) {
	st := styles[t]
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintln(p.out, p.paint(st.color, st.prefix+line))
	}
}

// Box draws the message inside a box, wrapping words to the terminal width.
func (p *Printer) Box(message string, t MessageType) {
	st := styles[t]
	boxWidth := p.width - 4

	fmt.Fprintln(p.out, p.paint(st.color, "+"+strings.Repeat("-", boxWidth)+"+"))
	for _, line := range wrap(message, boxWidth-4) {
		padding := boxWidth - len([]rune(line)) - 2
		if padding < 0 {
			padding = 0
		}
		fmt.Fprintln(p.out, p.paint(st.color, "| "+line+strings.Repeat(" ", padding)+" |"))
	}
	fmt.Fprintln(p.out, p.paint(st.color, "+"+strings.Repeat("-", boxWidth)+"+"))
}

// Divider draws a full-width divider line.
func (p *Printer) Divider() {
	fmt.Fprintln(p.out, p.paint(cyan, strings.Repeat("=", p.width)))
}

// Prompt asks the user a question and returns the trimmed answer, falling
// back to def when the answer is empty.
func (p *Printer) Prompt(message, def string) string {
	if def != "" {
		fmt.Fprint(p.out, p.paint(brightCyan, fmt.Sprintf("%s [%s]: ", message, def)))
	} else {
		fmt.Fprint(p.out, p.paint(brightCyan, message+": "))
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func wrap(message string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var curr strings.Builder

	for _, word := range strings.Fields(message) {
		if curr.Len() > 0 && curr.Len()+len(word)+1 > width {
			lines = append(lines, curr.String())
			curr.Reset()
		}
		if curr.Len() > 0 {
			curr.WriteByte(' ')
		}
		curr.WriteString(word)
	}
	if curr.Len() > 0 {
		lines = append(lines, curr.String())
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
