// Package xvg reads the .xvg files produced by GROMACS analysis tools
// (gmx rms, rmsf, gyrate, hbond, energy) just far enough to plot and
// summarize them. It is not a general Grace parser.
package xvg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data holds one parsed xvg file: the first column as X, every further
// column as a series in Y.
type Data struct {
	Title   string
	XLabel  string
	YLabel  string
	Legends []string
	X       []float64
	Y       [][]float64
}

func ParseFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

func Parse(r io.Reader) (*Data, error) {
	d := &Data{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "@"):
			d.parseDirective(line)
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected at least two columns, got %q", lineNo, line)
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad number %q: %w", lineNo, f, err)
			}
			row[i] = v
		}

		if d.Y == nil {
			d.Y = make([][]float64, len(row)-1)
		}
		if len(row)-1 != len(d.Y) {
			return nil, fmt.Errorf("line %d: inconsistent column count", lineNo)
		}
		d.X = append(d.X, row[0])
		for i, v := range row[1:] {
			d.Y[i] = append(d.Y[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(d.X) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return d, nil
}

// parseDirective picks the labels out of Grace-style @ lines; everything
// else is ignored.
func (d *Data) parseDirective(line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "@"))

	quoted := func(s string) string {
		if i := strings.Index(s, `"`); i >= 0 {
			if j := strings.LastIndex(s, `"`); j > i {
				return s[i+1 : j]
			}
		}
		return ""
	}

	switch {
	case strings.HasPrefix(body, "title"):
		d.Title = quoted(body)
	case strings.HasPrefix(body, "xaxis"):
		d.XLabel = quoted(body)
	case strings.HasPrefix(body, "yaxis"):
		d.YLabel = quoted(body)
	case strings.HasPrefix(body, "s") && strings.Contains(body, "legend"):
		if leg := quoted(body); leg != "" {
			d.Legends = append(d.Legends, leg)
		}
	}
}

// Summary collects the usual statistics over one series.
type Summary struct {
	Mean, Std, Min, Max, Final float64
	N                          int
}

// Summarize computes statistics for series col (0 is the first Y column).
func (d *Data) Summarize(col int) (Summary, error) {
	if col < 0 || col >= len(d.Y) {
		return Summary{}, fmt.Errorf("no series %d (have %d)", col, len(d.Y))
	}
	ys := d.Y[col]
	return Summary{
		Mean:  stat.Mean(ys, nil),
		Std:   stat.StdDev(ys, nil),
		Min:   floats.Min(ys),
		Max:   floats.Max(ys),
		Final: ys[len(ys)-1],
		N:     len(ys),
	}, nil
}
