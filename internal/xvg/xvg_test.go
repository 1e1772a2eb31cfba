package xvg

import (
	"math"
	"strings"
	"testing"
)

const sampleRMSD = `# gmx rms is part of G R O M A C S
#
@    title "RMSD"
@    xaxis  label "Time (ns)"
@    yaxis  label "RMSD (nm)"
@TYPE xy
@ s0 legend "Backbone"
0.000    0.0001
0.010    0.0521
0.020    0.0794
0.030    0.0812
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleRMSD))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if d.Title != "RMSD" {
		t.Fatalf("unexpected title: %q", d.Title)
	}
	if d.XLabel != "Time (ns)" || d.YLabel != "RMSD (nm)" {
		t.Fatalf("unexpected labels: %q / %q", d.XLabel, d.YLabel)
	}
	if len(d.Legends) != 1 || d.Legends[0] != "Backbone" {
		t.Fatalf("unexpected legends: %v", d.Legends)
	}
	if len(d.X) != 4 || len(d.Y) != 1 || len(d.Y[0]) != 4 {
		t.Fatalf("unexpected data shape: %d x-values, %d series", len(d.X), len(d.Y))
	}
	if d.X[1] != 0.010 || d.Y[0][2] != 0.0794 {
		t.Fatalf("unexpected values: %v %v", d.X, d.Y)
	}
}

func TestParse_MultiColumn(t *testing.T) {
	src := `@ s0 legend "Rg"
@ s1 legend "RgX"
0 1.5 0.9
1 1.6 1.0
`
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(d.Y) != 2 {
		t.Fatalf("expected 2 series, got %d", len(d.Y))
	}
	if d.Y[1][1] != 1.0 {
		t.Fatalf("unexpected value: %v", d.Y[1])
	}
}

func TestParse_NoData(t *testing.T) {
	if _, err := Parse(strings.NewReader("# only comments\n@ title \"x\"\n")); err == nil {
		t.Fatalf("expected error for file without data rows")
	}
}

func TestParse_InconsistentColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("0 1 2\n1 1\n")); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
}

func TestSummarize(t *testing.T) {
	d, err := Parse(strings.NewReader("0 1\n1 2\n2 3\n3 4\n"))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	s, err := d.Summarize(0)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if s.Mean != 2.5 || s.Min != 1 || s.Max != 4 || s.Final != 4 || s.N != 4 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.Std-1.2909944487358056) > 1e-12 {
		t.Fatalf("unexpected std: %v", s.Std)
	}

	if _, err := d.Summarize(5); err == nil {
		t.Fatalf("expected error for out-of-range column")
	}
}
