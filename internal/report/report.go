// Package report turns the xvg files produced by trajectory analysis into
// plots and a single PDF summary document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/chatmol/gromacs-copilot/internal/logx"
	"github.com/chatmol/gromacs-copilot/internal/xvg"
)

// section is one rendered analysis: the parsed data, its plot image and the
// per-series statistics.
type section struct {
	Name      string
	Data      *xvg.Data
	PlotFile  string
	Summaries []seriesSummary
}

type seriesSummary struct {
	Label string
	xvg.Summary
}

// Generator collects xvg files from the analysis directory and assembles
// the report under <workspace>/report.
type Generator struct {
	Workspace string

	// MaxParallel bounds concurrent plot rendering. Zero means one worker
	// per input file.
	MaxParallel int
}

// Generate renders all plots and writes report/md_report.pdf. It returns
// the PDF path and the list of plot images.
func (g *Generator) Generate() (string, []string, error) {
	analysisDir := filepath.Join(g.Workspace, "analysis")
	reportDir := filepath.Join(g.Workspace, "report")
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create report directory: %w", err)
	}

	files, err := collectXVG(analysisDir)
	if err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return "", nil, fmt.Errorf("no xvg files found in %s", analysisDir)
	}

	t := logx.Start("Report", "render plots")
	sections, err := g.renderAll(files, reportDir)
	t.End()
	if err != nil {
		return "", nil, err
	}

	pdfPath := filepath.Join(reportDir, "md_report.pdf")
	if err := writePDF(pdfPath, sections); err != nil {
		return "", nil, err
	}

	plots := make([]string, len(sections))
	for i, s := range sections {
		plots[i] = s.PlotFile
	}
	logx.Info("Report", "wrote %s with %d sections", pdfPath, len(sections))
	return pdfPath, plots, nil
}

func collectXVG(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read analysis directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xvg") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (g *Generator) renderAll(files []string, reportDir string) ([]section, error) {
	var eg errgroup.Group
	if g.MaxParallel > 0 {
		eg.SetLimit(g.MaxParallel)
	}

	var mu sync.Mutex
	var sections []section
	for _, file := range files {
		file := file
		eg.Go(func() error {
			s, err := renderSection(file, reportDir)
			if err != nil {
				// a malformed xvg should not sink the whole report
				logx.Warn("Report", "skipping %s: %v", filepath.Base(file), err)
				return nil
			}
			mu.Lock()
			sections = append(sections, s)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Name < sections[j].Name })
	return sections, nil
}

func renderSection(file, reportDir string) (section, error) {
	data, err := xvg.ParseFile(file)
	if err != nil {
		return section{}, err
	}

	name := strings.TrimSuffix(filepath.Base(file), ".xvg")
	plotFile := filepath.Join(reportDir, name+".png")
	if err := renderPlot(data, plotFile); err != nil {
		return section{}, err
	}

	var summaries []seriesSummary
	for i := range data.Y {
		sum, err := data.Summarize(i)
		if err != nil {
			continue
		}
		label := fmt.Sprintf("series %d", i+1)
		if i < len(data.Legends) && data.Legends[i] != "" {
			label = data.Legends[i]
		} else if len(data.Y) == 1 && data.YLabel != "" {
			label = data.YLabel
		}
		summaries = append(summaries, seriesSummary{Label: label, Summary: sum})
	}

	return section{Name: name, Data: data, PlotFile: plotFile, Summaries: summaries}, nil
}

func renderPlot(data *xvg.Data, path string) error {
	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = data.XLabel
	p.Y.Label.Text = data.YLabel

	for i, ys := range data.Y {
		pts := make(plotter.XYs, len(data.X))
		for j := range data.X {
			pts[j].X = data.X[j]
			pts[j].Y = ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", data.Title, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if i < len(data.Legends) && data.Legends[i] != "" {
			p.Legend.Add(data.Legends[i], line)
		}
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func writePDF(path string, sections []section) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("MD Simulation Report", false)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Molecular Dynamics Simulation Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, "Generated by GROMACS Copilot on "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range sections {
		pdf.CellFormat(0, 6, "- "+s.Name, "", 1, "L", false, 0, "")
	}

	for _, s := range sections {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		title := s.Data.Title
		if title == "" {
			title = s.Name
		}
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

		pdf.ImageOptions(s.PlotFile, 15, 28, 180, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(155)

		if len(s.Summaries) > 0 {
			pdf.SetFont("Helvetica", "B", 10)
			for _, h := range []string{"Series", "Mean", "Std", "Min", "Max", "Final"} {
				w := 50.0
				if h != "Series" {
					w = 28.0
				}
				pdf.CellFormat(w, 7, h, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 10)
			for _, sum := range s.Summaries {
				pdf.CellFormat(50, 7, sum.Label, "1", 0, "L", false, 0, "")
				for _, v := range []float64{sum.Mean, sum.Std, sum.Min, sum.Max, sum.Final} {
					pdf.CellFormat(28, 7, fmt.Sprintf("%.4g", v), "1", 0, "R", false, 0, "")
				}
				pdf.Ln(-1)
			}
		}
	}

	return pdf.OutputFileAndClose(path)
}
