// Package render produces publication artifacts from finished runs:
// static PNG plots, raster frame sequences, animated GIFs, and MP4 video
// when ffmpeg is on the PATH.
package render

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/throwsim/internal/analysis"
	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/flight"
)

// limitedTicker caps the number of axis labels so dense trajectories stay
// readable.
func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.Title.Padding = vg.Points(10)

	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Padding = vg.Points(8)
	p.Y.Label.Padding = vg.Points(8)

	p.X.Tick.Label.Font.Size = vg.Points(11)
	p.Y.Tick.Label.Font.Size = vg.Points(11)

	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")
}

// savePNG renders the plot at 300 DPI.
func savePNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("render: create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(300),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("render: create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}

func saveLinePlot(dir, filename, title, xlabel, ylabel string, xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("render: plot data invalid for %s", filename)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	return savePNG(p, 8.0, 6.0, filepath.Join(dir, filename))
}

func component(result *flight.Result, idx int) []float64 {
	vals := make([]float64, len(result.States))
	for i, x := range result.States {
		vals[i] = x[idx]
	}
	return vals
}

// SaveTimeSeries writes one plot per state component.
func SaveTimeSeries(dir string, result *flight.Result) error {
	panels := []struct {
		file, title, ylabel string
		idx                 int
	}{
		{"position_x.png", "Horizontal Position x(t)", "x (m)", flight.IX},
		{"height.png", "Height y(t)", "y (m)", flight.IY},
		{"angle.png", "Orientation theta(t)", "theta (rad)", flight.ITheta},
		{"velocity_x.png", "Horizontal Velocity vx(t)", "vx (m/s)", flight.IVX},
		{"velocity_y.png", "Vertical Velocity vy(t)", "vy (m/s)", flight.IVY},
		{"spin.png", "Angular Velocity omega(t)", "omega (rad/s)", flight.IOmega},
	}

	for _, panel := range panels {
		err := saveLinePlot(dir, panel.file, panel.title, "time (s)", panel.ylabel,
			result.Times, component(result, panel.idx))
		if err != nil {
			return err
		}
	}
	return nil
}

// SavePhasePlots writes the vertical phase plane (y, vy) and the spin
// phase plane (theta, omega).
func SavePhasePlots(dir string, result *flight.Result) error {
	err := saveLinePlot(dir, "phase_height.png", "Vertical Phase Plane", "y (m)", "vy (m/s)",
		component(result, flight.IY), component(result, flight.IVY))
	if err != nil {
		return err
	}
	return saveLinePlot(dir, "phase_spin.png", "Spin Phase Plane", "theta (rad)", "omega (rad/s)",
		component(result, flight.ITheta), component(result, flight.IOmega))
}

// SaveEnergyPlot writes total mechanical energy against time. For a drag
// free flight the line should be flat.
func SaveEnergyPlot(dir string, body bodies.Body, result *flight.Result) error {
	energy := make([]float64, len(result.States))
	for i, x := range result.States {
		energy[i] = body.Energy(x)
	}
	return saveLinePlot(dir, "energy.png", "Total Energy E(t)", "time (s)", "E (J)",
		result.Times, energy)
}

// SaveTrajectoryPlot draws the center-of-mass path with silhouette
// overlays every stride samples, the analytic path dashed on top, and the
// ground line. stride <= 0 picks roughly a dozen silhouettes.
func SaveTrajectoryPlot(dir string, body bodies.Body, result *flight.Result, stride int) error {
	if result.Len() == 0 {
		return fmt.Errorf("render: empty trajectory")
	}
	if stride <= 0 {
		stride = result.Len() / 12
		if stride < 1 {
			stride = 1
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Flight Path: %s", body.Name())
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	stylePlot(p)

	// Center-of-mass path.
	path := make(plotter.XYs, result.Len())
	for i, x := range result.States {
		path[i].X = x[flight.IX]
		path[i].Y = x[flight.IY]
	}
	pathLine, err := plotter.NewLine(path)
	if err != nil {
		return err
	}
	pathLine.LineStyle.Width = vg.Points(2)
	pathLine.LineStyle.Color = plotutil.Color(0)
	p.Add(pathLine)
	p.Legend.Add("path", pathLine)

	// Silhouette snapshots.
	for i := 0; i < result.Len(); i += stride {
		for _, seg := range body.Silhouette(result.States[i]) {
			segLine, err := plotter.NewLine(plotter.XYs{
				{X: seg.A.X, Y: seg.A.Y},
				{X: seg.B.X, Y: seg.B.Y},
			})
			if err != nil {
				return err
			}
			segLine.LineStyle.Width = vg.Points(1.2)
			segLine.LineStyle.Color = plotutil.Color(3)
			p.Add(segLine)
		}
	}

	// Analytic overlay from the release state.
	gravity := body.GetParams()["gravity"]
	cf := analysis.ClosedFormFrom(result.States[0], gravity)
	endT := result.Times[result.Len()-1]
	analyticPts := make(plotter.XYs, 0, 200)
	for i := 0; i <= 200; i++ {
		t := endT * float64(i) / 200
		x := cf.At(t)
		analyticPts = append(analyticPts, plotter.XY{X: x[flight.IX], Y: x[flight.IY]})
	}
	analyticLine, err := plotter.NewLine(analyticPts)
	if err != nil {
		return err
	}
	analyticLine.LineStyle.Width = vg.Points(1)
	analyticLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	analyticLine.LineStyle.Color = plotutil.Color(1)
	p.Add(analyticLine)
	p.Legend.Add("analytic", analyticLine)

	// Ground.
	minX, maxX := path[0].X, path[0].X
	for _, pt := range path {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
	}
	ground, err := plotter.NewLine(plotter.XYs{{X: minX - 1, Y: 0}, {X: maxX + 1, Y: 0}})
	if err != nil {
		return err
	}
	ground.LineStyle.Width = vg.Points(1)
	p.Add(ground)

	// Near-equal axis spans keep the silhouette shapes undistorted.
	squareRanges(p, body.Reach())

	return savePNG(p, 8.0, 8.0, filepath.Join(dir, "trajectory.png"))
}

// squareRanges pads the shorter axis until both spans match, plus a
// margin for the body outline.
func squareRanges(p *plot.Plot, margin float64) {
	xSpan := p.X.Max - p.X.Min
	ySpan := p.Y.Max - p.Y.Min
	if xSpan <= 0 || ySpan <= 0 {
		return
	}
	span := math.Max(xSpan, ySpan) + 2*margin

	xMid := (p.X.Max + p.X.Min) / 2
	yMid := (p.Y.Max + p.Y.Min) / 2
	p.X.Min, p.X.Max = xMid-span/2, xMid+span/2
	p.Y.Min, p.Y.Max = yMid-span/2, yMid+span/2
}

// NamedSeries is one labeled curve on a comparison plot.
type NamedSeries struct {
	Name   string
	Times  []float64
	Values []float64
}

// SaveComparePlot overlays one curve per series, used to compare
// integrators on the same release.
func SaveComparePlot(dir, filename, title, ylabel string, series []NamedSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("render: nothing to compare")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	stylePlot(p)

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Times))
		for j := range s.Times {
			pts[j].X = s.Times[j]
			pts[j].Y = s.Values[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return savePNG(p, 8.0, 6.0, filepath.Join(dir, filename))
}

// SaveSpectrumPlot writes the spin power spectrum with the detected peak
// marked.
func SaveSpectrumPlot(dir string, spec *analysis.Spectrum) error {
	if spec == nil || len(spec.Freqs) == 0 {
		return fmt.Errorf("render: empty spectrum")
	}

	p := plot.New()
	p.Title.Text = "Spin Spectrum"
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "power"
	stylePlot(p)

	pts := make(plotter.XYs, len(spec.Freqs))
	for i := range spec.Freqs {
		pts[i].X = spec.Freqs[i]
		pts[i].Y = spec.Power[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	peak := spec.PeakFrequency()
	marker, err := plotter.NewScatter(plotter.XYs{{X: peak, Y: maxFloat(spec.Power)}})
	if err != nil {
		return err
	}
	marker.GlyphStyle.Radius = vg.Points(4)
	marker.GlyphStyle.Color = plotutil.Color(1)
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("peak %.3f Hz", peak), marker)

	return savePNG(p, 8.0, 6.0, filepath.Join(dir, "spectrum.png"))
}

func maxFloat(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}
