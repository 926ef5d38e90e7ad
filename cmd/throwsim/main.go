package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/throwsim/internal/analysis"
	"github.com/san-kum/throwsim/internal/automation"
	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/config"
	"github.com/san-kum/throwsim/internal/experiment"
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/integrators"
	"github.com/san-kum/throwsim/internal/logging"
	"github.com/san-kum/throwsim/internal/metrics"
	"github.com/san-kum/throwsim/internal/render"
	"github.com/san-kum/throwsim/internal/storage"
	"github.com/san-kum/throwsim/internal/viz"
)

var (
	// root persistent flags
	outputDir  string
	configFile string
	logLevel   string
	logFile    string

	// release flags shared by simulating commands
	bodyName   string
	presetName string
	integrator string
	dt         float64
	duration   float64
	adaptive   bool
	tolerance  float64
	relX       float64
	relY       float64
	relTheta   float64
	relVX      float64
	relVY      float64
	relOmega   float64
	paramArgs  []string
	noSave     bool

	// terminal chart geometry
	plotWidth  int
	plotHeight int

	// png and animation output
	stride     int
	frameRate  int
	gifPath    string
	mp4Path    string
	pixelW     int
	pixelH     int
	keepFrames bool
	pngOut     bool

	// sweep
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string

	// spread
	trials     int
	seed       int64
	speedSigma float64
	angleSigma float64
	spinSigma  float64

	// export
	exportFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "throwsim",
		Short: "rigid body throw simulator",
		Long:  "simulate thrown rigid bodies in free flight: integrate, plot, animate, and compare against the closed form",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{Level: logLevel, File: logFile})
		},
	}

	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "runs", "runs directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also log json to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a throw and store the trajectory",
		RunE:  runThrow,
	}
	addThrowFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print stats without storing the run")

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "flight statistics for a stored run or a fresh throw",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStats,
	}
	addThrowFlags(statsCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal charts of the state history and phase planes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTerminal,
	}
	addThrowFlags(plotCmd)
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width in columns")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "chart height in rows")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "write png plots and a trajectory svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderPlots,
	}
	addThrowFlags(renderCmd)
	renderCmd.Flags().IntVar(&stride, "stride", 0, "samples between silhouette snapshots (0 = auto)")

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "replay the flight in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  animateThrow,
	}
	addThrowFlags(animateCmd)
	animateCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "playback frame rate")
	animateCmd.Flags().StringVar(&gifPath, "gif", "", "path for in-player gif recording")

	recordCmd := &cobra.Command{
		Use:   "record [run_id]",
		Short: "render the flight to gif, and mp4 when ffmpeg is available",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordThrow,
	}
	addThrowFlags(recordCmd)
	recordCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "output frame rate")
	recordCmd.Flags().StringVar(&gifPath, "gif", "throw.gif", "gif output path")
	recordCmd.Flags().StringVar(&mp4Path, "mp4", "", "mp4 output path (needs ffmpeg)")
	recordCmd.Flags().IntVar(&pixelW, "width", 800, "frame width in pixels")
	recordCmd.Flags().IntVar(&pixelH, "height", 600, "frame height in pixels")
	recordCmd.Flags().BoolVar(&keepFrames, "keep-frames", false, "keep the png frame sequence")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same throw under several integrators against the closed form",
		RunE:  compareIntegrators,
	}
	addThrowFlags(compareCmd)
	compareCmd.Flags().BoolVar(&pngOut, "png", false, "also write a height error plot")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "estimate the spin rate from the orientation spectrum",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showSpectrum,
	}
	addThrowFlags(spectrumCmd)
	spectrumCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width in columns")
	spectrumCmd.Flags().IntVar(&plotHeight, "height", 15, "chart height in rows")
	spectrumCmd.Flags().BoolVar(&pngOut, "png", false, "also write spectrum.png")

	presetsCmd := &cobra.Command{
		Use:   "presets [body]",
		Short: "list ready-made throws",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one body parameter and report the landing per value",
		RunE:  runSweep,
	}
	addThrowFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "body parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "lowest parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "highest parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "", "extra run metric column (apex, rotations, mean_energy, energy_drift)")

	spreadCmd := &cobra.Command{
		Use:   "spread",
		Short: "jitter the release and report the landing dispersion",
		RunE:  runSpread,
	}
	addThrowFlags(spreadCmd)
	spreadCmd.Flags().IntVar(&trials, "trials", 100, "number of jittered releases")
	spreadCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from the clock)")
	spreadCmd.Flags().Float64Var(&speedSigma, "speed-sigma", 0.3, "launch speed noise (m/s)")
	spreadCmd.Flags().Float64Var(&angleSigma, "angle-sigma", 0.03, "launch direction noise (rad)")
	spreadCmd.Flags().Float64Var(&spinSigma, "spin-sigma", 0.5, "spin rate noise (rad/s)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted throw sequence from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "write a stored run to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or csv)")

	rootCmd.AddCommand(runCmd, statsCmd, plotCmd, renderCmd, animateCmd, recordCmd,
		compareCmd, spectrumCmd, presetsCmd, listCmd, sweepCmd, spreadCmd, scenarioCmd, exportCmd)

	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// addThrowFlags registers the release parameters shared by every command
// that can simulate a throw.
func addThrowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bodyName, "body", "axe", "body to throw (axe, knife, ball)")
	cmd.Flags().StringVar(&presetName, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integration scheme")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "flight duration (s)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size control")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "adaptive error tolerance")
	cmd.Flags().Float64Var(&relX, "x", 0, "release x (m)")
	cmd.Flags().Float64Var(&relY, "y", 2, "release height (m)")
	cmd.Flags().Float64Var(&relTheta, "theta", 2, "release orientation (rad)")
	cmd.Flags().Float64Var(&relVX, "vx", 8, "horizontal velocity (m/s)")
	cmd.Flags().Float64Var(&relVY, "vy", 4, "vertical velocity (m/s)")
	cmd.Flags().Float64Var(&relOmega, "omega", -7, "spin rate (rad/s)")
	cmd.Flags().StringArrayVar(&paramArgs, "param", nil, "body parameter override, name=value (repeatable)")
}

// buildThrowConfig resolves defaults, config file, preset, and explicit
// flags, in that order of increasing priority.
func buildThrowConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("body") {
		cfg.Body = bodyName
	}

	if presetName != "" {
		preset := config.GetPreset(cfg.Body, presetName)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)",
				presetName, cfg.Body, config.ListPresets(cfg.Body))
		}
		cfg = preset
	}

	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("x") {
		cfg.Throw.X = relX
	}
	if flags.Changed("y") {
		cfg.Throw.Y = relY
	}
	if flags.Changed("theta") {
		cfg.Throw.Theta = relTheta
	}
	if flags.Changed("vx") {
		cfg.Throw.VX = relVX
	}
	if flags.Changed("vy") {
		cfg.Throw.VY = relVY
	}
	if flags.Changed("omega") {
		cfg.Throw.Omega = relOmega
	}

	for _, kv := range paramArgs {
		name, val, err := parseParam(kv)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = val
	}

	if flags.Changed("output") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("fps") {
		cfg.Output.FPS = frameRate
	}

	return cfg, nil
}

func parseParam(kv string) (string, float64, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("bad param %q, want name=value", kv)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad param %q: %w", kv, err)
	}
	return name, val, nil
}

// resolveRun either loads a stored trajectory or simulates the configured
// throw, and hands back the matching body for silhouette work.
func resolveRun(cmd *cobra.Command, args []string) (*config.Config, bodies.Body, *flight.Result, error) {
	reg := experiment.NewRegistry()

	if len(args) == 1 {
		st := storage.New(outputDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load run %s: %w", args[0], err)
		}
		states, times, err := st.LoadStates(args[0])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load run %s: %w", args[0], err)
		}
		if len(states) == 0 {
			return nil, nil, nil, fmt.Errorf("run %s holds no samples", args[0])
		}

		body, err := reg.Body(meta.Body)
		if err != nil {
			return nil, nil, nil, err
		}
		names := make([]string, 0, len(meta.Params))
		for name := range meta.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := body.SetParam(name, meta.Params[name]); err != nil {
				return nil, nil, nil, fmt.Errorf("run %s: %w", args[0], err)
			}
		}

		cfg := config.DefaultConfig()
		cfg.Body = meta.Body
		cfg.Integrator = meta.Integrator
		cfg.Dt = meta.Dt
		cfg.Duration = meta.Duration
		cfg.Params = meta.Params
		cfg.Output.Dir = outputDir
		if len(meta.Release) == flight.StateLen {
			cfg.Throw = config.ThrowConfig{
				X: meta.Release[flight.IX], Y: meta.Release[flight.IY],
				Theta: meta.Release[flight.ITheta],
				VX:    meta.Release[flight.IVX], VY: meta.Release[flight.IVY],
				Omega: meta.Release[flight.IOmega],
			}
		}

		result := &flight.Result{Times: times, States: states, Metrics: meta.Metrics}
		return cfg, body, result, nil
	}

	cfg, err := buildThrowConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return nil, nil, nil, err
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, exp.Body(), result, nil
}

func runThrow(cmd *cobra.Command, args []string) error {
	cfg, err := buildThrowConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return err
	}

	fmt.Printf("throwing %s with %s (dt=%.4g, %.2fs)\n", cfg.Body, cfg.Integrator, cfg.Dt, cfg.Duration)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%d steps)\n", elapsed, result.StepsTaken)

	if !noSave {
		st := storage.New(cfg.Output.Dir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Body, cfg.Integrator, cfg.Dt, cfg.Duration, cfg.Params, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println()
	printFlightReport(result)
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg, _, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("body: %s  integrator: %s  samples: %d\n\n", cfg.Body, cfg.Integrator, result.Len())
	printFlightReport(result)
	return nil
}

func printFlightReport(result *flight.Result) {
	stats := metrics.Analyze(result)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "apex height\t%.4f m at %.4f s\n", stats.ApexHeight, stats.ApexTime)
	if stats.Grounded {
		fmt.Fprintf(w, "flight time\t%.4f s (grounded)\n", stats.FlightTime)
	} else {
		fmt.Fprintf(w, "flight time\t%.4f s (still airborne)\n", stats.FlightTime)
	}
	fmt.Fprintf(w, "range\t%.4f m\n", stats.Range)
	fmt.Fprintf(w, "landing angle\t%.4f rad (%.1f deg)\n", stats.LandingAngle, stats.LandingAngle*180/math.Pi)
	fmt.Fprintf(w, "rotations\t%.4f turns\n", stats.Rotations)
	fmt.Fprintf(w, "impact speed\t%.4f m/s\n", stats.ImpactSpeed)
	w.Flush()

	if len(result.Metrics) > 0 {
		fmt.Println("\nrun metrics:")
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}
}

func series(result *flight.Result, idx int) []float64 {
	vals := make([]float64, result.Len())
	for i, x := range result.States {
		vals[i] = x[idx]
	}
	return vals
}

func plotTerminal(cmd *cobra.Command, args []string) error {
	cfg, _, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("body: %s  samples: %d  dt: %.4g\n\n", cfg.Body, result.Len(), cfg.Dt)

	panels := []struct {
		caption string
		idx     int
	}{
		{"x position (m)", flight.IX},
		{"height (m)", flight.IY},
		{"orientation (rad)", flight.ITheta},
		{"vx (m/s)", flight.IVX},
		{"vy (m/s)", flight.IVY},
		{"spin (rad/s)", flight.IOmega},
	}
	for _, panel := range panels {
		graph := asciigraph.Plot(series(result, panel.idx),
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(panel.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("vertical phase plane (y, vy):")
	fmt.Println(analysis.Portrait(result, flight.IY, flight.IVY).ToASCII(plotWidth, plotHeight))
	fmt.Println("spin phase plane (theta, omega):")
	fmt.Println(analysis.Portrait(result, flight.ITheta, flight.IOmega).ToASCII(plotWidth, plotHeight))

	return nil
}

func renderPlots(cmd *cobra.Command, args []string) error {
	cfg, body, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.Output.Dir, "plots")
	if len(args) == 1 {
		dir = filepath.Join(outputDir, args[0], "plots")
	}

	if err := render.SaveTimeSeries(dir, result); err != nil {
		return err
	}
	if err := render.SavePhasePlots(dir, result); err != nil {
		return err
	}
	if err := render.SaveEnergyPlot(dir, body, result); err != nil {
		return err
	}
	if err := render.SaveTrajectoryPlot(dir, body, result, stride); err != nil {
		return err
	}

	if svg := render.TrajectorySVG(body, result, 1200, 800, stride); svg != "" {
		if err := os.WriteFile(filepath.Join(dir, "trajectory.svg"), []byte(svg), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("plots written to %s\n", dir)
	return nil
}

func animateThrow(cmd *cobra.Command, args []string) error {
	_, body, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	m := viz.NewModel(body, result, frameRate, gifPath)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func recordThrow(cmd *cobra.Command, args []string) error {
	cfg, body, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("rendering %s flight at %d fps\n", cfg.Body, frameRate)
	if err := render.RenderGIF(gifPath, body, result, frameRate, pixelW, pixelH); err != nil {
		return err
	}
	fmt.Printf("gif written to %s\n", gifPath)

	if mp4Path == "" {
		return nil
	}

	framesDir := filepath.Join(cfg.Output.Dir, "frames")
	n, err := render.RenderFrames(framesDir, body, result, frameRate, pixelW, pixelH)
	if err != nil {
		return err
	}
	fmt.Printf("%d frames written to %s\n", n, framesDir)

	if err := render.EncodeMP4(framesDir, frameRate, mp4Path); err != nil {
		if errors.Is(err, render.ErrNoFFmpeg) {
			return fmt.Errorf("mp4 skipped: %w", err)
		}
		return err
	}
	fmt.Printf("mp4 written to %s\n", mp4Path)

	if !keepFrames {
		return render.CleanFrames(framesDir)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildThrowConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	gravity := config.DefaultGravity
	if v, ok := cfg.Params["gravity"]; ok {
		gravity = v
	}
	closed := analysis.ClosedFormFrom(cfg.InitialState(), gravity)

	fmt.Printf("comparing on %s (dt=%.4g, %.2fs)\n\n", cfg.Body, cfg.Dt, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tPOS ERR\tANGLE ERR\tENERGY DRIFT\tSTEPS\tTIME")

	reg := experiment.NewRegistry()
	var curves []render.NamedSeries

	for _, name := range names {
		runCfg := *cfg
		runCfg.Integrator = name

		exp, err := experiment.New(&runCfg, reg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		dev := analysis.Compare(result, closed)
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.3e\t%d\t%v\n",
			name, dev.Position, dev.Angle, result.EnergyDrift, result.StepsTaken, elapsed.Round(time.Microsecond))

		if pngOut {
			errs := make([]float64, result.Len())
			for i, t := range result.Times {
				errs[i] = math.Abs(result.States[i][flight.IY] - closed.At(t)[flight.IY])
			}
			curves = append(curves, render.NamedSeries{Name: name, Times: result.Times, Values: errs})
		}
	}
	w.Flush()

	if pngOut && len(curves) > 0 {
		dir := filepath.Join(cfg.Output.Dir, "plots")
		if err := render.SaveComparePlot(dir, "compare.png", "Height Error vs Closed Form", "|y - y_exact| (m)", curves); err != nil {
			return err
		}
		fmt.Printf("\nerror plot written to %s\n", filepath.Join(dir, "compare.png"))
	}

	return nil
}

func showSpectrum(cmd *cobra.Command, args []string) error {
	cfg, _, result, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	spec := analysis.SpinSpectrum(result)
	if len(spec.Freqs) == 0 {
		return fmt.Errorf("trajectory too short for a spectrum")
	}

	// The spin line sits low; the upper bins are numerical noise.
	quarter := spec.Power
	if len(quarter) >= 8 {
		quarter = quarter[:len(quarter)/4]
	}
	graph := asciigraph.Plot(quarter,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("orientation power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	expected := math.Abs(result.States[0][flight.IOmega]) / (2 * math.Pi)
	fmt.Printf("peak frequency: %.4f hz\n", spec.PeakFrequency())
	fmt.Printf("release spin:   %.4f hz (omega / 2 pi)\n", expected)
	fmt.Printf("bin resolution: %.4f hz\n", spec.Resolution())

	if pngOut {
		dir := filepath.Join(cfg.Output.Dir, "plots")
		if err := render.SaveSpectrumPlot(dir, spec); err != nil {
			return err
		}
		fmt.Printf("spectrum plot written to %s\n", filepath.Join(dir, "spectrum.png"))
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.Bodies()
	if len(args) == 1 {
		names = []string{args[0]}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPRESET\tDURATION\tRELEASE (y, theta)\tVELOCITY (vx, vy)\tSPIN")

	found := false
	for _, body := range names {
		for _, preset := range config.ListPresets(body) {
			cfg := config.GetPreset(body, preset)
			if cfg == nil {
				continue
			}
			found = true
			fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.2f, %.2f\t%.2f, %.2f\t%.2f\n",
				body, preset, cfg.Duration,
				cfg.Throw.Y, cfg.Throw.Theta,
				cfg.Throw.VX, cfg.Throw.VY,
				cfg.Throw.Omega)
		}
	}
	if !found && len(args) == 1 {
		fmt.Printf("no presets for body: %s\n", args[0])
		return nil
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(outputDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBODY\tWHEN\tDURATION\tDT\tINTEGRATOR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4g\t%s\n",
			run.ID, run.Body,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration, run.Dt, run.Integrator)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildThrowConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sweep := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}

	points, err := automation.RunSweep(context.Background(), cfg, sweep, reg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s on %s over [%g, %g]\n\n", sweepParam, cfg.Body, sweepMin, sweepMax)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "VALUE\tFLIGHT\tRANGE\tAPEX\tLANDING\tTURNS"
	if sweepMetric != "" {
		header += "\t" + strings.ToUpper(sweepMetric)
	}
	fmt.Fprintln(w, header)

	for _, pt := range points {
		row := fmt.Sprintf("%.4g\t%.4fs\t%.3fm\t%.3fm\t%.3f\t%.3f",
			pt.Value, pt.Stats.FlightTime, pt.Stats.Range,
			pt.Stats.ApexHeight, pt.Stats.LandingAngle, pt.Stats.Rotations)
		if sweepMetric != "" {
			row += fmt.Sprintf("\t%.6f", pt.Metrics[sweepMetric])
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

func runSpread(cmd *cobra.Command, args []string) error {
	cfg, err := buildThrowConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	spread := automation.Spread{
		Trials:     trials,
		Seed:       seed,
		SpeedSigma: speedSigma,
		AngleSigma: angleSigma,
		SpinSigma:  spinSigma,
	}

	report, _, err := automation.RunSpread(context.Background(), cfg, spread, reg)
	if err != nil {
		return err
	}

	fmt.Printf("%d jittered %s releases (seed %d), %d grounded\n\n",
		report.Trials, cfg.Body, report.Seed, report.Grounded)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMEAN\tSTD\tMIN\tMAX")
	printDist := func(name string, d automation.Distribution) {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, d.Mean, d.Std, d.Min, d.Max)
	}
	printDist("range (m)", report.Range)
	printDist("flight time (s)", report.FlightTime)
	printDist("impact speed (m/s)", report.ImpactSpeed)
	printDist("rotations (turns)", report.Rotations)
	w.Flush()

	fmt.Printf("\nlanding angle: %.4f rad mean, %.4f rad circular std (%.1f deg)\n",
		report.LandingAngleMean, report.LandingAngleStd, report.LandingAngleStd*180/math.Pi)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	reg := experiment.NewRegistry()
	results, runErr := automation.RunScenario(context.Background(), sc, reg)

	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tBODY\tFLIGHT\tRANGE\tLANDING\tTURNS\tGROUNDED")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%.4fs\t%.3fm\t%.3f\t%.3f\t%v\n",
				r.Name, r.Config.Body, r.Stats.FlightTime, r.Stats.Range,
				r.Stats.LandingAngle, r.Stats.Rotations, r.Stats.Grounded)
		}
		w.Flush()
	}

	var st *storage.Store
	for _, r := range results {
		if !r.Save {
			continue
		}
		if st == nil {
			st = storage.New(outputDir)
			if err := st.Init(); err != nil {
				return err
			}
		}
		runID, err := st.Save(r.Config.Body, r.Config.Integrator, r.Config.Dt, r.Config.Duration, r.Config.Params, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("%s saved as %s\n", r.Name, runID)
	}

	return runErr
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(outputDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	result := &flight.Result{Times: times, States: states, Metrics: meta.Metrics}

	switch exportFormat {
	case "json":
		return storage.ExportJSON(os.Stdout, meta.Body, meta.Integrator, meta.Dt, meta.Duration, result)
	case "csv":
		return storage.ExportCSV(os.Stdout, result)
	}
	return fmt.Errorf("unknown format %q, want json or csv", exportFormat)
}
