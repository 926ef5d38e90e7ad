// Package automation scripts multi-run studies: YAML throw scenarios,
// parameter sweeps, and release spread analysis. Everything here builds
// on the experiment package; nothing selects or optimizes, it only
// enumerates and reports.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/throwsim/internal/config"
	"github.com/san-kum/throwsim/internal/experiment"
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/logging"
	"github.com/san-kum/throwsim/internal/metrics"
)

// Scenario is a scripted sequence of throws loaded from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step describes one throw. Empty fields inherit from the named preset,
// or from the default throw when no preset is given. An explicit throw
// block replaces the release wholesale.
type Step struct {
	Name       string              `yaml:"name,omitempty"`
	Preset     string              `yaml:"preset,omitempty"`
	Body       string              `yaml:"body,omitempty"`
	Integrator string              `yaml:"integrator,omitempty"`
	Dt         float64             `yaml:"dt,omitempty"`
	Duration   float64             `yaml:"duration,omitempty"`
	Throw      *config.ThrowConfig `yaml:"throw,omitempty"`
	Params     map[string]float64  `yaml:"params,omitempty"`
	Save       bool                `yaml:"save,omitempty"`
}

// BuildConfig resolves the step against its preset and the defaults.
func (s Step) BuildConfig() (*config.Config, error) {
	base := config.DefaultConfig()
	if s.Body != "" {
		base.Body = s.Body
	}
	if s.Preset != "" {
		preset := config.GetPreset(base.Body, s.Preset)
		if preset == nil {
			return nil, fmt.Errorf("automation: unknown preset %q for body %q", s.Preset, base.Body)
		}
		base = preset
	}
	if s.Integrator != "" {
		base.Integrator = s.Integrator
	}
	if s.Dt > 0 {
		base.Dt = s.Dt
	}
	if s.Duration > 0 {
		base.Duration = s.Duration
	}
	if s.Throw != nil {
		base.Throw = *s.Throw
	}
	if len(s.Params) > 0 && base.Params == nil {
		base.Params = make(map[string]float64, len(s.Params))
	}
	for k, v := range s.Params {
		base.Params[k] = v
	}
	return base, nil
}

// LoadScenario reads a scenario script from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

// StepResult pairs a finished step with its trajectory and summary.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *flight.Result
	Stats  metrics.FlightStats
	Save   bool
}

// RunScenario executes the steps in order. The first failure aborts the
// remaining steps; results already produced come back alongside the
// error.
func RunScenario(ctx context.Context, sc *Scenario, reg *experiment.Registry) ([]StepResult, error) {
	log := logging.L()
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}

		cfg, err := step.BuildConfig()
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		log.Info("scenario step",
			zap.String("scenario", sc.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(sc.Steps)),
			zap.String("body", cfg.Body),
			zap.Float64("duration", cfg.Duration),
		)

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		results = append(results, StepResult{
			Name:   name,
			Config: cfg,
			Result: result,
			Stats:  metrics.Analyze(result),
			Save:   step.Save,
		})
	}

	return results, nil
}

// Sweep varies one body parameter across an inclusive range.
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

// Values returns the parameter values the sweep visits, evenly spaced
// from Min to Max.
func (s Sweep) Values() []float64 {
	vals := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// SweepPoint is the outcome at a single parameter value.
type SweepPoint struct {
	Value   float64
	Stats   metrics.FlightStats
	Metrics map[string]float64
}

// RunSweep integrates the base throw once per parameter value. Points run
// on a bounded worker pool; each point builds its own experiment so body
// parameter state is never shared. Results come back in value order, and
// the first error cancels the remaining points.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, reg *experiment.Registry) ([]SweepPoint, error) {
	if sweep.Param == "" {
		return nil, fmt.Errorf("automation: sweep parameter must be set")
	}
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("automation: sweep needs at least 2 steps, got %d", sweep.Steps)
	}
	if !(sweep.Max > sweep.Min) {
		return nil, fmt.Errorf("automation: sweep range [%v, %v] is empty", sweep.Min, sweep.Max)
	}

	vals := sweep.Values()
	points := make([]SweepPoint, len(vals))
	errs := make([]error, len(vals))

	logging.L().Info("parameter sweep",
		zap.String("param", sweep.Param),
		zap.Float64("min", sweep.Min),
		zap.Float64("max", sweep.Max),
		zap.Int("points", len(vals)),
		zap.String("body", base.Body),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers > len(vals) {
		workers = len(vals)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				points[idx], errs[idx] = runSweepPoint(ctx, base, sweep.Param, vals[idx], reg)
				if errs[idx] != nil {
					cancel()
				}
			}
		}()
	}

feed:
	for i := range vals {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return points, err
		}
	}
	// Cancellation can empty the feed before any worker reports an error.
	if err := ctx.Err(); err != nil {
		return points, err
	}
	return points, nil
}

func runSweepPoint(ctx context.Context, base *config.Config, param string, value float64, reg *experiment.Registry) (SweepPoint, error) {
	// Own params map per point; the base config is shared across workers.
	cfg := *base
	cfg.Params = make(map[string]float64, len(base.Params)+1)
	for k, v := range base.Params {
		cfg.Params[k] = v
	}
	cfg.Params[param] = value

	exp, err := experiment.New(&cfg, reg)
	if err != nil {
		return SweepPoint{}, fmt.Errorf("%s = %v: %w", param, value, err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return SweepPoint{}, fmt.Errorf("%s = %v: %w", param, value, err)
	}

	return SweepPoint{
		Value:   value,
		Stats:   metrics.Analyze(result),
		Metrics: result.Metrics,
	}, nil
}

// Spread jitters the release with Gaussian noise on launch speed, launch
// direction, and spin rate. Release position and orientation stay fixed.
type Spread struct {
	Trials     int
	Seed       int64 // 0 seeds from the clock
	SpeedSigma float64
	AngleSigma float64
	SpinSigma  float64
}

// Distribution summarizes one scalar across trials.
type Distribution struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func summarize(vals []float64) Distribution {
	return Distribution{
		Mean: stat.Mean(vals, nil),
		Std:  stat.StdDev(vals, nil),
		Min:  floats.Min(vals),
		Max:  floats.Max(vals),
	}
}

// SpreadReport is the landing dispersion over all trials.
type SpreadReport struct {
	Trials   int
	Seed     int64
	Grounded int // trials whose flight crossed the ground

	Range       Distribution
	FlightTime  Distribution
	ImpactSpeed Distribution
	Rotations   Distribution

	// Landing angle is circular: the mean comes from the summed unit
	// vectors and the spread is the circular standard deviation.
	LandingAngleMean float64
	LandingAngleStd  float64
}

// RunSpread integrates Trials jittered copies of the base release as an
// ensemble and reports where they land. The per-trial stats come back
// with the report, in trial order.
func RunSpread(ctx context.Context, base *config.Config, spread Spread, reg *experiment.Registry) (*SpreadReport, []metrics.FlightStats, error) {
	if spread.Trials < 2 {
		return nil, nil, fmt.Errorf("automation: spread needs at least 2 trials, got %d", spread.Trials)
	}
	if err := base.Validate(); err != nil {
		return nil, nil, err
	}

	seed := spread.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	release := base.InitialState()
	speed := math.Hypot(release[flight.IVX], release[flight.IVY])
	dir := math.Atan2(release[flight.IVY], release[flight.IVX])

	starts := make([]flight.State, spread.Trials)
	for i := range starts {
		s := speed + rng.NormFloat64()*spread.SpeedSigma
		d := dir + rng.NormFloat64()*spread.AngleSigma
		x := release.Clone()
		x[flight.IVX] = s * math.Cos(d)
		x[flight.IVY] = s * math.Sin(d)
		x[flight.IOmega] += rng.NormFloat64() * spread.SpinSigma
		starts[i] = x
	}

	// Surface build errors here; the worker factory cannot return one.
	if _, err := experiment.NewSimulator(base, reg); err != nil {
		return nil, nil, err
	}
	ens := flight.NewEnsemble(func() *flight.Simulator {
		sim, _ := experiment.NewSimulator(base, reg)
		return sim
	}, 0)

	logging.L().Info("release spread",
		zap.Int("trials", spread.Trials),
		zap.Int64("seed", seed),
		zap.String("body", base.Body),
		zap.Float64("speed_sigma", spread.SpeedSigma),
		zap.Float64("angle_sigma", spread.AngleSigma),
		zap.Float64("spin_sigma", spread.SpinSigma),
	)

	results, err := ens.Run(ctx, starts, base.SimConfig())
	if err != nil {
		return nil, nil, err
	}

	all := make([]metrics.FlightStats, len(results))
	for i, r := range results {
		all[i] = metrics.Analyze(r)
	}

	report := buildReport(all)
	report.Seed = seed
	return report, all, nil
}

func buildReport(all []metrics.FlightStats) *SpreadReport {
	n := len(all)
	ranges := make([]float64, n)
	times := make([]float64, n)
	speeds := make([]float64, n)
	turns := make([]float64, n)
	angles := make([]float64, n)
	grounded := 0
	for i, s := range all {
		ranges[i] = s.Range
		times[i] = s.FlightTime
		speeds[i] = s.ImpactSpeed
		turns[i] = s.Rotations
		angles[i] = s.LandingAngle
		if s.Grounded {
			grounded++
		}
	}

	return &SpreadReport{
		Trials:           n,
		Grounded:         grounded,
		Range:            summarize(ranges),
		FlightTime:       summarize(times),
		ImpactSpeed:      summarize(speeds),
		Rotations:        summarize(turns),
		LandingAngleMean: stat.CircularMean(angles, nil),
		LandingAngleStd:  circularStd(angles),
	}
}

// circularStd is sqrt(-2 ln R) with R the mean resultant length. Zero
// when every angle coincides, unbounded as the angles spread to uniform.
func circularStd(angles []float64) float64 {
	var s, c float64
	for _, a := range angles {
		s += math.Sin(a)
		c += math.Cos(a)
	}
	r := math.Hypot(s, c) / float64(len(angles))
	if r >= 1 {
		return 0
	}
	return math.Sqrt(-2 * math.Log(r))
}
