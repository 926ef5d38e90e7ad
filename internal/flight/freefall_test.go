package flight_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/integrators"
)

// ballistic is uniform-gravity free flight with no torque: the vertical
// velocity decays linearly and the spin rate never changes.
type ballistic struct {
	g float64
}

func (b *ballistic) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[flight.IVX], x[flight.IVY], x[flight.IOmega], 0, -b.g, 0}
}

func (b *ballistic) StateDim() int { return flight.StateLen }

func (b *ballistic) Energy(x flight.State) float64 {
	ke := 0.5 * (x[flight.IVX]*x[flight.IVX] + x[flight.IVY]*x[flight.IVY])
	return ke + b.g*x[flight.IY]
}

var _ = Describe("Simulator", func() {
	var (
		sim *flight.Simulator
		cfg flight.Config
		x0  flight.State
	)

	BeforeEach(func() {
		sim = flight.New(&ballistic{g: 9.8}, integrators.NewRK4())
		cfg = flight.Config{Dt: 0.001, Duration: 1.0, ValidateState: true}
		x0 = flight.NewState(0, 2, 2, 8, 4, -7)
	})

	It("records the release state as the first sample", func() {
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.States[0]).To(Equal(x0))
		Expect(result.Times[0]).To(BeZero())
	})

	It("samples time from zero through the full duration", func() {
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Times).To(HaveLen(1001))
		Expect(result.Times[1000]).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("matches the closed-form vertical drop after one second", func() {
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		// y(1) = 2 + 4 - 4.9
		Expect(result.Final()[flight.IY]).To(BeNumerically("~", 1.1, 1e-3))
	})

	It("advances position and angle linearly where no force acts", func() {
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		final := result.Final()
		Expect(final[flight.IX]).To(BeNumerically("~", 8.0, 1e-6))
		Expect(final[flight.ITheta]).To(BeNumerically("~", -5.0, 1e-6))
	})

	It("keeps theta unwrapped past full rotations", func() {
		cfg.Duration = 2.0
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		// theta(2) = 2 - 14, well below -pi; no wrap during integration.
		Expect(result.Final()[flight.ITheta]).To(BeNumerically("~", -12.0, 1e-6))
	})

	It("conserves total energy to rounding error", func() {
		result, err := sim.Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnergyDrift).To(BeNumerically("<", 1e-10))
	})

	It("returns the partial trajectory when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := sim.Run(ctx, x0, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.States).NotTo(BeEmpty())
	})

	It("rejects a release state of the wrong dimension", func() {
		_, err := sim.Run(context.Background(), flight.State{1, 2, 3}, cfg)
		Expect(err).To(MatchError(flight.ErrDimensionMismatch))
	})
})

var _ = Describe("Ensemble", func() {
	It("produces one trajectory per release, in release order", func() {
		ensemble := flight.NewEnsemble(func() *flight.Simulator {
			return flight.New(&ballistic{g: 9.8}, integrators.NewRK4())
		}, 4)

		starts := make([]flight.State, 9)
		for i := range starts {
			speed := 5.0 + float64(i)
			starts[i] = flight.NewState(0, 2, 2, speed, 4, -7)
		}

		results, err := ensemble.Run(context.Background(), starts,
			flight.Config{Dt: 0.01, Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(9))

		for i, r := range results {
			wantX := (5.0 + float64(i)) * 1.0
			Expect(r.Final()[flight.IX]).To(BeNumerically("~", wantX, 1e-6),
				"release %d landed out of order", i)
		}
	})

	It("propagates per-run failures", func() {
		ensemble := flight.NewEnsemble(func() *flight.Simulator {
			return flight.New(&ballistic{g: math.NaN()}, integrators.NewEuler())
		}, 2)

		starts := []flight.State{flight.NewState(0, 2, 2, 8, 4, -7)}
		results, err := ensemble.Run(context.Background(), starts,
			flight.Config{Dt: 0.1, Duration: 1.0, ValidateState: true})

		// NaN gravity corrupts the state; the run records it rather than
		// failing, so results stay usable and the error list is populated.
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Errors).NotTo(BeEmpty())
	})
})
