package bodies

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

func TestKnifeInertiaUniformBar(t *testing.T) {
	knife := NewKnife()

	want := knife.Mass * knife.Length * knife.Length / 12
	if got := knife.Inertia(); math.Abs(got-want) > 1e-15 {
		t.Errorf("inertia = %v, want %v", got, want)
	}
}

func TestKnifeSilhouette(t *testing.T) {
	knife := NewKnife()
	segs := knife.Silhouette(flight.NewState(1, 1, 0, 0, 0, 0))

	if len(segs) != 2 {
		t.Fatalf("silhouette has %d segments, want 2", len(segs))
	}

	spine := segs[0]
	if got := spine.B.Sub(spine.A).Len(); math.Abs(got-knife.Length) > 1e-12 {
		t.Errorf("spine length = %v, want %v", got, knife.Length)
	}

	// Uniform bar: tip and pommel sit symmetrically about the center.
	mid := spine.A.Lerp(spine.B, 0.5)
	if math.Abs(mid.X-1) > 1e-12 || math.Abs(mid.Y-1) > 1e-12 {
		t.Errorf("spine midpoint = %+v, want (1,1)", mid)
	}
}

func TestBallInertiaSolidSphere(t *testing.T) {
	ball := NewBall()

	want := 0.4 * ball.Mass * ball.Radius * ball.Radius
	if got := ball.Inertia(); math.Abs(got-want) > 1e-15 {
		t.Errorf("inertia = %v, want %v", got, want)
	}
}

func TestBallSpinMarker(t *testing.T) {
	ball := NewBall()

	segs := ball.Silhouette(flight.NewState(0, 0, 0, 0, 0, 0))
	if len(segs) != 2 {
		t.Fatalf("silhouette has %d segments, want 2", len(segs))
	}

	if got := segs[0].B.Sub(segs[0].A).Len(); math.Abs(got-2*ball.Radius) > 1e-12 {
		t.Errorf("spoke length = %v, want %v", got, 2*ball.Radius)
	}
}

func TestFreeFlightDeriveAgreesAcrossBodies(t *testing.T) {
	x := flight.NewState(0, 2, 2, 8, 4, -7)

	axe := NewAxe()
	knife := NewKnife()
	ball := NewBall()

	dA := axe.Derive(x, 0)
	dK := knife.Derive(x, 0)
	dB := ball.Derive(x, 0)

	// Same gravity, same free flight: mass distribution must not leak
	// into the equations of motion.
	for i := range dA {
		if dA[i] != dK[i] || dA[i] != dB[i] {
			t.Errorf("component %d differs: axe=%v knife=%v ball=%v",
				i, dA[i], dK[i], dB[i])
		}
	}
}

func TestSetParamUnknownAcrossBodies(t *testing.T) {
	cases := []Body{NewAxe(), NewKnife(), NewBall()}

	for _, b := range cases {
		t.Run(b.Name(), func(t *testing.T) {
			err := b.SetParam("warp_factor", 9)
			if !errors.Is(err, flight.ErrUnknownParam) {
				t.Errorf("error = %v, want ErrUnknownParam", err)
			}
		})
	}
}

func TestReachCoversSilhouette(t *testing.T) {
	for _, b := range []Body{NewAxe(), NewKnife(), NewBall()} {
		t.Run(b.Name(), func(t *testing.T) {
			origin := flight.NewState(0, 0, 0.9, 0, 0, 0)
			reach := b.Reach()

			for _, seg := range b.Silhouette(origin) {
				for _, p := range [...]float64{seg.A.Len(), seg.B.Len()} {
					if p > reach+1e-12 {
						t.Errorf("silhouette point at %v exceeds reach %v", p, reach)
					}
				}
			}
		})
	}
}
