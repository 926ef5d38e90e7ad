package metrics

import (
	"math"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

// FlightStats summarizes a finished trajectory. Ground contact is read
// off the stored samples by interpolation; the flight model itself never
// collides with anything.
type FlightStats struct {
	ApexHeight float64
	ApexTime   float64

	// Grounded reports whether the trajectory crossed y=0 heading down.
	Grounded     bool
	FlightTime   float64 // time of the crossing, or the full run if none
	Range        float64 // horizontal distance covered by FlightTime
	LandingAngle float64 // orientation at the crossing, wrapped for display
	ImpactSpeed  float64

	Rotations float64 // full turns between release and FlightTime
}

// Analyze walks a result once and extracts the flight statistics.
func Analyze(r *flight.Result) FlightStats {
	var stats FlightStats
	if r.Len() == 0 {
		return stats
	}

	first := r.States[0]
	stats.ApexHeight = first[flight.IY]
	stats.ApexTime = r.Times[0]

	crossed := false
	var endState flight.State
	var endTime float64

	for i := 1; i < r.Len(); i++ {
		x := r.States[i]

		if !crossed && x[flight.IY] > stats.ApexHeight {
			stats.ApexHeight = x[flight.IY]
			stats.ApexTime = r.Times[i]
		}

		prev := r.States[i-1]
		if !crossed && prev[flight.IY] > 0 && x[flight.IY] <= 0 && x[flight.IVY] < 0 {
			frac := prev[flight.IY] / (prev[flight.IY] - x[flight.IY])
			endTime = r.Times[i-1] + frac*(r.Times[i]-r.Times[i-1])
			endState = lerpState(prev, x, frac)
			crossed = true
		}
	}

	if !crossed {
		endTime = r.Times[r.Len()-1]
		endState = r.Final()
	}

	stats.Grounded = crossed
	stats.FlightTime = endTime
	stats.Range = endState[flight.IX] - first[flight.IX]
	stats.LandingAngle = geom.WrapAngle(endState[flight.ITheta])
	stats.ImpactSpeed = math.Hypot(endState[flight.IVX], endState[flight.IVY])
	stats.Rotations = math.Abs(endState[flight.ITheta]-first[flight.ITheta]) / (2 * math.Pi)

	return stats
}

func lerpState(a, b flight.State, frac float64) flight.State {
	out := make(flight.State, len(a))
	for i := range a {
		out[i] = a[i] + frac*(b[i]-a[i])
	}
	return out
}
