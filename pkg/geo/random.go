package geo

import (
	"math"
	"math/rand"
)

// RandomTrajectory generates a size-point trajectory inside bounds, walking
// from a random start in the given compass angle (radians, 0 = east,
// increasing counter-clockwise) at the given distance (degrees) per step.
// Whenever a step would leave bounds on an axis, the walk reverses direction
// on that axis and the step is reflected back.
//
// Each generated point is written to index i of the result. An earlier
// generator this one replaces wrote every point to index 0 instead,
// silently discarding all but the last step; that defect is not
// reproduced here.
func RandomTrajectory(bounds BBox, angle, distance float64, size int, rnd *rand.Rand) Trajectory {
	traj := make(Trajectory, size)
	if size == 0 {
		return traj
	}

	lon := bounds.P1.Lon + rnd.Float64()*bounds.Width
	lat := bounds.P1.Lat + rnd.Float64()*bounds.Height
	dLon := distance * math.Cos(angle)
	dLat := distance * math.Sin(angle)

	for i := 0; i < size; i++ {
		traj[i] = NewPoint(lon, lat)

		lon += dLon
		lat += dLat
		if lon < bounds.P1.Lon || lon > bounds.P2.Lon {
			dLon = -dLon
			lon += 2 * dLon
		}
		if lat < bounds.P1.Lat || lat > bounds.P2.Lat {
			dLat = -dLat
			lat += 2 * dLat
		}
	}
	return traj
}
