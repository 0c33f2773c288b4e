// Package geo provides the value types the rest of the engine is built on:
// points on the WGS-84 sphere, axis-aligned bounding boxes, ordered
// trajectories of points, and the haversine great-circle distance between
// two points.
package geo

import "math"

// earthRadiusMeters is the mean radius of the earth used by the haversine
// formula. All distances returned by this package are in metres.
const earthRadiusMeters = 6371000.0

// Point is an immutable (lon, lat) pair in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint returns a Point for the given longitude and latitude in degrees.
func NewPoint(lon, lat float64) Point {
	return Point{Lon: lon, Lat: lat}
}

// Equal reports whether p and q are bitwise identical in both fields.
func (p Point) Equal(q Point) bool {
	return p.Lon == q.Lon && p.Lat == q.Lat
}

// BBox is an axis-aligned bounding box [P1, P2] with P1.Lon <= P2.Lon and
// P1.Lat <= P2.Lat. Width and height are cached at construction time.
type BBox struct {
	P1, P2       Point
	Width, Height float64
}

// NewBBox builds a BBox from two corner points, normalising their order so
// the invariant p1.Lon <= p2.Lon && p1.Lat <= p2.Lat always holds.
func NewBBox(a, b Point) BBox {
	p1 := Point{Lon: math.Min(a.Lon, b.Lon), Lat: math.Min(a.Lat, b.Lat)}
	p2 := Point{Lon: math.Max(a.Lon, b.Lon), Lat: math.Max(a.Lat, b.Lat)}
	return BBox{
		P1:     p1,
		P2:     p2,
		Width:  p2.Lon - p1.Lon,
		Height: p2.Lat - p1.Lat,
	}
}

// Contains reports whether p lies within the box, inclusive on both bounds.
func (b BBox) Contains(p Point) bool {
	return b.P1.Lon <= p.Lon && p.Lon <= b.P2.Lon &&
		b.P1.Lat <= p.Lat && p.Lat <= b.P2.Lat
}

// Overlaps reports whether the two axis-aligned rectangles intersect,
// inclusive of shared edges and corners.
func (b BBox) Overlaps(o BBox) bool {
	return b.P1.Lon <= o.P2.Lon && o.P1.Lon <= b.P2.Lon &&
		b.P1.Lat <= o.P2.Lat && o.P1.Lat <= b.P2.Lat
}

// Trajectory is an ordered, non-empty sequence of points. Order is
// semantic: callers must not re-sort or de-duplicate beyond what
// normalisation (see package trajindex) already performs.
type Trajectory []Point

// Len returns the number of points in the trajectory.
func (t Trajectory) Len() int { return len(t) }

// Slice returns the closed-open subtrajectory t[i:j]. The caller is
// responsible for ensuring 0 <= i <= j <= len(t).
func (t Trajectory) Slice(i, j int) Trajectory {
	return t[i:j]
}

// Record binds an opaque identifier to the Trajectory it owns. Two
// Records are equal iff their identifiers are equal; the identifier is
// the hashing and equality key.
type Record struct {
	ID         string
	Trajectory Trajectory
}

// NewRecord returns a Record owning traj under identifier id.
func NewRecord(id string, traj Trajectory) Record {
	return Record{ID: id, Trajectory: traj}
}

// Equal reports whether two records carry the same identifier.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID
}

// Distance returns the haversine great-circle distance between p1 and p2,
// in metres. a = sin^2(dphi/2) + cos(phi1)*cos(phi2)*sin^2(dlambda/2);
// the result is 2*R*asin(min(1, sqrt(a))). The min(1, ...) clamp guards
// against values fractionally above 1 that can arise from floating point
// rounding when p1 and p2 are antipodal or nearly so.
func Distance(p1, p2 Point) float64 {
	phi1 := toRadians(p1.Lat)
	phi2 := toRadians(p2.Lat)
	dPhi := toRadians(p2.Lat - p1.Lat)
	dLambda := toRadians(p2.Lon - p1.Lon)

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	a := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))

	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
