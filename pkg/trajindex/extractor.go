// Package trajindex is a generic inverted-index engine over trajectory
// fingerprint sets: a postings map from fingerprint to Record, a
// per-Record fingerprint bitmap, and a Jaccard-distance query loop. The
// Geohash-based and Geodab k-gram/winnowing indices this engine backs
// differ only in how they turn a Trajectory into a fingerprint Set — that
// difference is captured entirely in the Extractor passed to New.
package trajindex

import (
	"encoding/binary"
	"math"

	"github.com/module/trajsim/pkg/bitset"
	"github.com/module/trajsim/pkg/geo"
	"github.com/module/trajsim/pkg/geohash"
	"github.com/twmb/murmur3"
)

// Extractor turns a trajectory into the fingerprint set that represents it
// in the index. GeohashExtractor and GeodabExtractor are the two
// extractors this package ships; either can be passed to New.
type Extractor func(geo.Trajectory) *bitset.Set

// geohashMask keeps only the low 28 bits of a geohash payload before it
// enters the fingerprint set, discarding the top bits of the 61-bit
// payload so that keys stay within the dense part of the bitmap's value
// space. The mask width is part of the index's on-disk compatibility
// contract and must not change.
const geohashMask = 0x0FFFFFFF

// GeohashExtractor returns the trivial fingerprint extractor: the
// fingerprint set of a trajectory is the set of its points' geohashes at
// the given precision, masked to 28 bits.
func GeohashExtractor(bits int) Extractor {
	return func(traj geo.Trajectory) *bitset.Set {
		s := bitset.New()
		for _, p := range traj {
			h := geohash.Encode(p.Lat, p.Lon, bits)
			s.Add(uint32(h) & geohashMask)
		}
		return s
	}
}

// GeodabExtractor returns a k-gram/winnowing fingerprint extractor: points
// are snapped to geohash-cell centres and run-length compressed, then
// fingerprinted over sliding windows of k points, then winnowed over
// windows of t-k+1 fingerprints. bits is the normalisation precision, t is
// the winnow window length in points, k is the k-gram length; t must be
// >= k.
func GeodabExtractor(bits, t, k int) Extractor {
	w := t - k + 1
	return func(traj geo.Trajectory) *bitset.Set {
		normalized := normalize(traj, bits)
		fingerprints := kgramFingerprints(normalized, k)
		selected := winnow(fingerprints, w)
		return bitset.FromSlice(selected)
	}
}

// normalize snaps every point to the centre of its geohash cell at the
// given precision, then run-length compresses consecutive duplicates
// (keeping the first of each run). It is idempotent: normalizing an
// already-normalized trajectory at the same precision returns it unchanged.
func normalize(traj geo.Trajectory, bits int) geo.Trajectory {
	if len(traj) == 0 {
		return nil
	}

	out := make(geo.Trajectory, 0, len(traj))
	var last geo.Point
	for i, p := range traj {
		d := geohash.Decode(geohash.Encode(p.Lat, p.Lon, bits))
		snapped := geo.NewPoint(d.Lng, d.Lat)
		if i == 0 || !snapped.Equal(last) {
			out = append(out, snapped)
			last = snapped
		}
	}
	return out
}

// kgramFingerprints slides a window of k points over traj and returns one
// 32-bit fingerprint per window: the high 16 bits are the low 16 bits of
// the geohash of the window's mean point at precision 16, the low 16 bits
// are the low 16 bits of a Murmur3-32 hash over the window's raw point
// bytes in order.
func kgramFingerprints(traj geo.Trajectory, k int) []uint32 {
	n := len(traj)
	if n < k {
		return nil
	}

	out := make([]uint32, 0, n-k+1)
	buf := make([]byte, 16*k)
	for i := 0; i+k <= n; i++ {
		window := traj[i : i+k]

		var sumLat, sumLon float64
		for wi, p := range window {
			sumLon += p.Lon
			sumLat += p.Lat
			binary.BigEndian.PutUint64(buf[wi*16:wi*16+8], math.Float64bits(p.Lon))
			binary.BigEndian.PutUint64(buf[wi*16+8:wi*16+16], math.Float64bits(p.Lat))
		}

		meanLat := sumLat / float64(k)
		meanLon := sumLon / float64(k)

		h := geohash.Encode(meanLat, meanLon, 16)
		h16 := uint32(h) & 0xffff
		m16 := murmur3.Sum32(buf) & 0xffff

		out = append(out, (h16<<16)|m16)
	}
	return out
}

// winnow selects, from every sliding window of w consecutive fingerprints,
// the leftmost minimum, and emits it only when it differs from the
// previously emitted position — the standard winnowing algorithm. A
// trajectory shorter than w produces at most one selected fingerprint (the
// global minimum).
func winnow(fingerprints []uint32, w int) []uint32 {
	if len(fingerprints) == 0 {
		return nil
	}
	if w <= 0 || w > len(fingerprints) {
		w = len(fingerprints)
	}

	var selected []uint32
	lastPos := -1
	for i := 0; i+w <= len(fingerprints); i++ {
		minPos := i
		for j := i + 1; j < i+w; j++ {
			if fingerprints[j] < fingerprints[minPos] {
				minPos = j
			}
		}
		if minPos != lastPos {
			selected = append(selected, fingerprints[minPos])
			lastPos = minPos
		}
	}
	return selected
}
