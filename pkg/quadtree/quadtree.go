// Package quadtree implements a static, single-writer point index over a
// known-in-advance bounding box, supporting bounding-box and radius queries
// once ingest has sealed the tree. It mirrors the bucket-then-split
// approach used elsewhere in this module's ambient style: buffer points in
// a leaf up to a capacity, then split on overflow.
package quadtree

import (
	"math"

	"github.com/module/trajsim/pkg/geo"
)

// Item is anything the tree can index: a point plus an opaque payload.
type Item struct {
	Point   geo.Point
	Payload any
}

// DefaultCapacity is the number of pending entries a leaf buffers before it
// splits into four children.
const DefaultCapacity = 8

// Node is one quadtree node: a box, a pending-insertion buffer (while still
// a leaf), and four children (once split).
type Node struct {
	box      geo.BBox
	capacity int

	items  []Item
	seen   map[geo.Point]struct{}

	nw, ne, sw, se *Node
	leaf           bool
}

// New returns the root node of a quadtree covering box, bucketing up to
// capacity items per leaf before splitting.
func New(box geo.BBox, capacity int) *Node {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Node{
		box:      box,
		capacity: capacity,
		seen:     make(map[geo.Point]struct{}),
		leaf:     true,
	}
}

// Insert adds item to the tree. Points outside the root's box are silently
// discarded, matching the teacher's "if point lies outside the node's box,
// discard" bucket semantics.
func (n *Node) Insert(item Item) {
	if !n.box.Contains(item.Point) {
		return
	}
	n.insert(item)
}

func (n *Node) insert(item Item) {
	if !n.leaf {
		n.child(item.Point).insert(item)
		return
	}

	if _, dup := n.seen[item.Point]; dup {
		// Identical points would never separate under further splitting,
		// so duplicates are suppressed on the bucket's hot path rather
		// than risk an unbounded split recursion.
		return
	}

	if len(n.items) < n.capacity {
		n.items = append(n.items, item)
		n.seen[item.Point] = struct{}{}
		return
	}

	n.split()
	n.child(item.Point).insert(item)
}

// split partitions the node's box into four quadrants that exactly tile the
// parent with no shared edges, then rebuckets every pending item into the
// new children.
//
// The NW/SW children use the midpoint as their upper bound; NE/SE use
// math.Nextafter(midpoint, +Inf) as their lower bound. Because BBox.Contains
// is inclusive on both ends, a bare midpoint shared between neighbouring
// boxes would let a point on the boundary land in two children at once;
// nudging the lower bound to the next representable float keeps the four
// quadrants disjoint. The latitude axis is split the same way: SW/SE end at
// the midpoint and NW/NE start at the next representable float above it.
func (n *Node) split() {
	midLon := (n.box.P1.Lon + n.box.P2.Lon) / 2
	midLat := (n.box.P1.Lat + n.box.P2.Lat) / 2
	nextLon := math.Nextafter(midLon, math.Inf(1))
	nextLat := math.Nextafter(midLat, math.Inf(1))

	n.nw = New(geo.NewBBox(geo.NewPoint(n.box.P1.Lon, nextLat), geo.NewPoint(midLon, n.box.P2.Lat)), n.capacity)
	n.ne = New(geo.NewBBox(geo.NewPoint(nextLon, nextLat), geo.NewPoint(n.box.P2.Lon, n.box.P2.Lat)), n.capacity)
	n.sw = New(geo.NewBBox(geo.NewPoint(n.box.P1.Lon, n.box.P1.Lat), geo.NewPoint(midLon, midLat)), n.capacity)
	n.se = New(geo.NewBBox(geo.NewPoint(nextLon, n.box.P1.Lat), geo.NewPoint(n.box.P2.Lon, midLat)), n.capacity)

	pending := n.items
	n.items = nil
	n.seen = nil
	n.leaf = false

	for _, it := range pending {
		n.child(it.Point).insert(it)
	}
}

func (n *Node) child(p geo.Point) *Node {
	midLon := (n.box.P1.Lon + n.box.P2.Lon) / 2
	midLat := (n.box.P1.Lat + n.box.P2.Lat) / 2
	nextLon := math.Nextafter(midLon, math.Inf(1))
	nextLat := math.Nextafter(midLat, math.Inf(1))

	north := p.Lat >= nextLat
	east := p.Lon >= nextLon

	switch {
	case north && !east:
		return n.nw
	case north && east:
		return n.ne
	case !north && !east:
		return n.sw
	default:
		return n.se
	}
}

// Search returns every indexed item whose point lies within box.
func (n *Node) Search(box geo.BBox) []Item {
	var out []Item
	n.search(box, &out)
	return out
}

func (n *Node) search(box geo.BBox, out *[]Item) {
	if !n.box.Overlaps(box) {
		return
	}
	if n.leaf {
		for _, it := range n.items {
			if box.Contains(it.Point) {
				*out = append(*out, it)
			}
		}
		return
	}
	n.nw.search(box, out)
	n.ne.search(box, out)
	n.sw.search(box, out)
	n.se.search(box, out)
}

// SearchRadius returns every indexed item within r metres (haversine) of
// center. extent is a pre-computed degree-extent bounding box around
// center, used to prune the recursion before falling back to the exact
// haversine check at the leaves.
func (n *Node) SearchRadius(center geo.Point, r float64, extent geo.BBox) []Item {
	var out []Item
	n.searchRadius(center, r, extent, &out)
	return out
}

func (n *Node) searchRadius(center geo.Point, r float64, extent geo.BBox, out *[]Item) {
	if !n.box.Overlaps(extent) {
		return
	}
	if n.leaf {
		for _, it := range n.items {
			if extent.Contains(it.Point) && geo.Distance(center, it.Point) <= r {
				*out = append(*out, it)
			}
		}
		return
	}
	n.nw.searchRadius(center, r, extent, out)
	n.ne.searchRadius(center, r, extent, out)
	n.sw.searchRadius(center, r, extent, out)
	n.se.searchRadius(center, r, extent, out)
}
