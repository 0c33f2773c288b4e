package quadtree

import (
	"math/rand"
	"testing"

	"github.com/module/trajsim/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worldBox() geo.BBox {
	return geo.NewBBox(geo.NewPoint(-180, -90), geo.NewPoint(180, 90))
}

func TestInsertOutsideBoxDiscarded(t *testing.T) {
	tree := New(worldBox(), 4)
	tree.Insert(Item{Point: geo.NewPoint(200, 0), Payload: "nope"})
	found := tree.Search(worldBox())
	assert.Empty(t, found)
}

func TestSearchFindsInsertedPoints(t *testing.T) {
	tree := New(worldBox(), 2)
	pts := []geo.Point{
		geo.NewPoint(1, 1),
		geo.NewPoint(-1, -1),
		geo.NewPoint(50, 50),
		geo.NewPoint(-50, -50),
		geo.NewPoint(100, -45),
	}
	for i, p := range pts {
		tree.Insert(Item{Point: p, Payload: i})
	}

	found := tree.Search(worldBox())
	assert.Len(t, found, len(pts))
}

func TestSearchBoundingBoxIsExclusiveOfOutsidePoints(t *testing.T) {
	tree := New(worldBox(), 2)
	tree.Insert(Item{Point: geo.NewPoint(0, 0)})
	tree.Insert(Item{Point: geo.NewPoint(90, 45)})
	tree.Insert(Item{Point: geo.NewPoint(-90, -45)})

	found := tree.Search(geo.NewBBox(geo.NewPoint(-1, -1), geo.NewPoint(1, 1)))
	require.Len(t, found, 1)
	assert.Equal(t, geo.NewPoint(0, 0), found[0].Point)
}

func TestRadiusSearch(t *testing.T) {
	tree := New(worldBox(), 2)
	center := geo.NewPoint(0, 0)
	near := geo.NewPoint(0.001, 0.001)
	far := geo.NewPoint(50, 50)

	tree.Insert(Item{Point: center})
	tree.Insert(Item{Point: near})
	tree.Insert(Item{Point: far})

	extent := geo.NewBBox(geo.NewPoint(-1, -1), geo.NewPoint(1, 1))
	found := tree.SearchRadius(center, 1000, extent)

	assert.Len(t, found, 2)
}

func TestSplitTilesWithoutOverlap(t *testing.T) {
	tree := New(worldBox(), 1)
	r := rand.New(rand.NewSource(7))
	total := 500
	for i := 0; i < total; i++ {
		lon := r.Float64()*360 - 180
		lat := r.Float64()*180 - 90
		tree.Insert(Item{Point: geo.NewPoint(lon, lat), Payload: i})
	}

	found := tree.Search(worldBox())
	assert.Len(t, found, total)
}
