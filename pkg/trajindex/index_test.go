package trajindex

import (
	"testing"

	"github.com/module/trajsim/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleRecordQueriesItselfAtZeroDistance(t *testing.T) {
	traj := geo.Trajectory{geo.NewPoint(-117.0, 38.0), geo.NewPoint(-116.9, 38.1)}
	rec := geo.NewRecord("a", traj)

	idx := New(GeohashExtractor(30))
	idx.Add([]geo.Record{rec})

	resp := idx.Query(Query{ID: "q1", Record: rec, Threshold: 0})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a", resp.Results[0].Record.ID)
	assert.Equal(t, 0.0, resp.Results[0].Distance)
}

func TestResponseResultsAreAscendingAndDeduplicated(t *testing.T) {
	idx := New(GeohashExtractor(24))

	records := []geo.Record{
		geo.NewRecord("near", geo.Trajectory{geo.NewPoint(-117.0, 38.0), geo.NewPoint(-116.9, 38.1)}),
		geo.NewRecord("far", geo.Trajectory{geo.NewPoint(10.0, 10.0), geo.NewPoint(10.1, 10.1)}),
		geo.NewRecord("query-ish", geo.Trajectory{geo.NewPoint(-117.0, 38.0), geo.NewPoint(-116.8, 38.2)}),
	}
	idx.Add(records)

	q := Query{ID: "q", Record: records[0], Threshold: 1.0}
	resp := idx.Query(q)

	ids := make(map[string]int)
	for i, r := range resp.Results {
		ids[r.Record.ID]++
		if i > 0 {
			assert.GreaterOrEqual(t, r.Distance, resp.Results[i-1].Distance)
		}
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "Record %s appeared more than once", id)
	}
}

func TestQueryOnlyConsidersRecordsSharingAFingerprint(t *testing.T) {
	idx := New(GeohashExtractor(24))

	shared := geo.NewRecord("shared", geo.Trajectory{geo.NewPoint(-117.0, 38.0)})
	disjoint := geo.NewRecord("disjoint", geo.Trajectory{geo.NewPoint(40.0, 40.0)})
	idx.Add([]geo.Record{shared, disjoint})

	resp := idx.Query(Query{ID: "q", Record: shared, Threshold: 1.0})

	var found bool
	for _, r := range resp.Results {
		if r.Record.ID == "disjoint" {
			found = true
		}
	}
	assert.False(t, found, "a Record with no shared fingerprint must never be considered")
}

func TestGeodabIndexRoundTrip(t *testing.T) {
	traj := make(geo.Trajectory, 12)
	for i := range traj {
		traj[i] = geo.NewPoint(-117.0+float64(i)*0.01, 38.0+float64(i)*0.01)
	}
	rec := geo.NewRecord("r1", traj)

	idx := New(GeodabExtractor(24, 4, 2))
	idx.Add([]geo.Record{rec})

	resp := idx.Query(Query{ID: "q", Record: rec, Threshold: 0})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "r1", resp.Results[0].Record.ID)
}
