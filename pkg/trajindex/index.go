package trajindex

import (
	"sort"

	"github.com/module/trajsim/pkg/bitset"
	"github.com/module/trajsim/pkg/geo"
)

// Query pairs a Record to search near with the maximum Jaccard distance a
// corpus Record may have to qualify as a match. ID identifies the query
// itself (carried through to Response) independently of the
// Record's own identifier, since a query is not necessarily a lookup for
// its own Record.
type Query struct {
	ID        string
	Record    geo.Record
	Threshold float64
}

// Result is one corpus Record that matched a Query, with its Jaccard
// distance from the query's fingerprint set.
type Result struct {
	Record   geo.Record
	Distance float64
}

// Response is every Result for a Query, sorted by ascending Distance.
type Response struct {
	Query   Query
	Results []Result
}

// Index is an inverted index over Record fingerprints: a postings map from
// fingerprint to the Records that contain it, plus each Record's own
// fingerprint set for Jaccard scoring. A Geohash-based index and a Geodab
// k-gram/winnowing index are both just this engine, differing only in the
// Extractor passed to New.
//
// An Index is single-writer, multi-reader: Add must complete in full
// before any Query begins, matching the sealed-index contract the rest of
// the engine assumes. Once ingest is done, Query is safe to call
// concurrently from any number of readers.
type Index struct {
	extract  Extractor
	postings map[uint32]map[string]struct{}
	sets     map[string]*bitset.Set
	records  map[string]geo.Record
}

// New returns an empty Index that fingerprints trajectories with extract.
func New(extract Extractor) *Index {
	return &Index{
		extract:  extract,
		postings: make(map[uint32]map[string]struct{}),
		sets:     make(map[string]*bitset.Set),
		records:  make(map[string]geo.Record),
	}
}

// Add ingests records: each Record's fingerprint set is computed once and
// every fingerprint in it gets an entry in the postings map pointing back
// to the Record's identifier. Re-adding a Record under an identifier
// already present overwrites its prior bitmap and postings entries; since
// a Record's fingerprint set is a pure function of its trajectory, this is
// only observable if the same identifier is reused for a different
// trajectory.
func (idx *Index) Add(records []geo.Record) {
	for _, r := range records {
		if old, ok := idx.sets[r.ID]; ok {
			oit := old.Iterator()
			for oit.HasNext() {
				f := oit.Next()
				delete(idx.postings[f], r.ID)
				if len(idx.postings[f]) == 0 {
					delete(idx.postings, f)
				}
			}
		}
		set := idx.extract(r.Trajectory)
		idx.sets[r.ID] = set
		idx.records[r.ID] = r

		it := set.Iterator()
		for it.HasNext() {
			f := it.Next()
			bucket, ok := idx.postings[f]
			if !ok {
				bucket = make(map[string]struct{})
				idx.postings[f] = bucket
			}
			bucket[r.ID] = struct{}{}
		}
	}
}

// Query runs q against the sealed index: fingerprint q.Record's trajectory,
// union the postings of every fingerprint into a deduplicated candidate
// set, score each candidate by Jaccard distance against q's fingerprint
// set, keep those at or under q.Threshold, and sort the survivors by
// ascending distance (ties broken by Record identifier, for a
// deterministic order across calls).
func (idx *Index) Query(q Query) Response {
	qset := idx.extract(q.Record.Trajectory)

	candidates := make(map[string]struct{})
	it := qset.Iterator()
	for it.HasNext() {
		f := it.Next()
		for id := range idx.postings[f] {
			candidates[id] = struct{}{}
		}
	}

	results := make([]Result, 0, len(candidates))
	for id := range candidates {
		d := bitset.Jaccard(qset, idx.sets[id])
		if d <= q.Threshold {
			results = append(results, Result{Record: idx.records[id], Distance: d})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Record.ID < results[j].Record.ID
	})

	return Response{Query: q, Results: results}
}
