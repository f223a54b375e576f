package indexing

import "sort"

const (
	// MaxTrendingInstances is the number of documents which can be trending
	MaxTrendingInstances = 5
	// MinTrendingViews is the lowest threshold a document can be trending with
	MinTrendingViews = 10
)

// TrendThreshold derives the trending threshold from the view counts of the
// most viewed documents, sorted descending. One more count than
// MaxTrendingInstances is expected to tell a tie at the limit apart. Zero
// means no document is trending.
func TrendThreshold(views []int) int {
	if len(views) == 0 {
		return 0
	}
	if len(views) == MaxTrendingInstances+1 && views[MaxTrendingInstances] == views[MaxTrendingInstances-1] {
		views = views[:MaxTrendingInstances]
	}
	distinct := make([]int, 0, len(views))
	seen := make(map[int]struct{}, len(views))
	for _, v := range views {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	if len(distinct) < 2 {
		return 0
	}
	sort.Ints(distinct)
	if threshold := distinct[1]; threshold >= MinTrendingViews {
		return threshold
	}
	return MinTrendingViews
}
