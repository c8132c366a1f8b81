package spatial

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// ClusterResult partitions the input points into density clusters and noise.
// Slices hold indices into the input slice. The partition is invariant under
// permutation of the input order; callers must compare by membership, not by
// cluster position.
type ClusterResult struct {
	Clusters [][]int
	Noise    []int
}

type rtreeItem struct {
	rect  rtreego.Rect
	index int
}

func (item rtreeItem) Bounds() rtreego.Rect {
	return item.rect
}

// ClusterMedia runs density-based clustering (DBSCAN) over GPS points.
// A point is a core point when at least minSamples other points lie within
// epsKm of it; clusters grow by transitive core reachability. Non-core points
// within reach of a core point join the cluster of their nearest core
// neighbor, everything else is noise.
func ClusterMedia(points []Point, epsKm float64, minSamples int) ClusterResult {
	if len(points) == 0 || epsKm <= 0 || minSamples < 1 {
		result := ClusterResult{}
		for i := range points {
			result.Noise = append(result.Noise, i)
		}
		return result
	}

	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range points {
		rect := rtreego.Point{p.Lat, p.Lon}.ToRect(degreeTolerance(p.Lat, epsKm))
		tree.Insert(rtreeItem{rect: rect, index: i})
	}

	epsMeters := epsKm * 1000.0
	neighbors := make([][]int, len(points))
	core := make([]bool, len(points))
	for i, p := range points {
		neighbors[i] = regionQuery(points, tree, p, epsKm, epsMeters)
		others := 0
		for _, j := range neighbors[i] {
			if j != i {
				others++
			}
		}
		core[i] = others >= minSamples
	}

	// Union core points reachable from each other.
	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for i := range points {
		if !core[i] {
			continue
		}
		for _, j := range neighbors[i] {
			if j != i && core[j] {
				union(i, j)
			}
		}
	}

	// Attach border points to the cluster of their nearest core neighbor.
	// The nearest-neighbor rule keeps the assignment order-independent.
	assigned := make(map[int]int) // point index -> core root
	for i := range points {
		if core[i] {
			assigned[i] = find(i)
			continue
		}
		best := -1
		bestDist := math.MaxFloat64
		for _, j := range neighbors[i] {
			if j == i || !core[j] {
				continue
			}
			d := HaversineDistance(points[i].Lat, points[i].Lon, points[j].Lat, points[j].Lon)
			if d < bestDist || (d == bestDist && best >= 0 && lessPoint(points[j], points[best])) {
				bestDist = d
				best = j
			}
		}
		if best >= 0 {
			assigned[i] = find(best)
		}
	}

	groups := make(map[int][]int)
	var result ClusterResult
	for i := range points {
		root, ok := assigned[i]
		if !ok {
			result.Noise = append(result.Noise, i)
			continue
		}
		groups[root] = append(groups[root], i)
	}

	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)
	for _, root := range roots {
		members := groups[root]
		sort.Ints(members)
		result.Clusters = append(result.Clusters, members)
	}
	return result
}

// regionQuery returns the indices of all points within epsKm of p, including
// p itself when present in the index.
func regionQuery(points []Point, tree *rtreego.Rtree, p Point, epsKm, epsMeters float64) []int {
	rect := rtreego.Point{p.Lat, p.Lon}.ToRect(degreeTolerance(p.Lat, epsKm))
	candidates := tree.SearchIntersect(rect)

	var found []int
	for _, obj := range candidates {
		item := obj.(rtreeItem)
		q := points[item.index]
		if HaversineDistance(p.Lat, p.Lon, q.Lat, q.Lon) <= epsMeters {
			found = append(found, item.index)
		}
	}
	sort.Ints(found)
	return found
}

// degreeTolerance converts a kilometer radius into a conservative degree
// tolerance for the R-tree rectangle query at the given latitude.
func degreeTolerance(lat, epsKm float64) float64 {
	latDeg := epsKm / 110.574
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDeg := epsKm / (111.320 * cosLat)
	return math.Max(latDeg, lonDeg)
}

func lessPoint(a, b Point) bool {
	if a.Lat != b.Lat {
		return a.Lat < b.Lat
	}
	return a.Lon < b.Lon
}
