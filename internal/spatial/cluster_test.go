package spatial

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jitter(base Point, offsets ...float64) []Point {
	points := make([]Point, 0, len(offsets))
	for _, off := range offsets {
		points = append(points, Point{Lat: base.Lat + off, Lon: base.Lon + off})
	}
	return points
}

func TestClusterMediaBasic(t *testing.T) {
	var points []Point
	// Tight cluster around Berlin.
	points = append(points, jitter(Point{Lat: 52.52, Lon: 13.405}, 0, 0.0002, 0.0004, 0.0006, 0.0008)...)
	// Second cluster ~20 km east.
	points = append(points, jitter(Point{Lat: 52.52, Lon: 13.70}, 0, 0.0002, 0.0004, 0.0006)...)
	// Lone point far south, should stay noise.
	points = append(points, Point{Lat: 51.0, Lon: 13.405})

	result := ClusterMedia(points, 0.5, 2)
	require.Len(t, result.Clusters, 2)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, result.Clusters[0])
	assert.ElementsMatch(t, []int{5, 6, 7, 8}, result.Clusters[1])
	assert.Equal(t, []int{9}, result.Noise)
}

func TestClusterMediaPermutationInvariant(t *testing.T) {
	var points []Point
	points = append(points, jitter(Point{Lat: 46.0, Lon: 7.0}, 0, 0.0003, 0.0006, 0.0009)...)
	points = append(points, jitter(Point{Lat: 46.2, Lon: 7.2}, 0, 0.0003, 0.0006)...)
	points = append(points, Point{Lat: 47.5, Lon: 8.5})

	forward := ClusterMedia(points, 0.3, 2)

	reversed := make([]Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	backward := ClusterMedia(reversed, 0.3, 2)

	// Compare cluster membership by coordinates rather than index position.
	forwardSets := clusterCoordSets(points, forward)
	backwardSets := clusterCoordSets(reversed, backward)
	assert.ElementsMatch(t, forwardSets, backwardSets)
	assert.Equal(t, len(forward.Noise), len(backward.Noise))
}

func clusterCoordSets(points []Point, result ClusterResult) []map[string]bool {
	var sets []map[string]bool
	for _, cluster := range result.Clusters {
		set := make(map[string]bool)
		for _, idx := range cluster {
			set[fmt.Sprintf("%.6f:%.6f", points[idx].Lat, points[idx].Lon)] = true
		}
		sets = append(sets, set)
	}
	return sets
}

func TestClusterMediaDegenerateInputs(t *testing.T) {
	result := ClusterMedia(nil, 0.5, 2)
	assert.Empty(t, result.Clusters)
	assert.Empty(t, result.Noise)

	points := []Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	result = ClusterMedia(points, 0, 2)
	assert.Empty(t, result.Clusters)
	assert.Equal(t, []int{0, 1}, result.Noise)

	// Too few neighbors for any core point.
	result = ClusterMedia(points, 0.5, 3)
	assert.Empty(t, result.Clusters)
	assert.Len(t, result.Noise, 2)
}
