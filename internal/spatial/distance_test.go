package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Berlin to Potsdam, roughly 26 km.
	d := HaversineDistance(52.5200, 13.4050, 52.3906, 13.0645)
	assert.InDelta(t, 27000, d, 2000)

	// Identical points.
	assert.Equal(t, 0.0, HaversineDistance(48.8566, 2.3522, 48.8566, 2.3522))
}

func TestHaversineDistanceKm(t *testing.T) {
	m := HaversineDistance(52.52, 13.405, 48.8566, 2.3522)
	km := HaversineDistanceKm(52.52, 13.405, 48.8566, 2.3522)
	assert.InDelta(t, m/1000.0, km, 1e-9)
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 10, Lon: 20},
		{Lat: 20, Lon: 40},
	}
	center := Centroid(points)
	assert.Equal(t, Point{Lat: 15, Lon: 30}, center)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestPathLength(t *testing.T) {
	points := []Point{
		{Lat: 52.52, Lon: 13.405},
		{Lat: 52.53, Lon: 13.405},
		{Lat: 52.54, Lon: 13.405},
	}
	total := PathLength(points)
	legA := HaversineDistance(52.52, 13.405, 52.53, 13.405)
	legB := HaversineDistance(52.53, 13.405, 52.54, 13.405)
	assert.InDelta(t, legA+legB, total, 1e-6)

	assert.Equal(t, 0.0, PathLength(points[:1]))
}

func TestCellKeyStable(t *testing.T) {
	// Two points a few meters apart share a coarse cell.
	a := CellKey(52.52000, 13.40500, 13)
	b := CellKey(52.52001, 13.40502, 13)
	assert.Equal(t, a, b)

	// A point kilometers away gets a different cell.
	c := CellKey(52.60, 13.60, 13)
	assert.NotEqual(t, a, c)
}
