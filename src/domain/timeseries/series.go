// Package timeseries holds the date-indexed price series the providers
// produce and the feature math consumes.
package timeseries

import (
	"math"
	"sort"
	"time"
)

// Point is one observation in a daily series.
type Point struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// Series is an ascending date-indexed sequence of finite values. An absent
// instrument is represented by the empty series, not by an error.
type Series struct {
	points []Point
}

// New builds a series from points: non-finite values are dropped and the
// remainder sorted by time ascending.
func New(points []Point) Series {
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Time.Before(kept[j].Time) })
	return Series{points: kept}
}

// Empty is the all-absent series.
func Empty() Series {
	return Series{}
}

func (s Series) Len() int {
	return len(s.points)
}

func (s Series) IsEmpty() bool {
	return len(s.points) == 0
}

// At returns the i-th observation.
func (s Series) At(i int) Point {
	return s.points[i]
}

// Last returns the latest observation; ok is false for an empty series.
func (s Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// Values returns the observations in time order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Points returns a copy of the underlying observations.
func (s Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// InnerJoin aligns two series on matching timestamps and returns the joined
// pair, both restricted to the shared dates.
func InnerJoin(a, b Series) (Series, Series) {
	byTime := make(map[time.Time]float64, b.Len())
	for _, p := range b.points {
		byTime[p.Time] = p.Value
	}

	var ja, jb []Point
	for _, p := range a.points {
		if v, ok := byTime[p.Time]; ok {
			ja = append(ja, p)
			jb = append(jb, Point{Time: p.Time, Value: v})
		}
	}
	return Series{points: ja}, Series{points: jb}
}
