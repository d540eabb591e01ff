package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNew_SortsAndDropsNonFinite(t *testing.T) {
	s := New([]Point{
		{Time: day(2), Value: 3},
		{Time: day(0), Value: 1},
		{Time: day(1), Value: math.NaN()},
		{Time: day(3), Value: math.Inf(1)},
	})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{1, 3}, s.Values())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, day(2), last.Time)
}

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.True(t, s.IsEmpty())

	_, ok := s.Last()
	assert.False(t, ok)
	assert.Empty(t, s.Values())
}

func TestInnerJoin(t *testing.T) {
	a := New([]Point{
		{Time: day(0), Value: 100},
		{Time: day(1), Value: 101},
		{Time: day(2), Value: 102},
	})
	b := New([]Point{
		{Time: day(1), Value: 50},
		{Time: day(2), Value: 51},
		{Time: day(3), Value: 52},
	})

	ja, jb := InnerJoin(a, b)
	require.Equal(t, 2, ja.Len())
	require.Equal(t, 2, jb.Len())
	assert.Equal(t, []float64{101, 102}, ja.Values())
	assert.Equal(t, []float64{50, 51}, jb.Values())
	assert.Equal(t, ja.At(0).Time, jb.At(0).Time)
}

func TestInnerJoin_NoOverlap(t *testing.T) {
	a := New([]Point{{Time: day(0), Value: 1}})
	b := New([]Point{{Time: day(5), Value: 2}})

	ja, jb := InnerJoin(a, b)
	assert.True(t, ja.IsEmpty())
	assert.True(t, jb.IsEmpty())
}
