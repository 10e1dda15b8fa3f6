package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSampler returns its values in order, wrapping around.
type sequenceSampler struct {
	values []int
	next   int
}

func (s *sequenceSampler) IntN(n int) int {
	v := s.values[s.next%len(s.values)] % n
	s.next++
	return v
}

func TestNewGridFillsEveryCellFromDescriptors(t *testing.T) {
	descriptors := []ImageDescriptor{
		{Image: "/img/apple.png", Alt: "apple"},
		{Image: "/img/banana.png", Alt: "banana"},
		{Image: "/img/cherry.png", Alt: "cherry"},
	}

	grid, err := NewGrid(descriptors, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	cells := 0
	for _, row := range grid {
		for _, cell := range row {
			assert.Contains(t, descriptors, cell)
			cells++
		}
	}
	assert.Equal(t, GridSize*GridSize, cells)
}

func TestNewGridIsDeterministicForSameSeed(t *testing.T) {
	descriptors := []ImageDescriptor{{Alt: "apple"}, {Alt: "banana"}, {Alt: "kiwi"}, {Alt: "plum"}}

	a, err := NewGrid(descriptors, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	b, err := NewGrid(descriptors, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNewGridDrawsIndependentlyPerCell(t *testing.T) {
	descriptors := []ImageDescriptor{{Alt: "apple"}, {Alt: "banana"}}
	sampler := &sequenceSampler{values: []int{0, 1}}

	grid, err := NewGrid(descriptors, sampler)
	require.NoError(t, err)

	assert.Equal(t, GridSize*GridSize, sampler.next)
	assert.Equal(t, "apple", grid[0][0].Alt)
	assert.Equal(t, "banana", grid[0][1].Alt)
	assert.Equal(t, "apple", grid[3][2].Alt)
	assert.Equal(t, "banana", grid[3][3].Alt)
}

func TestNewGridSingleDescriptorRepeats(t *testing.T) {
	only := ImageDescriptor{Image: "/img/apple.png", Alt: "Apple"}

	grid, err := NewGrid([]ImageDescriptor{only}, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	for _, row := range grid {
		for _, cell := range row {
			assert.Equal(t, only, cell)
		}
	}
}

func TestNewGridRejectsEmptyList(t *testing.T) {
	sampler := &sequenceSampler{values: []int{0}}

	_, err := NewGrid(nil, sampler)
	require.ErrorIs(t, err, ErrEmptyDescriptorList)

	_, err = NewGrid([]ImageDescriptor{}, sampler)
	require.ErrorIs(t, err, ErrEmptyDescriptorList)
	assert.Zero(t, sampler.next, "sampler must not be consulted for an empty list")
}

func TestNewSamplerSeeded(t *testing.T) {
	seed := uint64(99)
	descriptors := []ImageDescriptor{{Alt: "apple"}, {Alt: "banana"}, {Alt: "kiwi"}}

	a, err := NewGrid(descriptors, NewSampler(&seed))
	require.NoError(t, err)
	b, err := NewGrid(descriptors, NewSampler(&seed))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	unseeded := NewSampler(nil)
	for i := 0; i < 100; i++ {
		v := unseeded.IntN(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
}

func TestCoordInBounds(t *testing.T) {
	assert.True(t, Coord{Row: 0, Col: 0}.InBounds())
	assert.True(t, Coord{Row: 3, Col: 3}.InBounds())
	assert.False(t, Coord{Row: -1, Col: 0}.InBounds())
	assert.False(t, Coord{Row: 0, Col: 4}.InBounds())
	assert.False(t, Coord{Row: 4, Col: 4}.InBounds())
}
