package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// GridSize is the number of rows and columns on the board.
const GridSize = 4

// ErrEmptyDescriptorList is returned by NewGrid when there is nothing to sample from.
var ErrEmptyDescriptorList = errors.New("image descriptor list is empty")

// ImageDescriptor is one image as returned by the image service.
type ImageDescriptor struct {
	Image string `json:"image"`
	Alt   string `json:"alt"`
}

// Grid is the fixed board of images, indexed [row][col].
type Grid [GridSize][GridSize]ImageDescriptor

// Coord addresses a single cell on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Sampler picks a uniform index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Sampler interface {
	IntN(n int) int
}

type randomSampler struct{}

func (randomSampler) IntN(n int) int { return rand.IntN(n) }

type seededSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *seededSampler) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSampler returns a Sampler safe for concurrent use. A nil seed draws from the
// runtime's random source; a non-nil seed replays the same sequence every run.
func NewSampler(seed *uint64) Sampler {
	if seed == nil {
		return randomSampler{}
	}
	return &seededSampler{rng: rand.New(rand.NewPCG(*seed, *seed))}
}

// NewGrid fills every cell with an independent draw from descriptors.
// The same descriptor may land on any number of cells, including none.
func NewGrid(descriptors []ImageDescriptor, sampler Sampler) (Grid, error) {
	var grid Grid
	if len(descriptors) == 0 {
		return grid, ErrEmptyDescriptorList
	}
	for i := range grid {
		for j := range grid[i] {
			grid[i][j] = descriptors[sampler.IntN(len(descriptors))]
		}
	}
	return grid, nil
}

// At returns the descriptor stored at c. c must be in bounds.
func (g *Grid) At(c Coord) ImageDescriptor {
	return g[c.Row][c.Col]
}
