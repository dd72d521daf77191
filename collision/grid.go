package collision

import (
	"math"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

const DefaultCellSize = 64.0

type cellKey struct {
	x, y int
}

// Grid is a spatial hash broad-phase. Every collision box is bucketed into
// each cell it touches; actors sharing a cell are tested against each other.
// Cells are keyed sparsely so actors outside the tile area still collide.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]int
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) cell(v float64) int {
	return int(math.Floor(v / g.cellSize))
}

// Contacts returns every pair of collidable actors whose boxes overlap,
// sorted by ID.
func (g *Grid) Contacts(actors []*actor.Actor) []Pair {
	clear(g.cells)

	boxes := make([]common.Rect, len(actors))
	for i, a := range actors {
		if a == nil || !a.Collidable() {
			continue
		}
		box := a.CollisionBox()
		if box.Empty() {
			continue
		}
		boxes[i] = box
		x0, y0 := g.cell(box.X), g.cell(box.Y)
		x1, y1 := g.cell(box.Right()), g.cell(box.Bottom())
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				k := cellKey{x: cx, y: cy}
				g.cells[k] = append(g.cells[k], i)
			}
		}
	}

	seen := make(map[[2]int]struct{})
	var pairs []Pair
	for _, bucket := range g.cells {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				ia, ib := bucket[i], bucket[j]
				if ia > ib {
					ia, ib = ib, ia
				}
				k := [2]int{ia, ib}
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				if !boxes[ia].Intersects(boxes[ib]) {
					continue
				}
				pairs = append(pairs, NewPair(actors[ia], actors[ib]))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}

// BruteForce tests every pair. It is the reference the grid is checked
// against and is fine for maps with a handful of actors.
type BruteForce struct{}

func (BruteForce) Contacts(actors []*actor.Actor) []Pair {
	var pairs []Pair
	for i := 0; i < len(actors); i++ {
		a := actors[i]
		if a == nil || !a.Collidable() {
			continue
		}
		for j := i + 1; j < len(actors); j++ {
			b := actors[j]
			if b == nil || !b.Collidable() {
				continue
			}
			if a.CollisionBox().Intersects(b.CollisionBox()) {
				pairs = append(pairs, NewPair(a, b))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}
