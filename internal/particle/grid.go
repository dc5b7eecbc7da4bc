package particle

import "math"

// Grid buckets particle indices into square cells of the connect distance so
// each particle only checks the 3x3 block around its own cell.
type Grid struct {
	cellSize float64
	cells    map[[2]int][]int
}

// NewGrid returns a grid with the given cell size.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[[2]int][]int),
	}
}

func (g *Grid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.cellSize)), int(math.Floor(y / g.cellSize))}
}

// Build clears the grid and inserts every particle. Buckets occupied in
// consecutive builds keep their slices; buckets left empty are dropped.
func (g *Grid) Build(ps []Particle) {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	for i := range ps {
		k := g.key(ps[i].X, ps[i].Y)
		g.cells[k] = append(g.cells[k], i)
	}
	for k, v := range g.cells {
		if len(v) == 0 {
			delete(g.cells, k)
		}
	}
}

// Cells returns the number of occupied buckets.
func (g *Grid) Cells() int {
	return len(g.cells)
}

// ForNeighbors calls fn with the index of every particle in the cells around
// (x, y), including the particle's own cell.
func (g *Grid) ForNeighbors(x, y float64, fn func(j int)) {
	k := g.key(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.cells[[2]int{k[0] + dx, k[1] + dy}] {
				fn(j)
			}
		}
	}
}
