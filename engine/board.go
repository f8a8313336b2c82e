package engine

import "github.com/zucenko/quoridor/model"

const last = model.WallSize - 1

const (
	Horizontal = model.Horizontal
	Vertical   = model.Vertical
)

// Board holds wall presence and availability counters, indexed
// [orientation][row][col]. A slot accepts a wall iff its counter is 0.
type Board struct {
	Walls     [2][model.WallSize][model.WallSize]bool
	Available [2][model.WallSize][model.WallSize]int
}

func (b *Board) Reset() {
	*b = Board{}
}

// WallAvailable only looks at the counter of the targeted slot, whichever
// wall made it non-zero.
func (b *Board) WallAvailable(a model.Action) bool {
	if !a.Point.OnWallGrid() {
		return false
	}
	return b.Available[a.Orientation()][a.Point.Y][a.Point.X] == 0
}

// PlaceWall marks the slot and bumps every counter the wall invalidates.
// Callers check WallAvailable first.
func (b *Board) PlaceWall(a model.Action) {
	b.Walls[a.Orientation()][a.Point.Y][a.Point.X] = true
	b.touch(a, 1)
}

// RemoveWall undoes PlaceWall. Walls must come off in reverse placement
// order or counters may go negative.
func (b *Board) RemoveWall(a model.Action) {
	b.Walls[a.Orientation()][a.Point.Y][a.Point.X] = false
	b.touch(a, -1)
}

func (b *Board) touch(a model.Action, delta int) {
	x, y := a.Point.X, a.Point.Y
	o := a.Orientation()
	b.Available[Horizontal][y][x] += delta
	b.Available[Vertical][y][x] += delta
	if o == Vertical {
		if y < last {
			b.Available[Vertical][y+1][x] += delta
		}
		if y > 0 {
			b.Available[Vertical][y-1][x] += delta
		}
		return
	}
	if x < last {
		b.Available[Horizontal][y][x+1] += delta
	}
	if x > 0 {
		b.Available[Horizontal][y][x-1] += delta
	}
}

var directions = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// LegalMoves lists the cells the player on active may step to. An adjacent
// opponent can only be jumped straight over; diagonal side-steps are never
// offered, so the result may be empty.
func (b *Board) LegalMoves(active, opponent model.Cell) []model.Cell {
	moves := make([]model.Cell, 0, 4)
	for _, d := range directions {
		next := model.Cell{X: active.X + d[0], Y: active.Y + d[1]}
		if !next.OnBoard() || b.edgeBlocked(active, d) {
			continue
		}
		if next != opponent {
			moves = append(moves, next)
			continue
		}
		jump := model.Cell{X: next.X + d[0], Y: next.Y + d[1]}
		if jump.OnBoard() && !b.edgeBlocked(next, d) {
			moves = append(moves, jump)
		}
	}
	return moves
}

// edgeBlocked reports whether a wall covers the edge crossed when leaving c
// in direction d. Two wall units touch each edge; on the outer rows and
// columns only one of them is on the grid.
func (b *Board) edgeBlocked(c model.Cell, d [2]int) bool {
	if d[0] != 0 {
		col := c.X
		if d[0] < 0 {
			col--
		}
		lo, hi := clamp(c.Y-1), clamp(c.Y)
		return b.Walls[Vertical][lo][col] || b.Walls[Vertical][hi][col]
	}
	row := c.Y
	if d[1] < 0 {
		row--
	}
	lo, hi := clamp(c.X-1), clamp(c.X)
	return b.Walls[Horizontal][row][lo] || b.Walls[Horizontal][row][hi]
}

func clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}
