package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/quoridor/model"
)

func cell(x, y int) model.Cell { return model.Cell{X: x, Y: y} }

func hwall(x, y int) model.Action { return model.WallAt(cell(x, y), false) }
func vwall(x, y int) model.Action { return model.WallAt(cell(x, y), true) }

func TestLegalMovesOpenBoard(t *testing.T) {
	var b Board
	assert.ElementsMatch(t,
		[]model.Cell{cell(5, 4), cell(3, 4), cell(4, 5), cell(4, 3)},
		b.LegalMoves(cell(4, 4), cell(0, 0)))
	assert.ElementsMatch(t,
		[]model.Cell{cell(1, 0), cell(0, 1)},
		b.LegalMoves(cell(0, 0), cell(8, 8)))
	assert.ElementsMatch(t,
		[]model.Cell{cell(7, 8), cell(8, 7)},
		b.LegalMoves(cell(8, 8), cell(0, 0)))
}

func TestLegalMovesStraightJump(t *testing.T) {
	var b Board
	moves := b.LegalMoves(cell(4, 4), cell(4, 3))
	assert.Contains(t, moves, cell(4, 2))
	assert.NotContains(t, moves, cell(4, 3))
	assert.ElementsMatch(t, []model.Cell{cell(5, 4), cell(3, 4), cell(4, 5), cell(4, 2)}, moves)

	moves = b.LegalMoves(cell(4, 4), cell(5, 4))
	assert.Contains(t, moves, cell(6, 4))
	assert.NotContains(t, moves, cell(5, 4))
}

func TestLegalMovesJumpBlockedHasNoDiagonal(t *testing.T) {
	var b Board
	// edge between rows 2 and 3, columns 4 and 5
	b.PlaceWall(hwall(4, 2))
	moves := b.LegalMoves(cell(4, 4), cell(4, 3))
	assert.ElementsMatch(t, []model.Cell{cell(5, 4), cell(3, 4), cell(4, 5)}, moves)
	for _, d := range []model.Cell{cell(3, 3), cell(5, 3), cell(4, 2)} {
		assert.NotContains(t, moves, d)
	}
}

func TestLegalMovesJumpOffBoard(t *testing.T) {
	var b Board
	moves := b.LegalMoves(cell(4, 1), cell(4, 0))
	assert.ElementsMatch(t, []model.Cell{cell(5, 1), cell(3, 1), cell(4, 2)}, moves)

	moves = b.LegalMoves(cell(7, 3), cell(8, 3))
	assert.ElementsMatch(t, []model.Cell{cell(6, 3), cell(7, 4), cell(7, 2)}, moves)
}

func TestLegalMovesWallSpansTwoUnits(t *testing.T) {
	var b Board
	// vertical wall between columns 4 and 5, rows 4 and 5
	b.PlaceWall(vwall(4, 4))
	assert.NotContains(t, b.LegalMoves(cell(4, 4), cell(0, 0)), cell(5, 4))
	assert.NotContains(t, b.LegalMoves(cell(4, 5), cell(0, 0)), cell(5, 5))
	assert.NotContains(t, b.LegalMoves(cell(5, 5), cell(0, 0)), cell(4, 5))
	assert.Contains(t, b.LegalMoves(cell(4, 3), cell(0, 0)), cell(5, 3))
	assert.Contains(t, b.LegalMoves(cell(4, 6), cell(0, 0)), cell(5, 6))
}

func TestLegalMovesEdgeWindow(t *testing.T) {
	var b Board
	b.PlaceWall(vwall(0, 0))
	assert.NotContains(t, b.LegalMoves(cell(0, 0), cell(8, 8)), cell(1, 0))

	b.Reset()
	b.PlaceWall(hwall(7, 7))
	assert.NotContains(t, b.LegalMoves(cell(8, 8), cell(0, 0)), cell(8, 7))
	assert.NotContains(t, b.LegalMoves(cell(7, 8), cell(0, 0)), cell(7, 7))
	assert.Contains(t, b.LegalMoves(cell(6, 8), cell(0, 0)), cell(6, 7))
}

func TestLegalMovesNeverDiagonal(t *testing.T) {
	layouts := [][]model.Action{
		nil,
		{hwall(3, 3), vwall(5, 1)},
		{hwall(0, 0), hwall(7, 7), vwall(0, 7), vwall(7, 0)},
		{hwall(2, 4), hwall(4, 4), vwall(4, 2), vwall(1, 6)},
	}
	for _, walls := range layouts {
		var b Board
		for _, w := range walls {
			require.True(t, b.WallAvailable(w), "layout wall %v", w)
			b.PlaceWall(w)
		}
		for ax := 0; ax < model.BoardSize; ax++ {
			for ay := 0; ay < model.BoardSize; ay++ {
				for ox := 0; ox < model.BoardSize; ox++ {
					for oy := 0; oy < model.BoardSize; oy++ {
						active, opp := cell(ax, ay), cell(ox, oy)
						if active == opp {
							continue
						}
						for _, m := range b.LegalMoves(active, opp) {
							dx, dy := m.X-active.X, m.Y-active.Y
							require.True(t, m.OnBoard(), "%v off board from %v", m, active)
							require.True(t, dx == 0 || dy == 0, "diagonal %v from %v", m, active)
							require.NotEqual(t, opp, m)
							dist := abs(dx) + abs(dy)
							if dist == 2 {
								mid := cell(active.X+dx/2, active.Y+dy/2)
								require.Equal(t, opp, mid, "jump %v from %v without opponent", m, active)
							} else {
								require.Equal(t, 1, dist)
							}
						}
					}
				}
			}
		}
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func TestPlaceRemoveWallRestoresCounters(t *testing.T) {
	for _, w := range []model.Action{hwall(0, 0), hwall(7, 7), hwall(3, 5), vwall(0, 0), vwall(7, 7), vwall(5, 3)} {
		var b Board
		b.PlaceWall(w)
		assert.False(t, b.WallAvailable(w))
		b.RemoveWall(w)
		assert.Equal(t, Board{}, b, "wall %v", w)
	}
}

func TestWallOverlap(t *testing.T) {
	var b Board
	b.PlaceWall(hwall(3, 3))
	assert.True(t, b.Walls[Horizontal][3][3])
	assert.False(t, b.Walls[Horizontal][3][4], "neighbour presence is never set")

	for _, w := range []model.Action{hwall(3, 3), hwall(2, 3), hwall(4, 3), vwall(3, 3)} {
		assert.False(t, b.WallAvailable(w), "%v should overlap", w)
	}
	for _, w := range []model.Action{hwall(1, 3), hwall(5, 3), hwall(3, 2), vwall(2, 3), vwall(3, 2), vwall(3, 4)} {
		assert.True(t, b.WallAvailable(w), "%v should be free", w)
	}

	b.PlaceWall(vwall(5, 5))
	for _, w := range []model.Action{vwall(5, 4), vwall(5, 6), hwall(5, 5)} {
		assert.False(t, b.WallAvailable(w), "%v should overlap", w)
	}
}

func TestOverlapCountersSurviveOutOfOrderRemoval(t *testing.T) {
	var b Board
	b.PlaceWall(hwall(2, 3))
	b.PlaceWall(hwall(4, 3))
	// both walls forbid (3,3)
	assert.Equal(t, 2, b.Available[Horizontal][3][3])

	b.RemoveWall(hwall(2, 3))
	assert.False(t, b.WallAvailable(hwall(3, 3)))
	b.RemoveWall(hwall(4, 3))
	assert.True(t, b.WallAvailable(hwall(3, 3)))
	assert.Equal(t, Board{}, b)
}

func TestWallAvailableOutOfGrid(t *testing.T) {
	var b Board
	assert.False(t, b.WallAvailable(hwall(8, 0)))
	assert.False(t, b.WallAvailable(vwall(0, -1)))
}
