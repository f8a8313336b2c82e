package model

import "fmt"

const (
	BoardSize = 9
	WallSize  = BoardSize - 1
)

type Color int32

const (
	Black Color = iota + 1
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return fmt.Sprintf("n/a:%d", c)
	}
}

// Other returns the opposing colour.
func (c Color) Other() Color {
	if c == Black {
		return White
	}
	return Black
}

// GoalRow is fixed per colour, black races up to row 0 and white down to row 8.
func (c Color) GoalRow() int {
	if c == Black {
		return 0
	}
	return BoardSize - 1
}

// HomeCell is where Initialize puts a player of this colour.
func (c Color) HomeCell() Cell {
	if c == Black {
		return Cell{X: 4, Y: BoardSize - 1}
	}
	return Cell{X: 4, Y: 0}
}

type Cell struct {
	X, Y int
}

func (c Cell) OnBoard() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// OnWallGrid reports whether c addresses a wall slot (col X, row Y).
func (c Cell) OnWallGrid() bool {
	return c.X >= 0 && c.X < WallSize && c.Y >= 0 && c.Y < WallSize
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Action is either a move to Point or, when Wall is set, a wall centred on
// the Point intersection.
type Action struct {
	Point    Cell
	Wall     bool
	Vertical bool
}

func MoveTo(c Cell) Action {
	return Action{Point: c}
}

func WallAt(c Cell, vertical bool) Action {
	return Action{Point: c, Wall: true, Vertical: vertical}
}

func (a Action) Orientation() Orientation {
	if a.Vertical {
		return Vertical
	}
	return Horizontal
}

func (a Action) String() string {
	switch {
	case !a.Wall:
		return "m " + a.Point.String()
	case a.Vertical:
		return "v " + a.Point.String()
	default:
		return "h " + a.Point.String()
	}
}

// TurnRecord is one ply of history. From is the acting player's cell before
// the action.
type TurnRecord struct {
	Color  Color
	From   Cell
	Action Action
}

// String renders the record in replay notation, e.g. "B 4,8 m 4,7".
func (t TurnRecord) String() string {
	return fmt.Sprintf("%s %s %s", t.Color.String()[:1], t.From, t.Action)
}

type ActionMode int

const (
	MoveMode ActionMode = iota
	WallMode
)

func (m ActionMode) Toggle() ActionMode {
	if m == MoveMode {
		return WallMode
	}
	return MoveMode
}

func (m ActionMode) String() string {
	if m == WallMode {
		return "WALL"
	}
	return "MOVE"
}
