package model

type ServerMessage struct {
	Setup      []Setup
	States     []Snapshot
	Rejections []Rejection
	Sounds     []SoundEvent
}

type Setup struct {
	GameId    string
	PlayerKey int32
	Replay    bool
	Start     Color
	Players   map[int32]Player
}

type PlayerState struct {
	Color Color
	Name  string
	Walls int
	Cell  Cell
}

type Snapshot struct {
	Turn       int
	History    int
	Current    Color
	Mode       ActionMode
	Players    []PlayerState
	Walls      [2][WallSize][WallSize]bool
	LegalMoves []Cell
	Last       []TurnRecord
	Over       bool
	Resigned   bool
	Winner     string
}

type Rejection struct {
	Kind   MessageKind
	Reason string
}

type SoundKind int

const (
	SoundMove SoundKind = iota
	SoundWall
)

type SoundEvent struct {
	Kind   SoundKind
	Volume int
}
