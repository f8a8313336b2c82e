package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

type GameMode int

const (
	LiveMode GameMode = iota
	ReplayMode
)

func (m GameMode) Name() string {
	if m == ReplayMode {
		return "REPLAY"
	}
	return "LIVE"
}

// Player is the collaborator owning a pawn position and a wall stock.
type Player interface {
	Move(c model.Cell)
	Cell() model.Cell
	DecrementWalls()
	IncrementWalls()
	Walls() int
	Color() model.Color
	Name() string
}

// Sound is fired after an action is applied. It must not block.
type Sound interface {
	Play()
}

type SoundFunc func()

func (f SoundFunc) Play() { f() }

var silent = SoundFunc(func() {})

type Option func(*State)

func WithSounds(move, wall Sound) Option {
	return func(s *State) {
		if move != nil {
			s.moveSound = move
		}
		if wall != nil {
			s.wallSound = wall
		}
	}
}

// WithRepetitions overrides how many plies one StepBack/StepForward covers.
// Live games default to 2 so the same player stays to move, replays to 1.
func WithRepetitions(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.repetitions = n
		}
	}
}

func WithLogger(l *log.Entry) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// State is the turn engine of one game. It is not safe for concurrent use;
// callers serialise access.
type State struct {
	mode        GameMode
	black       Player
	white       Player
	current     Player
	opponent    Player
	startColor  model.Color
	actionMode  model.ActionMode
	turn        int
	repetitions int
	history     []model.TurnRecord
	board       Board
	moves       []model.Cell

	over     bool
	resigned bool
	winner   Player

	moveSound Sound
	wallSound Sound
	log       *log.Entry
}

func NewState(mode GameMode, black, white Player, start model.Color, opts ...Option) *State {
	s := &State{
		mode:        mode,
		black:       black,
		white:       white,
		startColor:  start,
		repetitions: 2,
		moveSound:   silent,
		wallSound:   silent,
		log:         log.NewEntry(log.StandardLogger()),
	}
	if mode == ReplayMode {
		s.repetitions = 1
	}
	for _, o := range opts {
		o(s)
	}
	s.log.WithField("mode", mode.Name()).Info("game started")
	s.Initialize()
	return s
}

func (s *State) GameMode() GameMode { return s.mode }
func (s *State) StartColor() model.Color { return s.startColor }
func (s *State) Black() Player { return s.black }
func (s *State) White() Player { return s.white }
func (s *State) Current() Player { return s.current }
func (s *State) Opponent() Player { return s.opponent }
func (s *State) ActionMode() model.ActionMode { return s.actionMode }
func (s *State) Turn() int { return s.turn }
func (s *State) HistoryLen() int { return len(s.history) }
func (s *State) Repetitions() int { return s.repetitions }
func (s *State) Board() Board { return s.board }
func (s *State) Over() bool { return s.over }
func (s *State) Resigned() bool { return s.resigned }
func (s *State) ToggleMode() { s.actionMode = s.actionMode.Toggle() }
func (s *State) History() []model.TurnRecord { return append([]model.TurnRecord(nil), s.history...) }
func (s *State) LegalMoves() []model.Cell { return append([]model.Cell(nil), s.moves...) }
func (s *State) Record(i int) model.TurnRecord { return s.history[i] }

// Winner is only valid once the game is over.
func (s *State) Winner() (Player, error) {
	if !s.over {
		return nil, ErrNotOver
	}
	return s.winner, nil
}

// LoadHistory installs a recorded game for replay. The cursor stays at 0.
// Every record is checked against the position it would be played from.
func (s *State) LoadHistory(records []model.TurnRecord) error {
	if len(s.history) != 0 {
		return ErrHistoryNotEmpty
	}
	if err := s.validate(records); err != nil {
		return err
	}
	s.history = append([]model.TurnRecord(nil), records...)
	return nil
}

// validate replays records from the initial position on a scratch board.
func (s *State) validate(records []model.TurnRecord) error {
	var b Board
	cells := map[model.Color]model.Cell{
		model.Black: model.Black.HomeCell(),
		model.White: model.White.HomeCell(),
	}
	walls := map[model.Color]int{
		model.Black: s.black.Walls(),
		model.White: s.white.Walls(),
	}
	color := s.startColor
	for i, r := range records {
		if r.Color != color {
			return fmt.Errorf("record %d is %s, expected %s: %w", i, r.Color, color, ErrBadHistory)
		}
		if r.From != cells[color] {
			return fmt.Errorf("record %d starts on %s, pawn is on %s: %w", i, r.From, cells[color], ErrBadHistory)
		}
		for c, at := range cells {
			if at.Y == c.GoalRow() {
				return fmt.Errorf("record %d follows a finished game: %w", i, ErrBadHistory)
			}
		}
		a := r.Action
		if a.Wall {
			if walls[color] < 1 || !b.WallAvailable(a) {
				return fmt.Errorf("record %d wall %s: %w", i, a, ErrBadHistory)
			}
			b.PlaceWall(a)
			walls[color]--
		} else {
			legal := false
			for _, m := range b.LegalMoves(cells[color], cells[color.Other()]) {
				legal = legal || m == a.Point
			}
			if !legal {
				return fmt.Errorf("record %d move %s: %w", i, a, ErrBadHistory)
			}
			cells[color] = a.Point
		}
		color = color.Other()
	}
	return nil
}

// Initialize puts both pawns home, clears walls and rewinds the cursor to
// the first ply. Recorded history is kept and walls played before the
// cursor go back to their owners.
func (s *State) Initialize() {
	for _, r := range s.history[:s.turn] {
		if r.Action.Wall {
			s.player(r.Color).IncrementWalls()
		}
	}
	s.black.Move(model.Black.HomeCell())
	s.white.Move(model.White.HomeCell())
	if s.startColor == model.White {
		s.current, s.opponent = s.white, s.black
	} else {
		s.current, s.opponent = s.black, s.white
	}
	s.board.Reset()
	s.turn = 0
	s.actionMode = model.MoveMode
	s.over, s.resigned, s.winner = false, false, nil
	s.updateMoves()
}

func (s *State) player(c model.Color) Player {
	if c == model.White {
		return s.white
	}
	return s.black
}

// Check returns why a would be rejected for the player to move, or nil.
func (s *State) Check(a model.Action) error {
	if a.Wall {
		if !a.Point.OnWallGrid() {
			return ErrOutOfBounds
		}
		if s.current.Walls() < 1 {
			return ErrNoWallsLeft
		}
		if !s.board.WallAvailable(a) {
			return ErrWallUnavailable
		}
		return nil
	}
	if !a.Point.OnBoard() {
		return ErrOutOfBounds
	}
	for _, m := range s.moves {
		if m == a.Point {
			return nil
		}
	}
	return ErrIllegalMove
}

func (s *State) Allowed(a model.Action) bool {
	return s.Check(a) == nil
}

// Proceed plays one live ply. Rejected actions leave the state untouched.
func (s *State) Proceed(a model.Action) error {
	if s.over {
		return ErrGameOver
	}
	if err := s.Check(a); err != nil {
		return err
	}
	s.truncate()
	rec := model.TurnRecord{Color: s.current.Color(), From: s.current.Cell(), Action: a}
	s.history = append(s.history, rec)
	s.log.WithField("turn", s.turn).Debug(rec.String())
	s.apply(a)
	s.nextTurn()
	s.checkGameOver()
	return nil
}

// truncate drops the continuation left behind by stepping back and
// rebuilds the wall grids from the remaining records.
func (s *State) truncate() {
	if s.turn >= len(s.history) {
		return
	}
	s.history = s.history[:s.turn]
	s.board.Reset()
	for _, r := range s.history {
		if r.Action.Wall {
			s.board.PlaceWall(r.Action)
		}
	}
}

func (s *State) apply(a model.Action) {
	if a.Wall {
		s.board.PlaceWall(a)
		s.current.DecrementWalls()
		s.wallSound.Play()
		return
	}
	s.current.Move(a.Point)
	s.moveSound.Play()
}

func (s *State) changeTurn() {
	s.current, s.opponent = s.opponent, s.current
}

func (s *State) nextTurn() {
	s.changeTurn()
	s.turn++
	s.actionMode = model.MoveMode
	s.updateMoves()
}

func (s *State) CanStepBack() bool {
	return s.turn >= s.repetitions
}

func (s *State) CanStepForward() bool {
	return s.turn+s.repetitions <= len(s.history)
}

func (s *State) StepBack() error {
	if !s.CanStepBack() {
		return ErrNoPrevTurn
	}
	for i := 0; i < s.repetitions; i++ {
		s.changeTurn()
		s.turn--
		r := s.history[s.turn]
		if r.Action.Wall {
			s.board.RemoveWall(r.Action)
			s.current.IncrementWalls()
		} else {
			s.apply(model.MoveTo(r.From))
		}
	}
	s.updateMoves()
	return nil
}

func (s *State) StepForward() error {
	if !s.CanStepForward() {
		return ErrNoNextTurn
	}
	for i := 0; i < s.repetitions; i++ {
		s.forward()
	}
	s.updateMoves()
	return nil
}

func (s *State) StepToEnd() {
	for s.turn < len(s.history) {
		s.forward()
	}
	s.updateMoves()
}

func (s *State) forward() {
	s.apply(s.history[s.turn].Action)
	s.changeTurn()
	s.turn++
}

// Resign hands the game to the opponent of the player to move.
func (s *State) Resign() error {
	if s.over {
		return ErrGameOver
	}
	s.winner = s.opponent
	s.over = true
	s.resigned = true
	s.log.WithField("winner", s.winner.Name()).Info("resigned")
	return nil
}

func (s *State) checkGameOver() {
	if s.over {
		return
	}
	for _, p := range []Player{s.black, s.white} {
		if p.Cell().Y == p.Color().GoalRow() {
			s.winner = p
			s.over = true
			s.log.WithField("winner", p.Name()).Info("game over")
			return
		}
	}
}

func (s *State) updateMoves() {
	s.moves = s.board.LegalMoves(s.current.Cell(), s.opponent.Cell())
}
