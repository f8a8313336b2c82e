package model

type MessageKind int

const (
	KindMove MessageKind = iota
	KindWall
	KindResign
	KindBack
	KindForward
	KindEnd
	KindToggle
)

func (k MessageKind) Name() string {
	switch k {
	case KindMove:
		return "MOVE"
	case KindWall:
		return "WALL"
	case KindResign:
		return "RESIGN"
	case KindBack:
		return "BACK"
	case KindForward:
		return "FORWARD"
	case KindEnd:
		return "END"
	case KindToggle:
		return "TOGGLE"
	default:
		return "N/A"
	}
}

// Navigation kinds scrub history and never add a record.
func (k MessageKind) Navigation() bool {
	return k == KindBack || k == KindForward || k == KindEnd
}

type ClientMessage struct {
	Kind     MessageKind
	X, Y     int
	Vertical bool
}

// Action converts a move or wall message into an engine action.
func (cm ClientMessage) Action() Action {
	c := Cell{X: cm.X, Y: cm.Y}
	if cm.Kind == KindWall {
		return WallAt(c, cm.Vertical)
	}
	return MoveTo(c)
}
