package model

const DefaultWalls = 10

type Player struct {
	Id       int32
	Side     Color
	Nick     string
	NumWalls int
	Col, Row int
}

func NewPlayer(side Color, nick string, walls int) *Player {
	home := side.HomeCell()
	return &Player{
		Id:       int32(side),
		Side:     side,
		Nick:     nick,
		NumWalls: walls,
		Col:      home.X,
		Row:      home.Y,
	}
}

func (p *Player) Move(c Cell) {
	p.Col = c.X
	p.Row = c.Y
}

func (p *Player) Cell() Cell {
	return Cell{X: p.Col, Y: p.Row}
}

func (p *Player) DecrementWalls() {
	if p.NumWalls > 0 {
		p.NumWalls--
	}
}

func (p *Player) IncrementWalls() {
	p.NumWalls++
}

func (p *Player) Walls() int {
	return p.NumWalls
}

func (p *Player) Color() Color {
	return p.Side
}

// Name falls back to the colour name when no nick was given.
func (p *Player) Name() string {
	if p.Nick == "" {
		return p.Side.String()
	}
	return p.Nick
}
