package server

import (
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/zucenko/quoridor/model"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrReplayOnly  = errors.New("replay accepts navigation only")
	ErrBusy        = errors.New("game busy, action dropped")
	ErrNotStarted  = errors.New("waiting for opponent")
)

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_NOT_FOUND
	GAME_INVALIDE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return HTTP_SUCCESS
	case GAME_NOT_FOUND:
		return HTTP_NOT_FOUND
	case GAME_INVALIDE:
		return HTTP_BAD_REQUEST
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_WAIT:
		return "GS_WAIT"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_ERR:
		return "GS_ERR"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_OVER:
		return "OVER"
	case PS_ERR:
		return "ERR"
	case PS_ERR_SEC:
		return "ERR_SEC"
	default:
		return "N/A"
	}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
	Seat         int32
}

// GameRequest asks for a seat. A non-nil Replay always opens a fresh
// single-viewer session over that record.
type GameRequest struct {
	GameContextAwaiting chan GameContextAwaiting
	Replay              []model.TurnRecord
	ReplayStart         model.Color
}

// SeatRelease hands back a seat whose connection never joined its session.
type SeatRelease struct {
	GameSession *GameSession
	Seat        int32
}

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	Seat     int32
	GameOver chan struct{}
}

type PlayerEvent struct {
	Player  int32
	Message model.ClientMessage
}
