package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/quoridor/engine"
	"github.com/zucenko/quoridor/model"
)

type GameServer struct {
	Config       Config
	GameSessions []*GameSession
	GameRequests chan GameRequest
	Releases     chan SeatRelease
	Upgrader     *websocket.Upgrader
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_ERR
	GS_OVER
)

type GameSession struct {
	Id     string
	State  GameSessionState
	Mode   engine.GameMode
	Game   *engine.State
	Volume int
	Seats  []int32
	// Free seats not yet handed to a connection, owned by GameServer.Loop
	Free []int32

	PlayerSessions        []*PlayerSession
	Errors                chan int32
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	Done                  chan struct{}

	sounds []model.SoundEvent
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
	PS_ERR_SEC
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int32
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
