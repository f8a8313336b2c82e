package server

import (
	"encoding/gob"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/engine"
	"github.com/zucenko/quoridor/model"
)

var liveSeats = []int32{int32(model.Black), int32(model.White)}

func NewGameServer(cfg Config) *GameServer {
	return &GameServer{
		Config:       cfg,
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest, 0),
		Releases:     make(chan SeatRelease),
		Upgrader:     &websocket.Upgrader{},
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - Conection received.............................")
		s.serve(w, r, GameRequest{})
	}
}

// HandleReplayCall opens a viewer session over a recorded game named by
// the :name route parameter.
func (s *GameServer) HandleReplayCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := way.Param(r.Context(), "name")
		log.WithField("replay", name).Info("HandleReplayCall - Conection received")
		records, start, err := LoadReplay(s.Config, name)
		if err != nil {
			log.Warnf("HandleReplayCall cant load %s: %v", name, err)
			w.WriteHeader(GAME_NOT_FOUND.ToHttp())
			return
		}
		s.serve(w, r, GameRequest{Replay: records, ReplayStart: start})
	}
}

func (s *GameServer) serve(w http.ResponseWriter, r *http.Request, req GameRequest) {
	timeout := 200 * time.Millisecond

	// buffered so the server loop never waits on a handler that gave up
	gcas := make(chan GameContextAwaiting, 1)
	req.GameContextAwaiting = gcas
	select {
	case s.GameRequests <- req:
		log.Printf("HandleHttpCall -> GameServer.GameRequests")
	case <-time.After(timeout):
		log.Warn("GameRequests TIMEOUTED")
		w.WriteHeader(HTTP_TIMEOUT)
		return
	}

	var gca GameContextAwaiting
	select {
	case gca = <-gcas:
		log.Printf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
		switch gca.ResponseCode {
		case GAME_NOT_FOUND:
			fallthrough
		case GAME_INVALIDE:
			w.WriteHeader(gca.ResponseCode.ToHttp())
			return
		case GAME_READY:
			log.Printf("HandleHttpCall ok, have GameSession %s", gca.GameSession.Id)
		default:
			log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
		}
	case <-time.After(timeout):
		log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
		w.WriteHeader(HTTP_TIMEOUT)
		go func() {
			if late := <-gcas; late.ResponseCode == GAME_READY {
				s.releaseSeat(late.GameSession, late.Seat)
			}
		}()
		return
	}

	log.Info("HandleHttpCall lets upgrade websocket ")
	con, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		log.Printf("HandleHttpCall websocket upgrade err %v", err)
		s.releaseSeat(gca.GameSession, gca.Seat)
		return
	}
	defer con.Close()

	gameOver := make(chan struct{})
	select {
	case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
		Con:      con,
		Seat:     gca.Seat,
		GameOver: gameOver}:
	case <-time.After(timeout):
		log.Warnf("HandleHttpCall PlayerConnectRequests TIMEOUTED")
		s.releaseSeat(gca.GameSession, gca.Seat)
		return
	}

	log.Info("HandleHttpCall and wait for gameover ")
	<-gameOver
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			log.Printf("GameServer.Loop gameReq")
			var gs *GameSession
			if gameReq.Replay != nil {
				gs = s.newReplaySession(gameReq)
			} else {
				gs = s.openSession()
			}
			if gs == nil {
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_INVALIDE}
				continue
			}
			seat := gs.Free[0]
			gs.Free = gs.Free[1:]
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
				Seat:         seat,
			}
		case rel := <-s.Releases:
			s.release(rel)
		}
	}
}

func (s *GameServer) releaseSeat(gs *GameSession, seat int32) {
	s.Releases <- SeatRelease{GameSession: gs, Seat: seat}
}

// release puts a live seat back in front of the queue. A replay session
// has nobody else to wait for, so it is stopped instead.
func (s *GameServer) release(rel SeatRelease) {
	gs := rel.GameSession
	log.WithField("game", gs.Id).Warnf("seat %d released", rel.Seat)
	if gs.Mode == engine.ReplayMode {
		go func() {
			select {
			case gs.Errors <- rel.Seat:
			case <-gs.Done:
			}
		}()
		return
	}
	gs.Free = append([]int32{rel.Seat}, gs.Free...)
}

// openSession returns a live session with a free seat, creating one when
// none is waiting. Finished sessions are forgotten on the way.
func (s *GameServer) openSession() *GameSession {
	alive := s.GameSessions[:0]
	var open *GameSession
	for _, gs := range s.GameSessions {
		select {
		case <-gs.Done:
			continue
		default:
		}
		alive = append(alive, gs)
		if open == nil && gs.Mode == engine.LiveMode && len(gs.Free) > 0 {
			open = gs
		}
	}
	s.GameSessions = alive
	if open != nil {
		return open
	}
	log.Info("create GameSession")
	open = NewGameSession(s.Config, engine.LiveMode, s.Config.Start)
	go open.Loop()
	s.GameSessions = append(s.GameSessions, open)
	return open
}

func (s *GameServer) newReplaySession(req GameRequest) *GameSession {
	gs := NewGameSession(s.Config, engine.ReplayMode, req.ReplayStart)
	if err := gs.Game.LoadHistory(req.Replay); err != nil {
		log.Warnf("replay rejected: %v", err)
		return nil
	}
	go gs.Loop()
	s.GameSessions = append(s.GameSessions, gs)
	return gs
}

// NewGameSession builds the session and its engine. Live sessions seat
// black then white, replays a single viewer.
func NewGameSession(cfg Config, mode engine.GameMode, start model.Color) *GameSession {
	gs := &GameSession{
		Id:                    uuid.NewString(),
		State:                 GS_NEW,
		Mode:                  mode,
		Volume:                cfg.Volume,
		Seats:                 liveSeats,
		PlayerSessions:        make([]*PlayerSession, 0),
		Errors:                make(chan int32),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Done:                  make(chan struct{}),
	}
	if mode == engine.ReplayMode {
		gs.Seats = []int32{int32(start)}
	}
	gs.Free = append([]int32(nil), gs.Seats...)
	// one pending event per seat, so a move sent during the opponent's turn
	// processing is queued rather than dropped
	gs.Events = make(chan PlayerEvent, len(gs.Seats))
	logger := log.WithField("game", gs.Id)
	gs.Game = engine.NewState(mode,
		model.NewPlayer(model.Black, "", cfg.Walls),
		model.NewPlayer(model.White, "", cfg.Walls),
		start,
		engine.WithLogger(logger),
		engine.WithSounds(gs.notifier(model.SoundMove), gs.notifier(model.SoundWall)))
	return gs
}

type notifier struct {
	gs   *GameSession
	kind model.SoundKind
}

func (n notifier) Play() {
	if n.gs.Volume <= 0 {
		return
	}
	n.gs.sounds = append(n.gs.sounds, model.SoundEvent{Kind: n.kind, Volume: n.gs.Volume})
}

func (gs *GameSession) notifier(kind model.SoundKind) engine.Sound {
	return notifier{gs: gs, kind: kind}
}

func (gs *GameSession) Loop() {
	log.WithField("game", gs.Id).Info("GameSession.Loop start")
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			log.Info("GameSession.Loop PlayerConnectRequests")
			gs.addPlayer(pcr.Con, pcr.Seat, pcr.GameOver)
			if len(gs.PlayerSessions) < len(gs.Seats) {
				gs.State = GS_WAIT
			} else {
				gs.State = GS_PLAY
				for _, ps := range gs.PlayerSessions {
					ps.State = PS_PLAY
					ps.MessagesToSend <- gs.MakeGameSetupMessage(ps.Id)
				}
			}
		case errPlayer := <-gs.Errors:
			log.Warn("killing GS")
			gs.State = GS_ERR
			for _, ps := range gs.PlayerSessions {
				if ps.Id == errPlayer {
					ps.State = PS_ERR
				} else {
					ps.State = PS_ERR_SEC
				}
			}
			gs.finish()
			return
		case pe := <-gs.Events:
			var playerSession, opponentSession *PlayerSession
			for _, ps := range gs.PlayerSessions {
				if ps.Id == pe.Player {
					playerSession = ps
				} else {
					opponentSession = ps
				}
			}
			messageToPlayer, messageToOpponent := gs.Turn(pe)
			if messageToPlayer != nil && playerSession != nil {
				playerSession.MessagesToSend <- *messageToPlayer
			}
			if messageToOpponent != nil && opponentSession != nil {
				opponentSession.MessagesToSend <- *messageToOpponent
			}
			if gs.Game.Over() {
				log.WithField("game", gs.Id).Info("GameSession over")
				gs.State = GS_OVER
				for _, ps := range gs.PlayerSessions {
					ps.State = PS_OVER
				}
				gs.finish()
				return
			}
		}
	}
}

// finish stops the player loops. Each write loop flushes what is queued,
// closes its socket and releases its http handler.
func (gs *GameSession) finish() {
	close(gs.Done)
}

// Turn applies one player event to the game. A rejected event only answers
// the sender; an applied one sends the new snapshot to both seats.
func (gs *GameSession) Turn(pe PlayerEvent) (
	messageToPlayer *model.ServerMessage,
	messageToOpponent *model.ServerMessage) {
	if err := gs.apply(pe); err != nil {
		log.WithField("game", gs.Id).Infof("rejected %s from %d: %v", pe.Message.Kind.Name(), pe.Player, err)
		messageToPlayer = &model.ServerMessage{
			Rejections: []model.Rejection{{Kind: pe.Message.Kind, Reason: err.Error()}},
		}
		return
	}
	snapshot := gs.Snapshot()
	sounds := gs.sounds
	gs.sounds = nil
	messageToPlayer = &model.ServerMessage{States: []model.Snapshot{snapshot}, Sounds: sounds}
	messageToOpponent = &model.ServerMessage{States: []model.Snapshot{snapshot}, Sounds: sounds}
	return
}

func (gs *GameSession) apply(pe PlayerEvent) error {
	g := gs.Game
	kind := pe.Message.Kind
	if gs.State != GS_PLAY {
		return ErrNotStarted
	}
	if gs.Mode == engine.ReplayMode && !kind.Navigation() {
		return ErrReplayOnly
	}
	switch kind {
	case model.KindBack:
		return g.StepBack()
	case model.KindForward:
		return g.StepForward()
	case model.KindEnd:
		g.StepToEnd()
		return nil
	}
	if pe.Player != int32(g.Current().Color()) {
		return ErrNotYourTurn
	}
	switch kind {
	case model.KindResign:
		return g.Resign()
	case model.KindToggle:
		g.ToggleMode()
		return nil
	default:
		return g.Proceed(pe.Message.Action())
	}
}

func (gs *GameSession) Snapshot() model.Snapshot {
	g := gs.Game
	b := g.Board()
	snapshot := model.Snapshot{
		Turn:       g.Turn(),
		History:    g.HistoryLen(),
		Current:    g.Current().Color(),
		Mode:       g.ActionMode(),
		Walls:      b.Walls,
		LegalMoves: g.LegalMoves(),
		Over:       g.Over(),
		Resigned:   g.Resigned(),
	}
	for _, p := range []engine.Player{g.Black(), g.White()} {
		snapshot.Players = append(snapshot.Players, model.PlayerState{
			Color: p.Color(),
			Name:  p.Name(),
			Walls: p.Walls(),
			Cell:  p.Cell(),
		})
	}
	if g.Turn() > 0 {
		snapshot.Last = []model.TurnRecord{g.Record(g.Turn() - 1)}
	}
	if w, err := g.Winner(); err == nil {
		snapshot.Winner = w.Name()
	}
	return snapshot
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	seat int32,
	gameOver chan struct{},
) {
	log.Printf("GameSession.addPlayer seat %d", seat)
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             seat,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
}

func (gs *GameSession) MakeGameSetupMessage(seat int32) model.ServerMessage {
	players := map[int32]model.Player{}
	for _, p := range []engine.Player{gs.Game.Black(), gs.Game.White()} {
		players[int32(p.Color())] = model.Player{
			Id:       int32(p.Color()),
			Side:     p.Color(),
			Nick:     p.Name(),
			NumWalls: p.Walls(),
			Col:      p.Cell().X,
			Row:      p.Cell().Y,
		}
	}
	return model.ServerMessage{
		Setup: []model.Setup{{
			GameId:    gs.Id,
			PlayerKey: seat,
			Replay:    gs.Game.GameMode() == engine.ReplayMode,
			Start:     gs.Game.StartColor(),
			Players:   players,
		}},
		States: []model.Snapshot{gs.Snapshot()},
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED")
loop:
	for {
		messageType, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			break loop
		}
		log.Printf("LoopChannelRead received  message type: %d", messageType)
		cm := &model.ClientMessage{}
		if err = gob.NewDecoder(r).Decode(cm); err != nil {
			log.Warn("cant decode")
			ps.fail()
			break loop
		}
		log.Debug(cm)
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Message: *cm}:
		case <-ps.GameSession.Done:
			break loop
		default:
			log.Warnf("Dropping %s from %d, GameSession.Events FULL", cm.Kind.Name(), ps.Id)
			select {
			case ps.MessagesToSend <- model.ServerMessage{
				Rejections: []model.Rejection{{Kind: cm.Kind, Reason: ErrBusy.Error()}}}:
			default:
			}
		}
	}
	log.Printf("LoopChannelRead ENDED")
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.GameSession.Done:
	}
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED")
	defer close(ps.GameOver)
loop:
	for {
		select {
		case <-ps.GameSession.Done:
			ps.flush()
			break loop
		case mes := <-ps.MessagesToSend:
			log.Printf("PlayerSession.LoopChannelWrite started key:%v", ps.Id)
			if err := ps.write(mes); err != nil {
				ps.fail()
				break loop
			}
		}
	}
	log.Printf("LoopChannelWrite ENDED")
}

// flush sends what the session queued before it finished, then says goodbye.
func (ps *PlayerSession) flush() {
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if ps.write(mes) != nil {
				return
			}
		default:
			err := ps.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
				time.Now().Add(time.Second))
			if err != nil {
				log.Warnf("PlayerSession.flush cant send close %v", err)
			}
			return
		}
	}
}

func (ps *PlayerSession) write(mes model.ServerMessage) error {
	w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
		return err
	}
	if err = gob.NewEncoder(w).Encode(mes); err != nil {
		log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
		return err
	}
	if err = w.Close(); err != nil {
		log.Warnf("PlayerSession.LoopChannelWrite cant close writer %v", err)
		return err
	}
	ps.DebugOutMessages++
	return nil
}
