package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	cfg := server.LoadConfig()
	log.SetLevel(cfg.LogLevel)
	Server := Server{
		GameServer: server.NewGameServer(cfg),
	}
	go Server.GameServer.Loop()
	Server.routes()
	log.WithFields(log.Fields{
		"port":   cfg.Port,
		"walls":  cfg.Walls,
		"start":  cfg.Start,
		"replay": cfg.ReplayDir,
	}).Info("quoridor server listening")
	log.Fatalln(http.ListenAndServe(":"+cfg.Port, Server.router))
}
