package main

import (
	"fmt"
	"log"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/config"
	"github.com/bdybsjord/Echomedic/internal/database"
	"github.com/bdybsjord/Echomedic/internal/server"
	"github.com/bdybsjord/Echomedic/internal/service"
	"github.com/bdybsjord/Echomedic/internal/store"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	docs := store.NewPostgres(database.DB)
	recorder := audit.NewRecorder(docs)

	api := server.API{
		Risks:    service.NewRiskService(docs, recorder),
		Controls: service.NewControlService(docs, recorder),
		Policies: service.NewPolicyService(docs, recorder),
		Audit:    recorder,
	}

	r := server.NewRouter(cfg, api)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
