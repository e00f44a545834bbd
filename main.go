package main

import (
	"net/http"

	"pledge-backend/internal/config"
	"pledge-backend/internal/logger"
	"pledge-backend/internal/routes"
)

func main() {
	cfg := config.New()
	log := logger.New()

	db := initDB(cfg.MySQLDSN(), log)
	if cfg.SeedDev {
		if err := seedDevData(db); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
	}

	engine, err := routes.Register(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: engine}
	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
