package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/accesscode"
	"github.com/kpcrmv4/AProject/go/internal/adjudication"
	"github.com/kpcrmv4/AProject/go/internal/racecontrol"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/ranking"
	"github.com/kpcrmv4/AProject/go/internal/timestamps"
)

type Services struct {
	AccessCodes  *accesscode.Service
	Timestamps   *timestamps.Service
	Adjudication *adjudication.Service
	Rankings     *ranking.Service
	RaceControl  *racecontrol.Service
}

func setupServices(database *sql.DB, cfg *Config, clock clockwork.Clock) *Services {
	// Database layer → Repository layer → App layer → Service layer
	queries := racedb.New(database)

	accessCodeRepo := accesscode.NewRepository(queries, database)
	accessCodeApp := accesscode.NewApp(accessCodeRepo, clock, cfg.raceLocation())

	timestampRepo := timestamps.NewRepository(queries, database)
	timestampApp := timestamps.NewApp(timestampRepo, clock, cfg.Timing.UndoWindow)

	ledgerRepo := adjudication.NewRepository(queries, database)
	ledgerApp := adjudication.NewApp(ledgerRepo, clock)

	rankingRepo := ranking.NewRepository(queries, database)
	rankingApp := ranking.NewApp(rankingRepo)

	raceControlRepo := racecontrol.NewRepository(queries, database)
	raceControlApp := racecontrol.NewApp(raceControlRepo)

	return &Services{
		AccessCodes:  accesscode.NewService(accessCodeApp),
		Timestamps:   timestamps.NewService(timestampApp),
		Adjudication: adjudication.NewService(ledgerApp),
		Rankings:     ranking.NewService(rankingApp),
		RaceControl:  racecontrol.NewService(raceControlApp),
	}
}
