package fx

import (
	"go.uber.org/fx"

	"padel-league/internal/config"
	"padel-league/internal/database"
	"padel-league/internal/logger"
	"padel-league/internal/notify"
	"padel-league/internal/repository"
	"padel-league/internal/server"
	"padel-league/internal/service"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewPairRepository),
	// outbound
	fx.Provide(notify.NewClient),
	// svc
	fx.Provide(service.NewLeagueService),
	fx.Provide(service.NewPairService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewRecordsService),
	// server
	fx.Provide(server.NewLeagueServer),
)
