package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	NotifyTimeout   = 10 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultHistoryLimit = 15
	MatchListLimit      = 20
	LeaderboardLimit    = 10
	TopPairsLimit       = 10
	RivalryLimit        = 10
)
