package app

import (
	"database/sql"

	"github.com/guttosm/kiwoompulse/config"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
	"github.com/guttosm/kiwoompulse/internal/service"
	"github.com/guttosm/kiwoompulse/internal/storage"
)

// NewBroker builds the broker client from cfg.Kiwoom. Each call returns a client with its own transport.
func NewBroker(cfg config.Config) *kiwoom.Client {
	return kiwoom.NewClient(
		cfg.Kiwoom.AppKey,
		cfg.Kiwoom.SecretKey,
		kiwoom.WithHost(cfg.Kiwoom.Host),
		kiwoom.WithTimeout(cfg.Kiwoom.Timeout),
	)
}

// NewRankingService wires broker -> repository -> service.
//
// db may be nil for modes that never touch storage (token, rank); the repository is
// then nil as well and only RankingService.Live may be used.
func NewRankingService(cfg config.Config, db *sql.DB) (service.RankingService, storage.RankingsRepository) {
	var repo storage.RankingsRepository
	if db != nil {
		repo = storage.NewRankingsRepository(db)
	}
	svc := service.NewRankingService(NewBroker(cfg), repo, service.Defaults{
		Exchange:       cfg.Ranking.Exchange,
		IncludeManaged: cfg.Ranking.IncludeManaged,
	})
	return svc, repo
}
