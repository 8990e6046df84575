package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/kiwoompulse/internal/domain/models"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
	"github.com/guttosm/kiwoompulse/internal/storage"
)

// Broker is the part of the kiwoom client the service depends on.
type Broker interface {
	AccessToken(ctx context.Context) (string, error)
	TopTradeValueSymbols(ctx context.Context, token string, filters kiwoom.Filters, page kiwoom.Continuation) (*kiwoom.RankingPage, error)
}

var _ Broker = (*kiwoom.Client)(nil)

// RankingService defines business logic around the trade-value ranking.
type RankingService interface {
	// Live fetches a fresh token and the current ranking without storing anything.
	Live(ctx context.Context, filters kiwoom.Filters) (*kiwoom.RankingPage, error)
	// Collect fetches the ranking of one market and returns it as an unsaved snapshot.
	Collect(ctx context.Context, market string) (*models.RankingSnapshot, error)
	// Latest returns the most recent stored snapshot of a market, nil when none exists.
	Latest(ctx context.Context, market string) (*models.RankingSnapshot, error)
}

// Defaults are the filters applied when a caller leaves them out.
type Defaults struct {
	Exchange       string
	IncludeManaged string
}

type rankingService struct {
	broker   Broker
	repo     storage.RankingsRepository
	defaults Defaults
	now      func() time.Time
}

func NewRankingService(broker Broker, repo storage.RankingsRepository, defaults Defaults) RankingService {
	return &rankingService{broker: broker, repo: repo, defaults: defaults, now: time.Now}
}

func (s *rankingService) Live(ctx context.Context, filters kiwoom.Filters) (*kiwoom.RankingPage, error) {
	token, err := s.broker.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	page, err := s.broker.TopTradeValueSymbols(ctx, token, s.withDefaults(filters), kiwoom.Continuation{})
	if err != nil {
		return nil, fmt.Errorf("top trade value: %w", err)
	}
	return page, nil
}

// Collect stamps a fresh ranking with its Seoul trading date.
//
// Behavior:
//   - TradeDate is the Seoul calendar date of the fetch (TradingDate).
//   - Position is 1-based in broker order; Rank is the broker's own now_rank text.
//   - Empty api-id/cont-yn headers fall back to ka10032 and "N".
func (s *rankingService) Collect(ctx context.Context, market string) (*models.RankingSnapshot, error) {
	page, err := s.Live(ctx, kiwoom.Filters{kiwoom.FilterMarket: market})
	if err != nil {
		return nil, err
	}

	fetched := s.now().In(seoul)
	snap := &models.RankingSnapshot{
		ID:        uuid.NewString(),
		Market:    market,
		TradeDate: TradingDate(fetched),
		FetchedAt: fetched.UTC(),
		APIID:     page.APIID,
		ContYn:    page.ContYn,
		NextKey:   page.NextKey,
		Rows:      make([]models.RankingRow, 0, len(page.Rows)),
	}
	if snap.APIID == "" {
		snap.APIID = kiwoom.APIIDTopTradeValue
	}
	if snap.ContYn == "" {
		snap.ContYn = "N"
	}
	for i, r := range page.Rows {
		snap.Rows = append(snap.Rows, models.RankingRow{
			Position:     i + 1,
			Rank:         r.Rank,
			Code:         r.Code,
			Name:         r.Name,
			CurrentPrice: r.CurrentPrice,
			Change:       r.Change,
			ChangeSign:   r.ChangeSign,
			ChangeRate:   r.ChangeRate,
		})
	}
	return snap, nil
}

func (s *rankingService) Latest(ctx context.Context, market string) (*models.RankingSnapshot, error) {
	return s.repo.LatestSnapshot(market)
}

// withDefaults copies filters and fills the exchange and managed-issue keys when absent.
func (s *rankingService) withDefaults(filters kiwoom.Filters) kiwoom.Filters {
	out := make(kiwoom.Filters, len(filters)+2)
	for k, v := range filters {
		out[k] = v
	}
	if _, ok := out[kiwoom.FilterExchange]; !ok && s.defaults.Exchange != "" {
		out[kiwoom.FilterExchange] = s.defaults.Exchange
	}
	if _, ok := out[kiwoom.FilterIncludeManaged]; !ok && s.defaults.IncludeManaged != "" {
		out[kiwoom.FilterIncludeManaged] = s.defaults.IncludeManaged
	}
	return out
}
