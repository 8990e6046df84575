package dto

import (
	"time"

	"github.com/guttosm/kiwoompulse/internal/domain/models"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
)

// RankingResponse is returned by GET /api/v1/rankings/trade-value.
type RankingResponse struct {
	Market    string                 `json:"market" example:"000"`
	APIID     string                 `json:"api_id" example:"ka10032"`
	ContYn    string                 `json:"cont_yn" example:"N"`
	NextKey   string                 `json:"next_key"`
	FetchedAt time.Time              `json:"fetched_at"`
	Rows      []kiwoom.MarketDataRow `json:"rows"`
}

// SnapshotResponse is returned by GET /api/v1/rankings/trade-value/latest.
type SnapshotResponse struct {
	ID        string              `json:"id"`
	Market    string              `json:"market" example:"000"`
	TradeDate string              `json:"trade_date" example:"2026-10-16"`
	FetchedAt time.Time           `json:"fetched_at"`
	Rows      []models.RankingRow `json:"rows"`
}

// NewSnapshotResponse maps a stored snapshot onto the API contract.
func NewSnapshotResponse(s *models.RankingSnapshot) SnapshotResponse {
	rows := s.Rows
	if rows == nil {
		rows = []models.RankingRow{}
	}
	return SnapshotResponse{
		ID:        s.ID,
		Market:    s.Market,
		TradeDate: s.TradeDate.Format("2006-01-02"),
		FetchedAt: s.FetchedAt,
		Rows:      rows,
	}
}
