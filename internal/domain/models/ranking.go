package models

import "time"

// RankingRow is one ranked symbol as stored in a snapshot.
//
// Position is the 1-based index in the broker's list; the seven text fields are
// copied verbatim from the broker and stay nil when it omitted them.
type RankingRow struct {
	Position     int     `json:"position" example:"1"`
	Rank         *string `json:"현재순위" example:"1"`
	Code         *string `json:"종목코드" example:"005930"`
	Name         *string `json:"종목명" example:"삼성전자"`
	CurrentPrice *string `json:"현재가격" example:"+70000"`
	Change       *string `json:"전일대비" example:"+500"`
	ChangeSign   *string `json:"전일대비기호" example:"2"`
	ChangeRate   *string `json:"등락률" example:"+0.72"`
}

// RankingSnapshot is the result of one ranking call for one market, kept for later queries.
//
// swagger:model RankingSnapshot
type RankingSnapshot struct {
	ID        string       `json:"id" example:"7f1c6a0e-8e44-4c3a-9d6b-0f2a1e5b9c11"`
	Market    string       `json:"market" example:"000"`
	TradeDate time.Time    `json:"trade_date"`
	FetchedAt time.Time    `json:"fetched_at"`
	APIID     string       `json:"api_id" example:"ka10032"`
	ContYn    string       `json:"cont_yn" example:"N"`
	NextKey   string       `json:"next_key"`
	Rows      []RankingRow `json:"rows"`
}
