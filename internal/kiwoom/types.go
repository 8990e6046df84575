package kiwoom

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Credentials is the app key / secret key pair issued by the brokerage.
type Credentials struct {
	AppKey    string
	SecretKey string
}

// Filters is the request body of a ranking call, forwarded to the broker unmodified.
//
// Common keys for ka10032:
//   - mrkt_tp: 000 all, 001 KOSPI, 101 KOSDAQ
//   - mang_stk_incls: 0 exclude managed issues, 1 include
//   - stex_tp: 1 KRX, 2 NXT, 3 combined
type Filters map[string]string

// Filter keys understood by the ranking endpoints.
const (
	FilterMarket         = "mrkt_tp"
	FilterIncludeManaged = "mang_stk_incls"
	FilterExchange       = "stex_tp"
)

// Continuation carries the upstream pagination hints.
// The zero value requests the first page.
type Continuation struct {
	ContYn  string // "Y" when a further page exists
	NextKey string // opaque cursor for that page
}

func (c Continuation) contYn() string {
	if c.ContYn == "" {
		return "N"
	}
	return c.ContYn
}

// MarketDataRow is one ranked symbol. Fields the broker did not send stay nil.
type MarketDataRow struct {
	Rank         *string `json:"현재순위"`
	Code         *string `json:"종목코드"`
	Name         *string `json:"종목명"`
	CurrentPrice *string `json:"현재가격"`
	Change       *string `json:"전일대비"`
	ChangeSign   *string `json:"전일대비기호"`
	ChangeRate   *string `json:"등락률"`
}

// rankingItem is one entry of the upstream ranking list.
// Fields stay raw so one unexpectedly typed value cannot fail the whole list.
type rankingItem struct {
	NowRank    json.RawMessage `json:"now_rank"`
	StkCd      json.RawMessage `json:"stk_cd"`
	StkNm      json.RawMessage `json:"stk_nm"`
	CurPrc     json.RawMessage `json:"cur_prc"`
	PredPre    json.RawMessage `json:"pred_pre"`
	PredPreSig json.RawMessage `json:"pred_pre_sig"`
	FluRt      json.RawMessage `json:"flu_rt"`
}

func (it rankingItem) toRow() MarketDataRow {
	return MarketDataRow{
		Rank:         rawText(it.NowRank),
		Code:         rawText(it.StkCd),
		Name:         rawText(it.StkNm),
		CurrentPrice: rawText(it.CurPrc),
		Change:       rawText(it.PredPre),
		ChangeSign:   rawText(it.PredPreSig),
		ChangeRate:   rawText(it.FluRt),
	}
}

// isNull reports an absent or JSON null value.
func isNull(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || string(v) == "null"
}

// rawText returns a JSON string as is and any other non-null value as its literal text
// (1 -> "1", true -> "true"). Absent or null yields nil.
func rawText(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	v := bytes.TrimSpace(raw)
	var s string
	if v[0] == '"' && json.Unmarshal(v, &s) == nil {
		return &s
	}
	s = string(v)
	return &s
}

// rawInt reads 5 or "5"; anything else is 0.
func rawInt(raw json.RawMessage) int {
	t := rawText(raw)
	if t == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(*t))
	if err != nil {
		return 0
	}
	return n
}

// RankingQuery describes one call to the ranking endpoint.
type RankingQuery struct {
	APIID   string // upstream operation, e.g. ka10032
	ListKey string // response field holding the ranked list
	Limit   int    // rows kept from the head of the list; <= 0 keeps all
	Filters Filters
	Page    Continuation
}

// RankingPage is the mapped result of one ranking call.
//
// ContYn, NextKey and APIID echo the upstream response headers so a caller
// can request the following page itself.
type RankingPage struct {
	Rows    []MarketDataRow
	ContYn  string
	NextKey string
	APIID   string
}

// HasMore reports whether the broker announced a further page.
func (p *RankingPage) HasMore() bool {
	return p != nil && p.ContYn == "Y" && p.NextKey != ""
}

// Next returns the continuation that requests the following page.
func (p *RankingPage) Next() Continuation {
	return Continuation{ContYn: p.ContYn, NextKey: p.NextKey}
}
