package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/domain/dto"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
	"github.com/guttosm/kiwoompulse/internal/middleware"
	"github.com/guttosm/kiwoompulse/internal/service"
)

const defaultMarket = "000"

// Accepted values of the ranking query parameters.
var (
	validMarkets   = map[string]bool{"000": true, "001": true, "101": true}
	validExchanges = map[string]bool{"1": true, "2": true, "3": true}
	validManaged   = map[string]bool{"0": true, "1": true}
)

// Handler provides HTTP handlers for the trade-value ranking endpoints.
//
// Responsibilities:
//   - Validate query parameters against the codes the broker understands
//   - Call the ranking service with the request context
//   - Map results to response DTOs; failures are attached to the context for middleware.ErrorHandler
type Handler struct {
	svc service.RankingService
	now func() time.Time
}

// NewHandler constructs a Handler around the ranking service.
func NewHandler(svc service.RankingService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// GetTradeValueRanking handles GET /api/v1/rankings/trade-value.
//
// Query Parameters:
//   - mrkt_tp (optional, default 000): 000 all, 001 KOSPI, 101 KOSDAQ.
//   - stex_tp (optional): 1 KRX, 2 NXT, 3 combined. Server default when omitted.
//   - mang_stk_incls (optional): 0 exclude managed issues, 1 include. Server default when omitted.
//
// The ranking is fetched live from the broker; nothing is stored.
//
// GetTradeValueRanking godoc
// @Summary      Live top 20 by trade value
// @Description  Fetches a fresh token and the broker's ka10032 ranking, truncated to the first 20 rows
// @Tags         rankings
// @Produce      json
// @Param        mrkt_tp         query     string  false  "Market code"             Enums(000, 001, 101)  default(000)
// @Param        stex_tp         query     string  false  "Exchange code"           Enums(1, 2, 3)
// @Param        mang_stk_incls  query     string  false  "Include managed issues"  Enums(0, 1)
// @Success      200             {object}  dto.RankingResponse  "Success"
// @Failure      400             {object}  dto.ErrorResponse    "Bad Request"
// @Failure      502             {object}  dto.ErrorResponse    "Broker error"
// @Failure      504             {object}  dto.ErrorResponse    "Broker timeout"
// @Router       /api/v1/rankings/trade-value [get]
func (h *Handler) GetTradeValueRanking(c *gin.Context) {
	// ─── Validate "mrkt_tp" param ─────────────────────────────
	market, ok := h.market(c)
	if !ok {
		return
	}

	// ─── Validate optional filters ────────────────────────────
	filters := kiwoom.Filters{kiwoom.FilterMarket: market}
	if v := strings.TrimSpace(c.Query(kiwoom.FilterExchange)); v != "" {
		if !validExchanges[v] {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid stex_tp, expected 1, 2 or 3", nil)
			return
		}
		filters[kiwoom.FilterExchange] = v
	}
	if v := strings.TrimSpace(c.Query(kiwoom.FilterIncludeManaged)); v != "" {
		if !validManaged[v] {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid mang_stk_incls, expected 0 or 1", nil)
			return
		}
		filters[kiwoom.FilterIncludeManaged] = v
	}

	// ─── Query broker (with request context) ──────────────────
	page, err := h.svc.Live(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err).SetMeta("failed to fetch ranking")
		return
	}

	// ─── Build and return response DTO ────────────────────────
	rows := page.Rows
	if rows == nil {
		rows = []kiwoom.MarketDataRow{}
	}
	c.JSON(http.StatusOK, dto.RankingResponse{
		Market:    market,
		APIID:     page.APIID,
		ContYn:    page.ContYn,
		NextKey:   page.NextKey,
		FetchedAt: h.now().UTC(),
		Rows:      rows,
	})
}

// GetLatestSnapshot handles GET /api/v1/rankings/trade-value/latest.
//
// Query Parameters:
//   - mrkt_tp (optional, default 000): market whose snapshot is returned.
//
// Behavior:
//   - Reads only from Postgres; the broker is never called.
//   - Answers 404 when the collect mode has not stored anything for the market yet.
//
// GetLatestSnapshot godoc
// @Summary      Latest stored ranking
// @Description  Returns the most recent snapshot written by the collect mode for a market
// @Tags         rankings
// @Produce      json
// @Param        mrkt_tp  query     string  false  "Market code"  Enums(000, 001, 101)  default(000)
// @Success      200      {object}  dto.SnapshotResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse     "Not Found"
// @Failure      500      {object}  dto.ErrorResponse     "Internal Error"
// @Router       /api/v1/rankings/trade-value/latest [get]
func (h *Handler) GetLatestSnapshot(c *gin.Context) {
	market, ok := h.market(c)
	if !ok {
		return
	}

	// ─── Load from storage ────────────────────────────────────
	snap, err := h.svc.Latest(c.Request.Context(), market)
	if err != nil {
		_ = c.Error(err).SetMeta("failed to load snapshot")
		return
	}

	// ─── 404 or snapshot DTO ──────────────────────────────────
	if snap == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no snapshot stored for market "+market, nil))
		return
	}

	c.JSON(http.StatusOK, dto.NewSnapshotResponse(snap))
}

// market reads mrkt_tp, answering 400 itself when the value is unknown.
func (h *Handler) market(c *gin.Context) (string, bool) {
	market := strings.TrimSpace(c.DefaultQuery(kiwoom.FilterMarket, defaultMarket))
	if market == "" {
		market = defaultMarket
	}
	if !validMarkets[market] {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid mrkt_tp, expected 000, 001 or 101", nil)
		return "", false
	}
	return market, true
}
