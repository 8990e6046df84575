package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/kiwoompulse/config"
)

func brokerConfig(host string) config.Config {
	return config.Config{
		Kiwoom: config.KiwoomConfig{
			AppKey:    "app",
			SecretKey: "secret",
			Host:      host,
			Timeout:   5 * time.Second,
		},
		Ranking: config.RankingConfig{Exchange: "3", IncludeManaged: "1"},
	}
}

// fakeBroker answers the token and ranking endpoints and records the ranking body.
func fakeBroker(t *testing.T, gotBody *map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	})
	mux.HandleFunc("/api/dostk/rkinfo", func(w http.ResponseWriter, r *http.Request) {
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		_, _ = w.Write([]byte(`{"trde_prica_upper":[{"now_rank":"1","stk_cd":"005930"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewBroker_UsesConfiguredHost(t *testing.T) {
	c := NewBroker(brokerConfig("https://mockapi.kiwoom.com"))
	if c.Host() != "https://mockapi.kiwoom.com" {
		t.Fatalf("host=%q", c.Host())
	}
	if d := NewBroker(brokerConfig("")); d.Host() != "https://api.kiwoom.com" {
		t.Fatalf("empty host should fall back to production, got %q", d.Host())
	}
}

func TestNewRankingService_LiveAppliesConfiguredDefaults(t *testing.T) {
	var body map[string]string
	srv := fakeBroker(t, &body)

	svc, repo := NewRankingService(brokerConfig(srv.URL), nil)
	if repo != nil {
		t.Fatalf("expected nil repository without db")
	}
	page, err := svc.Live(context.Background(), map[string]string{"mrkt_tp": "001"})
	if err != nil {
		t.Fatalf("Live: %v", err)
	}
	if len(page.Rows) != 1 || *page.Rows[0].Code != "005930" {
		t.Fatalf("unexpected page %+v", page)
	}
	if body["mrkt_tp"] != "001" || body["stex_tp"] != "3" || body["mang_stk_incls"] != "1" {
		t.Fatalf("unexpected request body %v", body)
	}
}

func TestNewRankingService_WithDB(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	svc, repo := NewRankingService(brokerConfig("http://127.0.0.1:1"), db)
	if svc == nil || repo == nil {
		t.Fatalf("expected service and repository")
	}
}
