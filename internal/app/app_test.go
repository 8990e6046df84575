package app

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/kiwoompulse/config"
)

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()

	oldOpener := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	oldCfg := config.AppConfig
	srv := fakeBroker(t, nil)
	config.AppConfig = brokerConfig(srv.URL)
	t.Cleanup(func() {
		postgresOpener = oldOpener
		config.AppConfig = oldCfg
		_ = db.Close()
	})

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err set or nil components")
	}

	cases := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/api/v1/rankings/trade-value?mrkt_tp=101", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s status=%d body=%s", tc.path, w.Code, w.Body.String())
		}
	}

	mock.ExpectClose()
	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
