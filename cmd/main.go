package main

//
//  @title           kiwoompulse API
//  @version         1.0
//  @description     Kiwoom trade-value ranking service: live top 20 and stored daily snapshots.
//  @termsOfService  https://github.com/guttosm/kiwoompulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/kiwoompulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        rankings
//  @tag.description Top symbols by trade value (ka10032)
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/kiwoompulse/config"
	_ "github.com/guttosm/kiwoompulse/docs" // swagger docs
	"github.com/guttosm/kiwoompulse/internal/app"
	"github.com/guttosm/kiwoompulse/internal/collector"
	"github.com/guttosm/kiwoompulse/internal/domain/dto"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
	"github.com/guttosm/kiwoompulse/internal/logger"
	"github.com/guttosm/kiwoompulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM, then drains the server for up to
// 10 seconds and runs cleanup (DB pool close).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// tokenSource is the part of the broker client used by the token mode.
type tokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// runToken prints a freshly issued access token.
func runToken(ctx context.Context, w io.Writer, src tokenSource) error {
	token, err := src.AccessToken(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

// runRank prints the live ranking of market as indented JSON.
func runRank(ctx context.Context, w io.Writer, svc service.RankingService, market string) error {
	page, err := svc.Live(ctx, kiwoom.Filters{kiwoom.FilterMarket: market})
	if err != nil {
		return err
	}
	rows := page.Rows
	if rows == nil {
		rows = []kiwoom.MarketDataRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.RankingResponse{
		Market:    market,
		APIID:     page.APIID,
		ContYn:    page.ContYn,
		NextKey:   page.NextKey,
		FetchedAt: time.Now().UTC(),
		Rows:      rows,
	})
}

// printResults writes one line per collected market.
func printResults(w io.Writer, results []collector.Result) {
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(w, "%s\tskipped\n", r.Market)
			continue
		}
		fmt.Fprintf(w, "%s\t%d rows\n", r.Market, r.Rows)
	}
}

// main is the entry point of the kiwoompulse application.
//
// Modes (selected via --mode flag):
//   - token:   Issues an access token and prints it.
//   - rank:    Prints the live top 20 by trade value for --market.
//   - collect: Stores one ranking snapshot per configured market for today.
//   - api:     Starts the REST API.
//
// Flags:
//   - --mode:     Execution mode. Default: "api".
//   - --market:   mrkt_tp for rank mode. Default: "000".
//   - --markets:  Comma separated markets for collect mode. Defaults to RANKING_MARKETS.
//   - --parallel: Markets fetched concurrently in collect mode (0 = all).
//   - --force:    Re-collect markets already stored today, and run on closed days.
//   - --port:     Port for API mode. Defaults to SERVER_PORT.
func main() {
	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "api", "Mode: token, rank, collect or api")
	market := flag.String("market", "000", "Market for rank mode: 000 all, 001 KOSPI, 101 KOSDAQ")
	markets := flag.String("markets", "", "Comma separated markets for collect mode (default RANKING_MARKETS)")
	parallel := flag.Int("parallel", 0, "How many markets to fetch concurrently (0 = all)")
	force := flag.Bool("force", false, "Re-collect markets already stored today (deletes the existing snapshot)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "token":
		if err := runToken(ctx, os.Stdout, app.NewBroker(config.AppConfig)); err != nil {
			logger.L().Fatal().Err(err).Msg("token request failed")
		}

	case "rank":
		svc, _ := app.NewRankingService(config.AppConfig, nil)
		if err := runRank(ctx, os.Stdout, svc, *market); err != nil {
			logger.L().Fatal().Err(err).Str("market", *market).Msg("ranking request failed")
		}

	case "collect":
		logger.L().Info().Msg("running collection")

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		list := config.AppConfig.Ranking.Markets
		if *markets != "" {
			list = config.SplitList(*markets)
		}

		svc, repo := app.NewRankingService(config.AppConfig, db)
		results, err := collector.CollectMarkets(ctx, svc, repo, list, collector.Options{Parallel: *parallel, Force: *force})
		if err != nil {
			logger.L().Error().Err(err).Msg("collection failed")
			_ = db.Close()
			os.Exit(1)
		}
		printResults(os.Stdout, results)
		logger.L().Info().Msg("collection completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
