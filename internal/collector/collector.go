package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/kiwoompulse/internal/logger"
	"github.com/guttosm/kiwoompulse/internal/service"
	"github.com/guttosm/kiwoompulse/internal/storage"
)

// Options tunes one collection run.
type Options struct {
	// Parallel caps concurrent broker calls; 0 means one per market.
	Parallel int
	// Force re-collects markets already stored for the day and runs on closed days.
	Force bool
	// Now overrides the clock; zero means time.Now().
	Now time.Time
}

// Result reports what happened to one market.
type Result struct {
	Market  string
	Rows    int
	Skipped bool
}

// CollectMarkets fetches the trade-value ranking of every market and stores one snapshot per
// market and trading day.
//
// Parameters:
//   - ctx (context.Context): cancels every in-flight broker call.
//   - svc (service.RankingService): fetches one market and builds the unsaved snapshot.
//   - repo (storage.RankingsRepository): snapshot storage.
//   - markets ([]string): mrkt_tp codes; blanks and duplicates are dropped.
//   - opts (Options): parallelism, force and clock.
//
// Behavior:
//   - Does nothing on weekends and exchange closures unless Force is set.
//   - Skips markets that already have a snapshot for the day.
//   - With Force, fetches first and then swaps the stored snapshot in one transaction,
//     so a failed fetch leaves the previous snapshot untouched.
//   - Runs up to Parallel markets at once; the first error cancels the rest, and markets
//     not started yet are not touched.
//
// Returns:
//   - []Result: one entry per market, in the order of markets.
//   - error: the first failure, nil otherwise.
func CollectMarkets(ctx context.Context, svc service.RankingService, repo storage.RankingsRepository, markets []string, opts Options) ([]Result, error) {
	markets = normalize(markets)
	if len(markets) == 0 {
		return nil, fmt.Errorf("no markets to collect")
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	day := service.TradingDate(now)
	log := logger.Component("collector")

	if !service.IsTradingDay(day) && !opts.Force {
		log.Info().Str("trade_date", day.Format("2006-01-02")).Msg("market closed, nothing to collect")
		results := make([]Result, len(markets))
		for i, m := range markets {
			results[i] = Result{Market: m, Skipped: true}
		}
		return results, nil
	}

	maxParallel := len(markets)
	if opts.Parallel > 0 && opts.Parallel < maxParallel {
		maxParallel = opts.Parallel
	}
	log.Info().Strs("markets", markets).Int("max_parallel", maxParallel).Str("trade_date", day.Format("2006-01-02")).Msg("collection start")

	results := make([]Result, len(markets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, market := range markets {
		idx := i
		m := market
		results[idx].Market = m

		g.Go(func() error {
			// queued behind SetLimit while a sibling failed
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()

			// ─── Idempotency check ────────────────────────
			exists, err := repo.HasSnapshotForDate(day, m)
			if err != nil {
				log.Error().Str("market", m).Err(err).Msg("check snapshot failed")
				return fmt.Errorf("market %s: check snapshot: %w", m, err)
			}
			if exists && !opts.Force {
				log.Info().Str("market", m).Bool("skipped", true).Msg("already collected")
				results[idx].Skipped = true
				return nil
			}

			// ─── Fetch before touching stored data ────────
			snap, err := svc.Collect(gctx, m)
			if err != nil {
				log.Error().Str("market", m).Dur("elapsed", time.Since(start)).Err(err).Msg("fetch failed")
				return fmt.Errorf("market %s: %w", m, err)
			}
			snap.TradeDate = day

			// ─── Persist ──────────────────────────────────
			if exists {
				err = repo.ReplaceSnapshot(day, m, snap)
			} else {
				err = repo.InsertSnapshot(snap)
			}
			if err != nil {
				log.Error().Str("market", m).Bool("replace", exists).Err(err).Msg("store snapshot failed")
				return fmt.Errorf("market %s: store snapshot: %w", m, err)
			}

			results[idx].Rows = len(snap.Rows)
			log.Info().Str("market", m).Str("snapshot_id", snap.ID).Int("rows", len(snap.Rows)).Dur("elapsed", time.Since(start)).Bool("replaced", exists).Msg("market done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// normalize trims, drops empties and removes duplicates while keeping order.
func normalize(markets []string) []string {
	seen := make(map[string]struct{}, len(markets))
	out := make([]string, 0, len(markets))
	for _, m := range markets {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
