package storage

import (
	"database/sql"
	"time"

	"github.com/guttosm/kiwoompulse/internal/domain/models"
	pq "github.com/lib/pq"
)

// RankingsRepository defines contract for DB operations on ranking snapshots.
//
// At most one snapshot is kept per (trade date, market): InsertSnapshot writes the first one,
// ReplaceSnapshot swaps it atomically on a forced re-collect.
type RankingsRepository interface {
	InsertSnapshot(snapshot *models.RankingSnapshot) error
	LatestSnapshot(market string) (*models.RankingSnapshot, error)
	HasSnapshotForDate(date time.Time, market string) (bool, error)
	ReplaceSnapshot(date time.Time, market string, snapshot *models.RankingSnapshot) error
}

type rankingsRepository struct {
	db *sql.DB
}

// NewRankingsRepository builds the Postgres implementation on top of db.
func NewRankingsRepository(db *sql.DB) RankingsRepository {
	return &rankingsRepository{db: db}
}

// InsertSnapshot stores the snapshot header and its rows in a single transaction.
//
// Parameters:
//   - s (*models.RankingSnapshot): snapshot with ID, market, trade date and ordered rows.
//
// Returns:
//   - error: any failure; the transaction is rolled back and nothing is stored.
func (r *rankingsRepository) InsertSnapshot(s *models.RankingSnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if err := insertSnapshotTx(tx, s); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ReplaceSnapshot swaps the snapshots of (date, market) for s atomically.
//
// Behavior:
//   - Deletes the existing snapshots of the day and market (rows go by cascade).
//   - Inserts s in the same transaction.
//   - On any failure the transaction is rolled back, so the previous snapshot stays in place.
func (r *rankingsRepository) ReplaceSnapshot(date time.Time, market string, s *models.RankingSnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM ranking_snapshots WHERE trade_date = $1 AND market = $2`, date, market); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := insertSnapshotTx(tx, s); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// insertSnapshotTx writes the header and bulk loads the rows with COPY; the caller owns tx.
func insertSnapshotTx(tx *sql.Tx, s *models.RankingSnapshot) error {
	// ─── Header ───────────────────────────────────
	if _, err := tx.Exec(`
		INSERT INTO ranking_snapshots (id, market, trade_date, fetched_at, api_id, cont_yn, next_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Market, s.TradeDate, s.FetchedAt, s.APIID, s.ContYn, s.NextKey,
	); err != nil {
		return err
	}

	// ─── Rows (COPY) ──────────────────────────────
	stmt, err := tx.Prepare(pq.CopyIn(
		"ranking_rows",
		"snapshot_id",
		"position",
		"now_rank",
		"stk_cd",
		"stk_nm",
		"cur_prc",
		"pred_pre",
		"pred_pre_sig",
		"flu_rt",
	))
	if err != nil {
		return err
	}

	for _, row := range s.Rows {
		if _, err := stmt.Exec(
			s.ID,
			row.Position,
			toNullString(row.Rank),
			toNullString(row.Code),
			toNullString(row.Name),
			toNullString(row.CurrentPrice),
			toNullString(row.Change),
			toNullString(row.ChangeSign),
			toNullString(row.ChangeRate),
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}

// LatestSnapshot returns the most recently fetched snapshot for market, or nil when none exists.
func (r *rankingsRepository) LatestSnapshot(market string) (*models.RankingSnapshot, error) {
	var s models.RankingSnapshot
	err := r.db.QueryRow(`
		SELECT id, market, trade_date, fetched_at, api_id, cont_yn, next_key
		FROM ranking_snapshots
		WHERE market = $1
		ORDER BY fetched_at DESC
		LIMIT 1`, market).Scan(&s.ID, &s.Market, &s.TradeDate, &s.FetchedAt, &s.APIID, &s.ContYn, &s.NextKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT position, now_rank, stk_cd, stk_nm, cur_prc, pred_pre, pred_pre_sig, flu_rt
		FROM ranking_rows
		WHERE snapshot_id = $1
		ORDER BY position ASC`, s.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			row                                         models.RankingRow
			rank, code, name, price, chg, sign, chgRate sql.NullString
		)
		if err := rows.Scan(&row.Position, &rank, &code, &name, &price, &chg, &sign, &chgRate); err != nil {
			return nil, err
		}
		row.Rank = fromNullString(rank)
		row.Code = fromNullString(code)
		row.Name = fromNullString(name)
		row.CurrentPrice = fromNullString(price)
		row.Change = fromNullString(chg)
		row.ChangeSign = fromNullString(sign)
		row.ChangeRate = fromNullString(chgRate)
		s.Rows = append(s.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &s, nil
}

// HasSnapshotForDate checks if a snapshot was already stored for a trading day and market.
func (r *rankingsRepository) HasSnapshotForDate(date time.Time, market string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ranking_snapshots WHERE trade_date = $1 AND market = $2)`, date, market).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// toNullString maps absent fields to NULL.
func toNullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
