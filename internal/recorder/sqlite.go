package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"DoubleDown/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			code                TEXT,
			start_date          TEXT,
			end_date            TEXT,
			strategy            TEXT,
			total_funds         REAL,
			initial_stock_count INTEGER,
			bars                INTEGER,
			final_total_asset   REAL,
			profit_loss         REAL,
			max_drawdown        REAL,
			peak_bet            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS equity_points (
			run_id       TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			date         TEXT,
			total_asset  REAL,
			market_value REAL,
			PRIMARY KEY (run_id, seq)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO runs
		(id, timestamp, code, start_date, end_date, strategy, total_funds, initial_stock_count,
		 bars, final_total_asset, profit_loss, max_drawdown, peak_bet)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.CreatedAt.Unix(), run.Code, run.StartDate, run.EndDate, string(run.Strategy),
		run.TotalFunds, run.InitialStockCount, run.Bars,
		run.FinalTotalAsset, run.ProfitLoss, run.MaxDrawdown, run.PeakBet,
	)
	return err
}

func (r *SQLiteRecorder) RecordPoints(runID string, points []model.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO equity_points (run_id, seq, date, total_asset, market_value) VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(runID, i, p.Date, p.TotalAsset, p.MarketValue); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, code, start_date, end_date, strategy, total_funds,
		initial_stock_count, bars, final_total_asset, profit_loss, max_drawdown, peak_bet
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var ts int64
		var strategy string
		if err := rows.Scan(&run.ID, &ts, &run.Code, &run.StartDate, &run.EndDate, &strategy,
			&run.TotalFunds, &run.InitialStockCount, &run.Bars,
			&run.FinalTotalAsset, &run.ProfitLoss, &run.MaxDrawdown, &run.PeakBet); err != nil {
			return nil, err
		}
		run.CreatedAt = time.Unix(ts, 0)
		run.Strategy = model.PriceField(strategy)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Points(runID string) ([]model.Point, error) {
	rows, err := r.db.Query(`SELECT date, total_asset, market_value FROM equity_points WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		var p model.Point
		if err := rows.Scan(&p.Date, &p.TotalAsset, &p.MarketValue); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
