package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SweepDB keeps batch sweep results in SQLite.
type SweepDB struct {
	conn *sqlx.DB
}

// SweepRow is one simulation of a batch. CreatedAt is unix seconds.
type SweepRow struct {
	BatchID   string  `db:"batch_id"`
	RunIndex  int     `db:"run_index"`
	Iteration int     `db:"iteration"`
	Seed      int64   `db:"seed"`
	Steps     int     `db:"steps"`
	Params    string  `db:"params_json"`
	Final     string  `db:"final_json"`
	Ratio     float64 `db:"ratio"`
	CreatedAt int64   `db:"created_at"`
}

type BatchSummary struct {
	BatchID   string `db:"batch_id"`
	Runs      int    `db:"runs"`
	CreatedAt int64  `db:"created_at"`
}

func OpenSweepDB(path string) (*SweepDB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sweep db: %w", err)
	}

	db := &SweepDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SweepDB) Close() error {
	return db.conn.Close()
}

func (db *SweepDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sweep_runs (
		batch_id TEXT NOT NULL,
		run_index INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		final_json TEXT NOT NULL,
		ratio REAL NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (batch_id, run_index)
	);

	CREATE INDEX IF NOT EXISTS idx_sweep_runs_batch ON sweep_runs(batch_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// NewSweepRow encodes params and final metric values as JSON columns.
func NewSweepRow(batchID string, runIndex, iteration int, seed int64, steps int, params, final map[string]float64, ratio float64) (SweepRow, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return SweepRow{}, err
	}
	f, err := json.Marshal(final)
	if err != nil {
		return SweepRow{}, err
	}
	return SweepRow{
		BatchID:   batchID,
		RunIndex:  runIndex,
		Iteration: iteration,
		Seed:      seed,
		Steps:     steps,
		Params:    string(p),
		Final:     string(f),
		Ratio:     ratio,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// SaveResults inserts all rows of a batch in one transaction.
func (db *SweepDB) SaveResults(rows []SweepRow) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		_, err := tx.NamedExec(`INSERT INTO sweep_runs
			(batch_id, run_index, iteration, seed, steps, params_json, final_json, ratio, created_at)
			VALUES (:batch_id, :run_index, :iteration, :seed, :steps, :params_json, :final_json, :ratio, :created_at)`, r)
		if err != nil {
			return fmt.Errorf("insert run %d: %w", r.RunIndex, err)
		}
	}
	return tx.Commit()
}

func (db *SweepDB) Results(batchID string) ([]SweepRow, error) {
	rows := []SweepRow{}
	err := db.conn.Select(&rows, `SELECT batch_id, run_index, iteration, seed, steps, params_json, final_json, ratio, created_at
		FROM sweep_runs WHERE batch_id = ? ORDER BY run_index`, batchID)
	return rows, err
}

func (db *SweepDB) Batches() ([]BatchSummary, error) {
	out := []BatchSummary{}
	err := db.conn.Select(&out, `SELECT batch_id, COUNT(*) AS runs, MIN(created_at) AS created_at
		FROM sweep_runs GROUP BY batch_id ORDER BY created_at`)
	return out, err
}

// DecodeParams returns the parameter values stored for a row.
func (r SweepRow) DecodeParams() (map[string]float64, error) {
	out := map[string]float64{}
	err := json.Unmarshal([]byte(r.Params), &out)
	return out, err
}

func (r SweepRow) DecodeFinal() (map[string]float64, error) {
	out := map[string]float64{}
	err := json.Unmarshal([]byte(r.Final), &out)
	return out, err
}
