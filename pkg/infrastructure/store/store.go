// Package store archives planning runs into a SQLite database so past days
// stay queryable after the CSV reports are gone.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
)

// Store wraps the run-archive SQLite database
type Store struct {
	sql *sql.DB
}

// Open opens (or creates) the archive database and runs migrations
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate archive db: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate() error {
	_, err := s.sql.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			day         TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			n_trucks    INTEGER NOT NULL,
			c_total     TEXT NOT NULL,
			c_per_vol   REAL NOT NULL,
			c_per_w     REAL NOT NULL,
			e_pack      REAL NOT NULL,
			cv_u_vol    REAL NOT NULL,
			miss_vip    INTEGER NOT NULL,
			miss_due    INTEGER NOT NULL,
			vip_ontime  REAL NOT NULL,
			cold_on_dry INTEGER NOT NULL,
			under_min   INTEGER NOT NULL,
			cap_viols   INTEGER NOT NULL,
			splits      INTEGER NOT NULL,
			sum_q       REAL NOT NULL,
			sum_v_eff   REAL NOT NULL,
			sum_w       REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS truck_kpis (
			run_id     TEXT NOT NULL,
			truck_id   TEXT NOT NULL,
			is_reefer  INTEGER NOT NULL,
			used_v_eff REAL NOT NULL,
			used_q_cold REAL NOT NULL,
			used_w     REAL NOT NULL,
			u_vol      REAL NOT NULL,
			u_w        REAL NOT NULL,
			u_cold     REAL NOT NULL,
			u_bn       REAL NOT NULL,
			under_min  INTEGER NOT NULL,
			departed   INTEGER NOT NULL,
			PRIMARY KEY (run_id, truck_id)
		);

		CREATE TABLE IF NOT EXISTS assignments (
			run_id   TEXT NOT NULL,
			order_id TEXT NOT NULL,
			truck_id TEXT NOT NULL,
			item_id  TEXT NOT NULL,
			qty      INTEGER NOT NULL,
			zone     TEXT NOT NULL,
			lane     TEXT NOT NULL,
			layer    INTEGER NOT NULL,
			pos      INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_assignments_run ON assignments(run_id);
	`)
	return err
}

// SaveRun archives one planned day inside a single transaction
func (s *Store) SaveRun(runID string, day time.Time, summary tracking.DaySummary, assignments []tracking.AssignmentRow) error {
	tx, err := s.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	f := summary.Fleet
	if _, err := tx.Exec(`
		INSERT INTO runs (run_id, day, created_at, n_trucks, c_total, c_per_vol, c_per_w,
			e_pack, cv_u_vol, miss_vip, miss_due, vip_ontime, cold_on_dry,
			under_min, cap_viols, splits, sum_q, sum_v_eff, sum_w)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, day.Format("2006-01-02"), time.Now().UTC().Format(time.RFC3339),
		f.NTrucksUsed, f.CTotal.String(), f.CPerVol, f.CPerW,
		f.EPack, f.CVUVol, f.MissVIP, f.MissDue, f.VIPOnTime, f.ColdOnDryCount,
		f.UnderMinCount, f.CapViolations, f.SplitsCount, f.SumQ, f.SumVEff, f.SumW,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	truckStmt, err := tx.Prepare(`
		INSERT INTO truck_kpis (run_id, truck_id, is_reefer, used_v_eff, used_q_cold, used_w,
			u_vol, u_w, u_cold, u_bn, under_min, departed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare truck insert: %w", err)
	}
	defer truckStmt.Close()
	for _, t := range summary.PerTruck {
		if _, err := truckStmt.Exec(runID, t.TruckID, boolInt(t.IsReefer),
			t.UsedVEff, t.UsedQCold, t.UsedW,
			t.UVol, t.UW, t.UCold, t.UBn, t.UnderMin, boolInt(t.Departed)); err != nil {
			return fmt.Errorf("insert truck kpis %s: %w", t.TruckID, err)
		}
	}

	asgStmt, err := tx.Prepare(`
		INSERT INTO assignments (run_id, order_id, truck_id, item_id, qty, zone, lane, layer, pos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare assignment insert: %w", err)
	}
	defer asgStmt.Close()
	for _, a := range assignments {
		if _, err := asgStmt.Exec(runID, a.OrderID, a.TruckID, a.ItemID, a.Qty, a.Zone, a.Lane, a.Layer, a.Pos); err != nil {
			return fmt.Errorf("insert assignment %s/%s: %w", a.OrderID, a.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// RunSummary is one archived run row
type RunSummary struct {
	RunID     string
	Day       string
	CreatedAt string
	NTrucks   int
	CTotal    string
	EPack     float64
	MissVIP   int
	MissDue   int
}

// ListRuns returns the most recent archived runs, newest first
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sql.Query(`
		SELECT run_id, day, created_at, n_trucks, c_total, e_pack, miss_vip, miss_due
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Day, &r.CreatedAt, &r.NTrucks, &r.CTotal, &r.EPack, &r.MissVIP, &r.MissDue); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
