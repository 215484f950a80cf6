package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the render journal to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets readers query the journal while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			id           TEXT PRIMARY KEY,
			request_id   TEXT,
			timestamp    INTEGER NOT NULL,
			provider     TEXT,
			symbol       TEXT,
			bar_interval TEXT,
			row_count    INTEGER,
			status       TEXT,
			error        TEXT,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renders_ts ON renders(timestamp)`,

		`CREATE TABLE IF NOT EXISTS provider_probes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			provider    TEXT,
			symbol      TEXT,
			ok          INTEGER,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_probes_ts ON provider_probes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}

	// journals created before request_id existed
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('renders') WHERE name = 'request_id'`).Scan(&n); err != nil {
		return fmt.Errorf("inspect renders: %w", err)
	}
	if n == 0 {
		if _, err := r.db.Exec(`ALTER TABLE renders ADD COLUMN request_id TEXT`); err != nil {
			return fmt.Errorf("add request_id: %w", err)
		}
	}
	if _, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_renders_request ON renders(request_id)`); err != nil {
		return fmt.Errorf("index request_id: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO renders
		(id, request_id, timestamp, provider, symbol, bar_interval, row_count, status, error, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, evt.RequestID, r.now().Unix(), evt.Provider, evt.Symbol, evt.Interval,
		evt.Rows, evt.Status, evt.Error, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordProbe(evt *ProbeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO provider_probes
		(timestamp, provider, symbol, ok, error, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Provider, evt.Symbol, evt.OK, evt.Error, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) Prune(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, table := range []string{"renders", "provider_probes"} {
		res, err := r.db.Exec(`DELETE FROM `+table+` WHERE timestamp < ?`, cutoff.Unix())
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
