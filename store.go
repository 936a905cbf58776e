package inkwell

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store wraps the SQLite database and provides all content accessors.
// It also owns the view-count throttle, which is process-local state.
type Store struct {
	db    *sql.DB
	views ViewThrottle
}

// NewStore opens (or creates) the database at path, ensures the data
// directory exists, tunes pragmas, and runs pending migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// _time_format=sqlite stores timestamps in a form SQLite's date
	// functions (strftime in the archive queries) can parse.
	db, err := sql.Open("sqlite", "file:"+path+"?_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait instead of
	// failing, foreign_keys for the category->posts cascade.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := migrateUp(db); err != nil {
		return nil, fmt.Errorf("inkwell: migrate: %w", err)
	}

	return &Store{
		db:    db,
		views: newViewThrottle(viewWindow, viewSweepInterval),
	}, nil
}

// Close stops the throttle sweeper and closes the database.
func (s *Store) Close() error {
	if s.views != nil {
		s.views.Stop()
	}
	return s.db.Close()
}

// SetViewThrottle replaces the throttle implementation. Used by tests to
// inject a deterministic clock, and by multi-instance deployments to plug in
// a shared store.
func (s *Store) SetViewThrottle(t ViewThrottle) {
	if s.views != nil {
		s.views.Stop()
	}
	s.views = t
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		src.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		src.Close()
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// orderClause builds an ORDER BY fragment from q, admitting only columns in
// allowed (query name -> SQL column). Unknown columns fall back to def.
func orderClause(q ListQuery, allowed map[string]string, def string) string {
	col, ok := allowed[q.OrderBy]
	if !ok {
		return def
	}
	dir := "ASC"
	if strings.EqualFold(q.Order, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

// limitClause translates page/limit into LIMIT/OFFSET. Paging applies only
// when both values are positive, matching the API contract.
func limitClause(q ListQuery) string {
	if q.Page < 1 || q.Limit < 1 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, (q.Page-1)*q.Limit)
}
