package db

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // driver: mysql
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sqlx.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:papers.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/papers?sslmode=disable"
		}
	case DriverMySQL:
		drvName = "mysql"
		if dsn == "" {
			dsn = "root@tcp(localhost:3306)/papers"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sqlx.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared across queries
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the catalog and event tables when missing.
// Statements run one by one since not every driver accepts a batch.
func EnsureSchema(ctx context.Context, db *sqlx.DB, driver Driver) error {
	for _, stmt := range strings.Split(schemaFor(driver), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func schemaFor(driver Driver) string {
	id, text := "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT"
	switch driver {
	case DriverPostgres:
		id = "BIGSERIAL PRIMARY KEY"
	case DriverMySQL:
		id, text = "BIGINT AUTO_INCREMENT PRIMARY KEY", "VARCHAR(255)"
	}
	r := strings.NewReplacer("{{id}}", id, "{{short}}", text)
	return r.Replace(schemaTemplate)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS lessons (
  id {{id}},
  subject {{short}} NOT NULL,
  grade {{short}} NOT NULL,
  title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS learning_outcomes (
  id {{id}},
  lesson_id BIGINT NOT NULL,
  description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id {{id}},
  subject {{short}} NOT NULL,
  grade {{short}} NOT NULL,
  question_text TEXT NOT NULL,
  question_type {{short}} NOT NULL,
  marks INTEGER NOT NULL,
  answer_key TEXT,
  image_url TEXT,
  difficulty INTEGER NOT NULL DEFAULT 1,
  lesson_id BIGINT NOT NULL,
  lo_id BIGINT
);

CREATE TABLE IF NOT EXISTS event_log (
  seq {{id}},
  site_id {{short}} NOT NULL,
  typ {{short}} NOT NULL,
  ref_key {{short}} NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
