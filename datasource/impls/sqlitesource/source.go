package sqlitesource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcalheatmap/datasource"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS heatmap_values (
	ts INTEGER PRIMARY KEY,
	v  REAL NOT NULL
)`

// Source stores values in a single sqlite table keyed by unix seconds.
type Source struct {
	logger l.Wrapper
	sqlDB  *sql.DB
}

var _ datasource.Storage = (*Source)(nil)

func Open(path string, logger l.Wrapper) (*Source, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err = sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Source{
		logger: logger.WithFields(l.StringField(l.ClsKey, "sqliteSource")),
		sqlDB:  sqlDB,
	}, nil
}

func (s *Source) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

func (s *Source) Load(ctx context.Context, start, end time.Time) (map[int64]float64, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT ts, v FROM heatmap_values WHERE ts >= ? AND ts < ?`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	values := make(map[int64]float64)

	for rows.Next() {
		var (
			ts int64
			v  float64
		)

		if err = rows.Scan(&ts, &v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}

		values[ts] = v
	}

	return values, rows.Err()
}

func (s *Source) Add(ctx context.Context, at time.Time, v float64) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO heatmap_values (ts, v) VALUES (?, ?) ON CONFLICT(ts) DO UPDATE SET v = v + excluded.v`,
		at.Unix(), v)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("add value failed")
	}

	return err
}

func (s *Source) Set(ctx context.Context, at time.Time, v float64) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO heatmap_values (ts, v) VALUES (?, ?) ON CONFLICT(ts) DO UPDATE SET v = excluded.v`,
		at.Unix(), v)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("set value failed")
	}

	return err
}
