package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/model"
)

const DefaultBundleFileName = "forecasts.db"

// ResolveBundlePath 目录或无扩展名路径补全为目录下的默认数据包文件
func ResolveBundlePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if filepath.Ext(p) == "" {
		return filepath.Join(p, DefaultBundleFileName)
	}
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		return filepath.Join(p, DefaultBundleFileName)
	}
	return p
}

// EnsureSchema 创建数据包表结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			key TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			points INTEGER NOT NULL,
			packed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS forecast_points (
			source TEXT NOT NULL,
			ds TEXT NOT NULL,
			yhat REAL NOT NULL,
			PRIMARY KEY (source, ds)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SQLiteLoader 从只读 SQLite 数据包读取数据源
type SQLiteLoader struct {
	db   *sql.DB
	path string
}

func OpenSQLiteLoader(path string) (*SQLiteLoader, error) {
	path = ResolveBundlePath(path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", filepath.ToSlash(path)))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open bundle %s: %w", path, err)
	}
	return &SQLiteLoader{db: db, path: path}, nil
}

func (l *SQLiteLoader) Path() string {
	return l.path
}

func (l *SQLiteLoader) Load(ctx context.Context, src asset.Source) ([]model.ForecastPoint, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT points FROM sources WHERE key = ?`, src.Key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s not found in bundle", src.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("query source %s: %w", src.Key, err)
	}

	rows, err := l.db.QueryContext(ctx, `SELECT ds, yhat FROM forecast_points WHERE source = ? ORDER BY ds ASC`, src.Key)
	if err != nil {
		return nil, fmt.Errorf("query points %s: %w", src.Key, err)
	}
	defer rows.Close()

	points := make([]model.ForecastPoint, 0, n)
	for rows.Next() {
		var ds string
		var yhat float64
		if err := rows.Scan(&ds, &yhat); err != nil {
			return nil, fmt.Errorf("scan point %s: %w", src.Key, err)
		}
		date, ok := NormalizeDate(ds)
		if !ok || !finite(yhat) {
			continue
		}
		points = append(points, model.ForecastPoint{Date: date, PredictedValue: yhat})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortUnique(points), nil
}

func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}
