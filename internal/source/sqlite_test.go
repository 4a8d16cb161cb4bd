package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"crypto-forecast-backend/internal/asset"
)

func TestSQLiteLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts.db")
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		t.Fatal(err)
	}
	if err := EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`INSERT INTO sources(key, file, points, packed_at) VALUES ('bitcoin', 'crypto_forecast.json', 2, '2025-08-01')`,
		`INSERT INTO forecast_points(source, ds, yhat) VALUES ('bitcoin', '2025-08-10', 2)`,
		`INSERT INTO forecast_points(source, ds, yhat) VALUES ('bitcoin', '2025-08-09', 1)`,
		`INSERT INTO forecast_points(source, ds, yhat) VALUES ('ethereum', '2025-08-09', 5)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	l, err := OpenSQLiteLoader(path)
	if err != nil {
		t.Fatalf("OpenSQLiteLoader: %v", err)
	}
	defer l.Close()

	points, err := l.Load(context.Background(), asset.Get(asset.Bitcoin).Sources[0])
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(points) != 2 || points[0].Date != "2025-08-09" || points[1].PredictedValue != 2 {
		t.Fatalf("points = %+v", points)
	}

	// ethereum 有数据点但没有登记在 sources 表
	if _, err := l.Load(context.Background(), asset.Get(asset.Ethereum).Sources[0]); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestOpenSQLiteLoaderMissing(t *testing.T) {
	if _, err := OpenSQLiteLoader(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error")
	}
}

func TestResolveBundlePath(t *testing.T) {
	dir := t.TempDir()
	if got := ResolveBundlePath(dir); got != filepath.Join(dir, DefaultBundleFileName) {
		t.Errorf("dir -> %q", got)
	}
	if got := ResolveBundlePath("/data/x.db"); got != "/data/x.db" {
		t.Errorf("file -> %q", got)
	}
	if got := ResolveBundlePath(""); got != "" {
		t.Errorf("empty -> %q", got)
	}
}
