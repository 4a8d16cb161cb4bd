package packgen

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/source"
)

type Options struct {
	DataDir    string
	Files      map[string]string
	OutputPath string
}

// SourceStat 单个数据源写入情况
type SourceStat struct {
	Key    string
	File   string
	Points int
}

// Build 解析全部静态数据源并写入 SQLite 数据包。
// 先写入 <output>.tmp，全部成功后再替换目标文件。
func Build(ctx context.Context, opts Options) ([]SourceStat, error) {
	opts.OutputPath = source.ResolveBundlePath(opts.OutputPath)
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	packgenInfof("start: data_dir=%s, output=%s", opts.DataDir, opts.OutputPath)
	startAt := time.Now()

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := opts.OutputPath + ".tmp"
	_ = os.Remove(tmpPath)

	stats, err := writeBundle(ctx, tmpPath, opts)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}

	if err := os.Rename(tmpPath, opts.OutputPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("replace bundle: %w", err)
	}

	total := 0
	for _, s := range stats {
		total += s.Points
	}
	packgenInfof("done: sources=%d, points=%d, elapsed=%s", len(stats), total, time.Since(startAt).Truncate(time.Millisecond))
	return stats, nil
}

func writeBundle(ctx context.Context, path string, opts Options) ([]SourceStat, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA journal_mode=OFF;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=OFF;"); err != nil {
		return nil, err
	}
	if err := source.EnsureSchema(db); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	srcStmt, err := tx.PrepareContext(ctx, `INSERT INTO sources(key, file, points, packed_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer srcStmt.Close()

	pointStmt, err := tx.PrepareContext(ctx, `INSERT INTO forecast_points(source, ds, yhat) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer pointStmt.Close()

	loader := source.NewFileLoader(opts.DataDir, opts.Files)
	packedAt := time.Now().UTC().Format(time.RFC3339)

	var stats []SourceStat
	for _, src := range asset.Sources() {
		points, err := loader.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Key, err)
		}
		for _, p := range points {
			if _, err := pointStmt.ExecContext(ctx, src.Key, p.Date, p.PredictedValue); err != nil {
				return nil, fmt.Errorf("insert %s %s: %w", src.Key, p.Date, err)
			}
		}
		file := filepath.Base(loader.Path(src))
		if _, err := srcStmt.ExecContext(ctx, src.Key, file, len(points), packedAt); err != nil {
			return nil, fmt.Errorf("insert source %s: %w", src.Key, err)
		}
		packgenInfof("packed: source=%s, file=%s, points=%d", src.Key, file, len(points))
		stats = append(stats, SourceStat{Key: src.Key, File: file, Points: len(points)})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stats, nil
}

func packgenInfof(format string, args ...any) {
	log.Printf("[INFO][ForecastPack] "+format, args...)
}
