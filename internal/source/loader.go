package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/model"
)

// Loader 加载单个数据源的完整序列。
// 返回的切片可能被多个请求共享，调用方不得修改。
type Loader interface {
	Load(ctx context.Context, src asset.Source) ([]model.ForecastPoint, error)
}

// FileLoader 从静态文件目录读取数据源
type FileLoader struct {
	Dir   string
	Files map[string]string // source key -> 文件名，覆盖默认文件名
}

func NewFileLoader(dir string, files map[string]string) *FileLoader {
	return &FileLoader{Dir: dir, Files: files}
}

// Path 返回数据源对应的文件路径
func (l *FileLoader) Path(src asset.Source) string {
	name := src.File
	if override, ok := l.Files[src.Key]; ok && override != "" {
		name = override
	}
	return filepath.Join(l.Dir, name)
}

func (l *FileLoader) Load(ctx context.Context, src asset.Source) ([]model.ForecastPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.Path(src)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", src.Key, err)
	}
	defer f.Close()

	return Parse(f, src.Format)
}

// Parse 按格式解析数据源内容
func Parse(r io.Reader, format asset.Format) ([]model.ForecastPoint, error) {
	switch format {
	case asset.FormatProphetJSON:
		return ParseJSON(r)
	case asset.FormatHistoricalCSV:
		return ParseHistoricalCSV(r)
	default:
		return nil, fmt.Errorf("unknown source format %d", format)
	}
}
