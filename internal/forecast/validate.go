package forecast

import (
	"fmt"
	"time"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/config"
	"crypto-forecast-backend/internal/model"
)

const day = 24 * time.Hour

// Bounds 请求日期约束
type Bounds struct {
	MinDate     time.Time
	MaxDate     time.Time
	MaxSpanDays int
}

// Window 闭区间日期窗口
type Window struct {
	Start time.Time
	End   time.Time
}

// Request 校验通过的请求
type Request struct {
	Asset asset.Asset
	Start time.Time
	End   time.Time
}

func (r Request) StartDate() string { return r.Start.Format(model.DateLayout) }
func (r Request) EndDate() string   { return r.End.Format(model.DateLayout) }

// FromConfig 从配置构造请求约束和黄金历史窗口
func FromConfig(c config.BoundsConfig) (Bounds, Window, error) {
	var b Bounds
	var w Window
	var err error
	if b.MinDate, err = time.Parse(model.DateLayout, c.MinDate); err != nil {
		return b, w, fmt.Errorf("min date: %w", err)
	}
	if b.MaxDate, err = time.Parse(model.DateLayout, c.MaxDate); err != nil {
		return b, w, fmt.Errorf("max date: %w", err)
	}
	if w.Start, err = time.Parse(model.DateLayout, c.HistoricalStart); err != nil {
		return b, w, fmt.Errorf("historical start: %w", err)
	}
	if w.End, err = time.Parse(model.DateLayout, c.HistoricalEnd); err != nil {
		return b, w, fmt.Errorf("historical end: %w", err)
	}
	b.MaxSpanDays = c.MaxSpanDays
	return b, w, nil
}

// Validate 按顺序校验请求，遇到第一个错误即返回：
// 资产 -> 日期格式 -> 起止顺序 -> 全局边界 -> 跨度
func Validate(b Bounds, assetID, startDate, endDate string) (Request, error) {
	a, ok := asset.Lookup(assetID)
	if !ok {
		return Request{}, newError(KindUnsupportedAsset, fmt.Sprintf("Unsupported cryptocurrency: %s", assetID))
	}

	start, err1 := parseDate(startDate)
	end, err2 := parseDate(endDate)
	if err1 != nil || err2 != nil {
		return Request{}, newError(KindInvalidDateFormat, "Invalid date format")
	}

	if !start.Before(end) {
		return Request{}, newError(KindInvalidRange, "End date must be after start date")
	}

	if start.Before(b.MinDate) || end.After(b.MaxDate) {
		return Request{}, newError(KindOutOfBounds, fmt.Sprintf("Dates must be between %s and %s",
			b.MinDate.Format("January 2, 2006"), b.MaxDate.Format("January 2, 2006")))
	}

	if spanDays(start, end) > b.MaxSpanDays {
		return Request{}, newError(KindRangeTooLong, fmt.Sprintf("Forecast period cannot exceed %s", spanText(b.MaxSpanDays)))
	}

	return Request{Asset: a, Start: start, End: end}, nil
}

var dateLayouts = []string{model.DateLayout, time.RFC3339, "2006-01-02T15:04:05"}

// parseDate 解析日期，时间戳按其自身时区截断到日期
func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func spanDays(start, end time.Time) int {
	return int(end.Sub(start) / day)
}

func spanText(days int) string {
	if days == 365 {
		return "1 year"
	}
	return fmt.Sprintf("%d days", days)
}
