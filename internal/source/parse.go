package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"crypto-forecast-backend/internal/model"
)

var quotedField = regexp.MustCompile(`"([^"]*)"`)

// rawPoint 兼容 Prophet 输出 {ds, yhat} 和 {date, value}
type rawPoint struct {
	DS    *string  `json:"ds"`
	YHat  *float64 `json:"yhat"`
	Date  *string  `json:"date"`
	Value *float64 `json:"value"`
}

// ParseJSON 解析 JSON 数组格式的预测文件。
// 日期或数值无效的点会被丢弃，结果按日期升序且日期唯一。
func ParseJSON(r io.Reader) ([]model.ForecastPoint, error) {
	var raw []rawPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode forecast json: %w", err)
	}

	points := make([]model.ForecastPoint, 0, len(raw))
	for _, p := range raw {
		ds, value := p.DS, p.YHat
		if ds == nil {
			ds = p.Date
		}
		if value == nil {
			value = p.Value
		}
		if ds == nil || value == nil || !finite(*value) {
			continue
		}
		date, ok := NormalizeDate(*ds)
		if !ok {
			continue
		}
		points = append(points, model.ForecastPoint{Date: date, PredictedValue: *value})
	}
	return sortUnique(points), nil
}

// ParseHistoricalCSV 解析带引号的历史价格 CSV，每行形如 "12-09-2025","3,686.40"。
// 取每行前两个带引号字段，日期为 日-月-年，价格使用逗号作为千位分隔符。
// 无法解析的行（包括表头）被跳过。
func ParseHistoricalCSV(r io.Reader) ([]model.ForecastPoint, error) {
	var points []model.ForecastPoint

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := quotedField.FindAllStringSubmatch(scanner.Text(), -1)
		if len(fields) < 2 {
			continue
		}
		date, ok := parseDayMonthYear(fields[0][1])
		if !ok {
			continue
		}
		price, ok := parsePrice(fields[1][1])
		if !ok {
			continue
		}
		points = append(points, model.ForecastPoint{Date: date, PredictedValue: price})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read historical csv: %w", err)
	}
	return sortUnique(points), nil
}

// NormalizeDate 将 YYYY-MM-DD 或以其开头的时间戳规范为 YYYY-MM-DD
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return "", false
	}
	if len(s) > 10 && s[10] != 'T' && s[10] != ' ' {
		return "", false
	}
	t, err := time.Parse(model.DateLayout, s[:10])
	if err != nil {
		return "", false
	}
	return t.Format(model.DateLayout), true
}

func parseDayMonthYear(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return "", false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 31-02 归一化到三月，这里拒绝
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(model.DateLayout), true
}

func parsePrice(s string) (float64, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// sortUnique 按日期升序排序，重复日期保留先出现的点
func sortUnique(points []model.ForecastPoint) []model.ForecastPoint {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && p.Date == out[len(out)-1].Date {
			continue
		}
		out = append(out, p)
	}
	return out
}
