package forecast

import (
	"context"
	"fmt"
	"log"
	"sort"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/model"
	"crypto-forecast-backend/internal/source"
)

// Assembler 根据校验后的请求组装预测响应
type Assembler struct {
	loader source.Loader
	window Window // 黄金历史数据的权威窗口
}

func NewAssembler(loader source.Loader, window Window) *Assembler {
	return &Assembler{loader: loader, window: window}
}

// Assemble 加载数据源、过滤日期区间并计算指标
func (a *Assembler) Assemble(ctx context.Context, req Request) (*model.ForecastResponse, error) {
	var series []model.ForecastPoint
	var err error
	if req.Asset.Hybrid() {
		series, err = a.hybridSeries(ctx, req)
	} else {
		series, err = a.singleSeries(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if len(series) == 0 {
		return nil, newError(KindNoDataForRange, "No forecast data available for the specified date range")
	}

	current, predicted, change, pct := Summarize(series)
	return &model.ForecastResponse{
		AssetID: req.Asset.Slug,
		DateRange: model.DateRange{
			Start: req.StartDate(),
			End:   req.EndDate(),
		},
		CurrentPrice:       current,
		PredictedPrice:     predicted,
		PriceChange:        change,
		PriceChangePercent: pct,
		Series:             series,
	}, nil
}

func (a *Assembler) singleSeries(ctx context.Context, req Request) ([]model.ForecastPoint, error) {
	src, _ := req.Asset.Source(asset.RoleForecast)
	points, err := a.load(ctx, req.Asset, src)
	if err != nil {
		return nil, err
	}
	return filterRange(points, req.StartDate(), req.EndDate(), nil), nil
}

// hybridSeries 历史窗口内使用历史数据，窗口外使用预测数据，同一日期历史数据优先
func (a *Assembler) hybridSeries(ctx context.Context, req Request) ([]model.ForecastPoint, error) {
	start, end := req.StartDate(), req.EndDate()
	histStart := a.window.Start.Format(model.DateLayout)
	histEnd := a.window.End.Format(model.DateLayout)

	var series []model.ForecastPoint

	if start <= histEnd && end >= histStart {
		src, _ := req.Asset.Source(asset.RoleHistorical)
		points, err := a.load(ctx, req.Asset, src)
		if err != nil {
			return nil, err
		}
		series = append(series, filterRange(points, maxDate(start, histStart), minDate(end, histEnd), nil)...)
	}

	if start < histStart || end > histEnd {
		src, _ := req.Asset.Source(asset.RoleForecast)
		points, err := a.load(ctx, req.Asset, src)
		if err != nil {
			return nil, err
		}
		outside := func(d string) bool { return d < histStart || d > histEnd }
		series = append(series, filterRange(points, start, end, outside)...)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series, nil
}

func (a *Assembler) load(ctx context.Context, as asset.Asset, src asset.Source) ([]model.ForecastPoint, error) {
	points, err := a.loader.Load(ctx, src)
	if err != nil {
		log.Printf("[ERROR][Forecast] 加载数据源 %s 失败: %v", src.Key, err)
		return nil, &Error{
			Kind:    KindSourceLoadFailure,
			Message: fmt.Sprintf("Failed to load %s forecast data", as.Slug),
			Err:     err,
		}
	}
	return points, nil
}

// filterRange 返回 [start, end] 闭区间内且满足 keep 的点，结果为新切片
func filterRange(points []model.ForecastPoint, start, end string, keep func(string) bool) []model.ForecastPoint {
	var out []model.ForecastPoint
	for _, p := range points {
		if p.Date < start || p.Date > end {
			continue
		}
		if keep != nil && !keep(p.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Summarize 计算当前价、预测价、涨跌额和涨跌幅(%)，series 不能为空
func Summarize(series []model.ForecastPoint) (current, predicted, change, pct float64) {
	current = series[0].PredictedValue
	predicted = series[len(series)-1].PredictedValue
	change = predicted - current
	if current > 0 {
		pct = change / current * 100
	}
	return current, predicted, change, pct
}

func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}
