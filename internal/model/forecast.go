package model

// DateLayout 序列与请求中使用的日期格式
const DateLayout = "2006-01-02"

// ForecastPoint 单日预测值
type ForecastPoint struct {
	Date           string  `json:"ds"`   // YYYY-MM-DD
	PredictedValue float64 `json:"yhat"` // 预测价格
}

// ForecastRequest 预测请求
type ForecastRequest struct {
	Cryptocurrency string `json:"cryptocurrency"`
	AssetID        string `json:"assetId"` // cryptocurrency 的别名
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}

// Asset 返回请求中的资产标识，cryptocurrency 优先
func (r ForecastRequest) Asset() string {
	if r.Cryptocurrency != "" {
		return r.Cryptocurrency
	}
	return r.AssetID
}

// DateRange 请求的日期区间
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ForecastResponse 预测响应
type ForecastResponse struct {
	AssetID            string          `json:"cryptocurrency"`
	DateRange          DateRange       `json:"dateRange"`
	CurrentPrice       float64         `json:"currentPrice"`
	PredictedPrice     float64         `json:"predictedPrice"`
	PriceChange        float64         `json:"priceChange"`
	PriceChangePercent float64         `json:"priceChangePercent"`
	Series             []ForecastPoint `json:"data"`
}

// AssetInfo 资产列表项
type AssetInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Hybrid bool   `json:"hybrid"`
}
