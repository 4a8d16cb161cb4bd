package asset

import "strings"

// ID 支持的资产
type ID int

const (
	Bitcoin ID = iota
	Ethereum
	Dogecoin
	Gold
)

// Format 静态数据文件格式
type Format int

const (
	FormatProphetJSON   Format = iota // [{"ds": "...", "yhat": 1.0}]
	FormatHistoricalCSV               // "DD-MM-YYYY","1,234.56"
)

// Role 数据源在资产中的角色
type Role int

const (
	RoleForecast Role = iota
	RoleHistorical
)

// Source 静态数据源
type Source struct {
	Key    string // 缓存键，也是数据包中的 source 列
	File   string // 默认文件名
	Format Format
	Role   Role
}

// Asset 资产定义
type Asset struct {
	ID      ID
	Slug    string
	Name    string
	Symbol  string
	Sources []Source
}

var table = [...]Asset{
	Bitcoin: {
		ID: Bitcoin, Slug: "bitcoin", Name: "Bitcoin", Symbol: "BTC",
		Sources: []Source{{Key: "bitcoin", File: "crypto_forecast.json", Format: FormatProphetJSON}},
	},
	Ethereum: {
		ID: Ethereum, Slug: "ethereum", Name: "Ethereum", Symbol: "ETH",
		Sources: []Source{{Key: "ethereum", File: "eth_forecast.json", Format: FormatProphetJSON}},
	},
	Dogecoin: {
		ID: Dogecoin, Slug: "dogecoin", Name: "Dogecoin", Symbol: "DOGE",
		Sources: []Source{{Key: "dogecoin", File: "doge_forecast.json", Format: FormatProphetJSON}},
	},
	Gold: {
		ID: Gold, Slug: "gold", Name: "Gold", Symbol: "XAU",
		Sources: []Source{
			{Key: "gold", File: "gold_forecast.json", Format: FormatProphetJSON, Role: RoleForecast},
			{Key: "gold-actual", File: "gold_actual_data.csv", Format: FormatHistoricalCSV, Role: RoleHistorical},
		},
	},
}

// All 按展示顺序返回全部资产
func All() []Asset {
	out := make([]Asset, len(table))
	copy(out, table[:])
	return out
}

// Lookup 按标识查找资产，忽略大小写和首尾空白
func Lookup(s string) (Asset, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range table {
		if a.Slug == s {
			return a, true
		}
	}
	return Asset{}, false
}

// Get 返回 id 对应的资产
func Get(id ID) Asset {
	return table[id]
}

// Sources 返回全部资产的数据源
func Sources() []Source {
	var out []Source
	for _, a := range table {
		out = append(out, a.Sources...)
	}
	return out
}

func (id ID) String() string {
	if id < 0 || int(id) >= len(table) {
		return "unknown"
	}
	return table[id].Slug
}

// Hybrid 资产是否由历史数据和预测数据拼接
func (a Asset) Hybrid() bool {
	_, ok := a.Source(RoleHistorical)
	return ok
}

// Source 返回指定角色的数据源
func (a Asset) Source(role Role) (Source, bool) {
	for _, s := range a.Sources {
		if s.Role == role {
			return s, true
		}
	}
	return Source{}, false
}
