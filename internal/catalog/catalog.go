// Package catalog holds the commodity and wholesale-market catalogues.
//
// The catalogues are plain data so the same pipeline serves every crop
// series; adding a commodity is a table entry, not a code change.
package catalog

// Commodity is one entry of the MOA crop catalogue.
type Commodity struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// commodities is the FT-series pumpkin catalogue (南瓜全系列).
// Codes follow the MOA 農產品交易行情站 crop coding.
var commodities = []Commodity{
	{Code: "FT1", Name: "南瓜-木瓜形"},
	{Code: "FT2", Name: "南瓜-圓形"},
	{Code: "FT3", Name: "南瓜-黃如意"},
	{Code: "FT4", Name: "南瓜-觀賞用"},
	{Code: "FT5", Name: "南瓜-青如意"},
	{Code: "FT6", Name: "南瓜-東昇"},
	{Code: "FT7", Name: "南瓜-栗子"},
	{Code: "FT11", Name: "南瓜-木瓜形(阿成)"},
	{Code: "FT12", Name: "南瓜-木瓜形(阿嬌)"},
	{Code: "FT71", Name: "南瓜-栗子(小紅)"},
	{Code: "FT0", Name: "南瓜-其他"},
}

// markets lists the wholesale-market labels observed in the feed.
//
// Matching is exact and case-sensitive. The same physical market can
// appear under more than one label over time (桃園區 vs 桃農); callers
// pick every label they care about. No alias table is maintained here
// because none is published upstream.
var markets = []string{
	"台北一", "台北二", "板橋區", "三重區", "宜蘭市",
	"桃園區", "桃農", "新竹市", "台中市", "豐原區",
	"南投市", "西螺鎮", "嘉義市", "高雄市", "鳳山區",
	"屏東市", "花蓮市", "台東市",
}

// Commodities returns the full commodity catalogue.
func Commodities() []Commodity {
	out := make([]Commodity, len(commodities))
	copy(out, commodities)
	return out
}

// Markets returns the known wholesale-market labels.
func Markets() []string {
	out := make([]string, len(markets))
	copy(out, markets)
	return out
}

// FindCommodity looks up a commodity by its catalogue code.
func FindCommodity(code string) (Commodity, bool) {
	for _, c := range commodities {
		if c.Code == code {
			return c, true
		}
	}
	return Commodity{}, false
}
