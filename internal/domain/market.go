package domain

// TokenInfo is market data for one token from the price-aggregation API.
type TokenInfo struct {
	ID                int64
	Name              string
	Symbol            string
	Description       string
	Website           string // first website URL, empty if none
	Explorer          string // first explorer URL, empty if none
	Twitter           string // first twitter URL, empty if none
	Price             float64
	PercentChange24h  float64
	MarketCap         float64
	Volume24h         float64
	CirculatingSupply *float64 // nullable
	TotalSupply       *float64 // nullable
}
