package marketdata

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

type apiStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// infoResponse is the /cryptocurrency/info payload, keyed by listing id.
type infoResponse struct {
	Status apiStatus            `json:"status"`
	Data   map[string]infoEntry `json:"data"`
}

type infoEntry struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	URLs        infoURLs `json:"urls"`
}

type infoURLs struct {
	Website  []string `json:"website"`
	Explorer []string `json:"explorer"`
	Twitter  []string `json:"twitter"`
}

// pick returns the listing with the lowest numeric id. An address can map
// to several listings; map order in the payload is not stable.
func (r *infoResponse) pick() *infoEntry {
	if len(r.Data) == 0 {
		return nil
	}
	entries := make([]infoEntry, 0, len(r.Data))
	for key, e := range r.Data {
		if e.ID == 0 {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil {
				e.ID = id
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return &entries[0]
}

// quotesResponse is the /cryptocurrency/quotes/latest payload. Depending on
// the query, each id maps to one object or to an array of them.
type quotesResponse struct {
	Status apiStatus                  `json:"status"`
	Data   map[string]json.RawMessage `json:"data"`
}

type quoteEntry struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Symbol            string              `json:"symbol"`
	CirculatingSupply *float64            `json:"circulating_supply"`
	TotalSupply       *float64            `json:"total_supply"`
	Quote             map[string]usdQuote `json:"quote"`
}

type usdQuote struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
}

// lookup returns the quote entry for id, or nil if absent.
func (r *quotesResponse) lookup(id int64) (*quoteEntry, error) {
	raw, ok := r.Data[strconv.FormatInt(id, 10)]
	if !ok {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []quoteEntry
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
		if len(list) > 0 {
			return &list[0], nil
		}
		return nil, nil
	}
	var entry quoteEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
