package bubblemaps

import "bubblemaps-bot/internal/domain"

// mapDataResponse is the raw /map-data payload.
type mapDataResponse struct {
	Version      int          `json:"version"`
	Chain        string       `json:"chain"`
	TokenAddress string       `json:"token_address"`
	UpdatedAt    string       `json:"dt_update"`
	FullName     string       `json:"full_name"`
	Symbol       string       `json:"symbol"`
	IsX721       bool         `json:"is_X721"`
	Metadata     *mapMetadata `json:"metadata"`
	Nodes        []mapNode    `json:"nodes"`
	Links        []mapLink    `json:"links"`
}

type mapMetadata struct {
	MaxAmount float64 `json:"max_amount"`
	MinAmount float64 `json:"min_amount"`
}

type mapNode struct {
	Address          string  `json:"address"`
	Amount           float64 `json:"amount"`
	IsContract       bool    `json:"is_contract"`
	Name             *string `json:"name"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int64   `json:"transaction_count"`
	TransferCount    int64   `json:"transfer_count"`
}

type mapLink struct {
	Backward float64 `json:"backward"`
	Forward  float64 `json:"forward"`
	Source   int     `json:"source"`
	Target   int     `json:"target"`
}

// toDomain converts the payload. Upstream chain/address fields win when set.
func (r *mapDataResponse) toDomain(chain domain.Chain, address string) *domain.HolderGraph {
	g := &domain.HolderGraph{
		Chain:        chain,
		TokenAddress: address,
		Symbol:       r.Symbol,
		FullName:     r.FullName,
		UpdatedAt:    r.UpdatedAt,
		IsNFT:        r.IsX721,
		Nodes:        make([]domain.HolderNode, 0, len(r.Nodes)),
		Links:        make([]domain.HolderLink, 0, len(r.Links)),
	}
	if c, err := domain.ParseChain(r.Chain); err == nil {
		g.Chain = c
	}
	if r.TokenAddress != "" {
		g.TokenAddress = r.TokenAddress
	}
	if r.Metadata != nil {
		g.MaxAmount = r.Metadata.MaxAmount
		g.MinAmount = r.Metadata.MinAmount
	}

	for _, n := range r.Nodes {
		node := domain.HolderNode{
			Address:          n.Address,
			Amount:           n.Amount,
			Percentage:       n.Percentage,
			IsContract:       n.IsContract,
			TransactionCount: n.TransactionCount,
			TransferCount:    n.TransferCount,
		}
		if n.Name != nil {
			node.Name = *n.Name
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, l := range r.Links {
		g.Links = append(g.Links, domain.HolderLink{
			Source:   l.Source,
			Target:   l.Target,
			Forward:  l.Forward,
			Backward: l.Backward,
		})
	}

	return g
}
