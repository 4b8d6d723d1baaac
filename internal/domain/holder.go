package domain

import "strings"

// HolderNode is one address's position in a token holder graph.
// Nodes arrive from the graph provider sorted by Percentage DESC.
type HolderNode struct {
	Address          string  // unique within a snapshot
	Amount           float64 // raw token amount held
	Percentage       float64 // share of supply, upstream units
	IsContract       bool    // held by a contract rather than a wallet
	Name             string  // known label (exchange, entity); empty when unknown
	TransactionCount int64
	TransferCount    int64
}

// HasName reports whether the node carries a usable label.
func (n HolderNode) HasName() bool {
	return strings.TrimSpace(n.Name) != ""
}

// HolderLink is an edge between two nodes, by index into HolderGraph.Nodes.
type HolderLink struct {
	Source   int
	Target   int
	Forward  float64
	Backward float64
}

// HolderGraph is the full holder snapshot for one token.
// Built fresh per query and never mutated after construction.
type HolderGraph struct {
	Chain        Chain
	TokenAddress string
	Symbol       string
	FullName     string
	UpdatedAt    string // upstream dt_update, opaque
	IsNFT        bool
	MaxAmount    float64
	MinAmount    float64
	Nodes        []HolderNode // ordered by Percentage DESC
	Links        []HolderLink
}

// TopHolder is one ranked row of a holder summary.
type TopHolder struct {
	Rank       int     // 1-based, by input position
	Label      string  // node name or truncated address
	Percentage float64 // passed through unmodified
}

// DistributionSummary is the analyzer's output for one graph.
type DistributionSummary struct {
	Score      float64 // [0,100], higher = more decentralized
	TopHolders []TopHolder
}
