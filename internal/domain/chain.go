package domain

import (
	"fmt"
	"strings"
)

// Chain is a blockchain short code understood by the token-graph API.
type Chain string

const (
	ChainEthereum  Chain = "eth"
	ChainBSC       Chain = "bsc"
	ChainFantom    Chain = "ftm"
	ChainAvalanche Chain = "avax"
	ChainCronos    Chain = "cro"
	ChainArbitrum  Chain = "arbi"
	ChainPolygon   Chain = "poly"
	ChainBase      Chain = "base"
	ChainSolana    Chain = "sol"
	ChainSonic     Chain = "sonic"
)

// DefaultChain is the chain a new conversation starts on.
const DefaultChain = ChainEthereum

// supportedChains keeps menu order.
var supportedChains = []Chain{
	ChainEthereum,
	ChainBSC,
	ChainFantom,
	ChainAvalanche,
	ChainCronos,
	ChainArbitrum,
	ChainPolygon,
	ChainBase,
	ChainSolana,
	ChainSonic,
}

// SupportedChains returns all supported chains in display order.
func SupportedChains() []Chain {
	out := make([]Chain, len(supportedChains))
	copy(out, supportedChains)
	return out
}

// ParseChain normalizes s and checks it against the supported set.
func ParseChain(s string) (Chain, error) {
	c := Chain(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported chain %q", s)
	}
	return c, nil
}

// String returns the string representation of Chain.
func (c Chain) String() string {
	return string(c)
}

// Label returns the upper-cased code used in user-facing text.
func (c Chain) Label() string {
	return strings.ToUpper(string(c))
}

// IsValid checks if the chain is a supported value.
func (c Chain) IsValid() bool {
	for _, s := range supportedChains {
		if c == s {
			return true
		}
	}
	return false
}

// IsSolana reports whether addresses on this chain are base58 public keys.
func (c Chain) IsSolana() bool {
	return c == ChainSolana
}
