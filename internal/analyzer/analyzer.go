// Package analyzer computes the decentralization score and top-holder
// summary of a token holder graph. Everything here is pure: no I/O, no
// shared state, no mutation of the input graph.
package analyzer

import (
	"errors"
	"fmt"
	"math"

	"bubblemaps-bot/internal/domain"
)

const (
	// DefaultWindow is the number of leading holders the score is computed over.
	DefaultWindow = 10

	// DefaultTopN is the default length of a holder summary.
	DefaultTopN = 10

	// DefaultPercentageScale converts upstream percentage units into
	// human percent: 100 upstream units equal one percent.
	DefaultPercentageScale = 100.0
)

var (
	// ErrInsufficientData is returned when a graph has no usable holder data.
	// Callers should render "score unavailable".
	ErrInsufficientData = errors.New("insufficient holder data")

	// ErrInvalidLimit is returned when a summary is requested for n < 1.
	ErrInvalidLimit = errors.New("holder limit must be at least 1")
)

// Analyzer turns a HolderGraph into a DistributionSummary.
// The zero value is not usable; use New or Default.
type Analyzer struct {
	window int
	scale  float64
}

// Options configures an Analyzer. Zero fields take defaults.
type Options struct {
	Window          int     // leading holders in the score window
	PercentageScale float64 // upstream units per human percent
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		window: DefaultWindow,
		scale:  DefaultPercentageScale,
	}
	if opts.Window > 0 {
		a.window = opts.Window
	}
	if opts.PercentageScale > 0 {
		a.scale = opts.PercentageScale
	}
	return a
}

var defaultAnalyzer = New(Options{})

// Default returns the analyzer with default window and scale.
func Default() *Analyzer {
	return defaultAnalyzer
}

// PercentageScale returns the upstream units per human percent.
func (a *Analyzer) PercentageScale() float64 {
	return a.scale
}

// ComputeScore returns the decentralization score in [0,100].
//
// The score window is the first min(window, len(nodes)) nodes in the
// graph's own order; nodes are never re-sorted. Graphs with fewer holders
// than the window are scored over what exists, without padding.
func (a *Analyzer) ComputeScore(graph *domain.HolderGraph) (float64, error) {
	if graph == nil || len(graph.Nodes) == 0 {
		return 0, ErrInsufficientData
	}

	concentration := topConcentration(graph.Nodes, a.window)
	if math.IsNaN(concentration) || math.IsInf(concentration, 0) {
		return 0, fmt.Errorf("%w: non-finite top holder concentration", ErrInsufficientData)
	}

	score := clamp(100-concentration/a.scale, 0, 100)
	return roundTenths(score), nil
}

// SummarizeTopHolders returns up to n ranked holders in input order.
// Fewer than n entries are returned when the graph is smaller.
func (a *Analyzer) SummarizeTopHolders(graph *domain.HolderGraph, n int) ([]domain.TopHolder, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	if graph == nil {
		return []domain.TopHolder{}, nil
	}

	count := min(n, len(graph.Nodes))
	out := make([]domain.TopHolder, 0, count)
	for i := 0; i < count; i++ {
		node := graph.Nodes[i]
		out = append(out, domain.TopHolder{
			Rank:       i + 1,
			Label:      HolderLabel(node),
			Percentage: node.Percentage,
		})
	}
	return out, nil
}

// Summarize computes the score and the default-length holder summary.
// Fails with ErrInsufficientData on an empty graph.
func (a *Analyzer) Summarize(graph *domain.HolderGraph) (*domain.DistributionSummary, error) {
	score, err := a.ComputeScore(graph)
	if err != nil {
		return nil, err
	}
	holders, err := a.SummarizeTopHolders(graph, DefaultTopN)
	if err != nil {
		return nil, err
	}
	return &domain.DistributionSummary{
		Score:      score,
		TopHolders: holders,
	}, nil
}

// ComputeScore scores graph with the default analyzer.
func ComputeScore(graph *domain.HolderGraph) (float64, error) {
	return defaultAnalyzer.ComputeScore(graph)
}

// SummarizeTopHolders summarizes graph with the default analyzer.
func SummarizeTopHolders(graph *domain.HolderGraph, n int) ([]domain.TopHolder, error) {
	return defaultAnalyzer.SummarizeTopHolders(graph, n)
}

// topConcentration sums Percentage over the first window nodes.
func topConcentration(nodes []domain.HolderNode, window int) float64 {
	sum := 0.0
	for i := 0; i < len(nodes) && i < window; i++ {
		sum += nodes[i].Percentage
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundTenths rounds to one decimal place, half away from zero.
func roundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}
