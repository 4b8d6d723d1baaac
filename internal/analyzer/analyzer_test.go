package analyzer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"bubblemaps-bot/internal/domain"
)

// graphOf builds a graph whose nodes carry the given percentages in order.
func graphOf(percentages ...float64) *domain.HolderGraph {
	nodes := make([]domain.HolderNode, len(percentages))
	for i, p := range percentages {
		nodes[i] = domain.HolderNode{
			Address:    "0x" + strings.Repeat(string(rune('a'+i%26)), 40),
			Percentage: p,
		}
	}
	return &domain.HolderGraph{Symbol: "TKN", FullName: "Token", Nodes: nodes}
}

func TestComputeScore_KnownDistribution(t *testing.T) {
	// Sum = 4600 upstream units = 46% -> 54.0
	graph := graphOf(1200, 800, 600, 500, 400, 300, 300, 200, 200, 100)

	score, err := ComputeScore(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 54.0 {
		t.Errorf("expected 54.0, got %v", score)
	}
}

func TestComputeScore_FullyConcentrated(t *testing.T) {
	// 10000 units = 100% held by three wallets
	score, err := ComputeScore(graphOf(5000, 3000, 2000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.0 {
		t.Errorf("expected 0.0, got %v", score)
	}
}

func TestComputeScore_ClampsAboveHundredPercent(t *testing.T) {
	score, err := ComputeScore(graphOf(9000, 9000, 9000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.0 {
		t.Errorf("expected clamp to 0.0, got %v", score)
	}
}

func TestComputeScore_ClampsNegativePercentages(t *testing.T) {
	score, err := ComputeScore(graphOf(-500, -100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 100.0 {
		t.Errorf("expected clamp to 100.0, got %v", score)
	}
}

func TestComputeScore_EmptyGraph(t *testing.T) {
	tests := []struct {
		name  string
		graph *domain.HolderGraph
	}{
		{"nil graph", nil},
		{"nil nodes", &domain.HolderGraph{Symbol: "X"}},
		{"empty nodes", &domain.HolderGraph{Nodes: []domain.HolderNode{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeScore(tt.graph)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestComputeScore_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ComputeScore(graphOf(100, v, 50))
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("percentage %v: expected ErrInsufficientData, got %v", v, err)
		}
	}
}

func TestComputeScore_NonFiniteOutsideWindowIgnored(t *testing.T) {
	percentages := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, math.NaN()}
	score, err := ComputeScore(graphOf(percentages...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 90.0 {
		t.Errorf("expected 90.0, got %v", score)
	}
}

func TestComputeScore_OnlyFirstTenCount(t *testing.T) {
	ten := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100}
	withTail := append(append([]float64{}, ten...), 5000, 5000, 5000)

	a, err := ComputeScore(graphOf(ten...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeScore(graphOf(withTail...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("nodes past the window changed the score: %v vs %v", a, b)
	}
}

func TestComputeScore_NoResort(t *testing.T) {
	// The tail holds the largest value; input order is trusted.
	percentages := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 9000}
	score, err := ComputeScore(graphOf(percentages...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 99.0 {
		t.Errorf("expected 99.0, got %v", score)
	}
}

func TestComputeScore_FewerThanTenHolders(t *testing.T) {
	score, err := ComputeScore(graphOf(1000, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 85.0 {
		t.Errorf("expected 85.0, got %v", score)
	}
}

func TestComputeScore_RoundsToOneDecimal(t *testing.T) {
	tests := []struct {
		percentage float64
		want       float64
	}{
		{1234, 87.7},  // 87.66
		{1236, 87.6},  // 87.64
		{1235, 87.7},  // 87.65 rounds half away from zero
		{1, 100.0},    // 99.99
		{9999, 0.0},   // 0.01
		{9994, 0.1},   // 0.06
	}

	for _, tt := range tests {
		got, err := ComputeScore(graphOf(tt.percentage))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("percentage %v: expected %v, got %v", tt.percentage, tt.want, got)
		}
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	graph := graphOf(1200, 800, 600, 500, 400, 300, 300, 200, 200, 100)

	first, err := ComputeScore(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 20; run++ {
		got, err := ComputeScore(graph)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if got != first {
			t.Fatalf("run %d: score %v differs from %v", run, got, first)
		}
	}
}

func TestComputeScore_RangeInvariant(t *testing.T) {
	inputs := [][]float64{
		{0},
		{0, 0, 0},
		{1e12},
		{-1e12},
		{5000, 5000},
		{0.0001, 0.0002},
		{10000},
		{123.456, 789.012, 345.678},
	}

	for _, in := range inputs {
		score, err := ComputeScore(graphOf(in...))
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", in, err)
		}
		if score < 0 || score > 100 {
			t.Errorf("%v: score %v out of [0,100]", in, score)
		}
	}
}

func TestComputeScore_Monotonic(t *testing.T) {
	base := []float64{1200, 800, 600, 500, 400, 300, 300, 200, 200, 100}
	prev, err := ComputeScore(graphOf(base...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Raising any in-window percentage must never raise the score.
	for i := range base {
		for step := 1; step <= 5; step++ {
			bumped := append([]float64{}, base...)
			bumped[i] += float64(step) * 250
			got, err := ComputeScore(graphOf(bumped...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got > prev {
				t.Errorf("index %d step %d: score rose from %v to %v", i, step, prev, got)
			}
		}
	}
}

func TestComputeScore_DoesNotMutateGraph(t *testing.T) {
	graph := graphOf(300, 200, 100)
	before := append([]domain.HolderNode{}, graph.Nodes...)

	if _, err := ComputeScore(graph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := SummarizeTopHolders(graph, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range before {
		if graph.Nodes[i] != before[i] {
			t.Errorf("node %d mutated: %+v -> %+v", i, before[i], graph.Nodes[i])
		}
	}
}

func TestComputeScore_CustomScale(t *testing.T) {
	// Scale 1 treats percentages as already human percent.
	a := New(Options{PercentageScale: 1})
	score, err := a.ComputeScore(graphOf(12, 8, 6, 5, 4, 3, 3, 2, 2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 54.0 {
		t.Errorf("expected 54.0, got %v", score)
	}
	if a.PercentageScale() != 1 {
		t.Errorf("expected scale 1, got %v", a.PercentageScale())
	}
}

func TestComputeScore_CustomWindow(t *testing.T) {
	a := New(Options{Window: 2})
	score, err := a.ComputeScore(graphOf(1000, 1000, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 80.0 {
		t.Errorf("expected 80.0, got %v", score)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(Options{Window: -1, PercentageScale: -5})
	if a.window != DefaultWindow {
		t.Errorf("expected window %d, got %d", DefaultWindow, a.window)
	}
	if a.scale != DefaultPercentageScale {
		t.Errorf("expected scale %v, got %v", DefaultPercentageScale, a.scale)
	}
}

func TestSummarizeTopHolders_Length(t *testing.T) {
	fifteen := make([]float64, 15)
	for i := range fifteen {
		fifteen[i] = float64(1500 - i*100)
	}

	tests := []struct {
		name  string
		graph *domain.HolderGraph
		n     int
		want  int
	}{
		{"15 nodes top 10", graphOf(fifteen...), 10, 10},
		{"3 nodes top 10", graphOf(300, 200, 100), 10, 3},
		{"3 nodes top 1", graphOf(300, 200, 100), 1, 1},
		{"empty graph", graphOf(), 10, 0},
		{"nil graph", nil, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SummarizeTopHolders(tt.graph, tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSummarizeTopHolders_InvalidLimit(t *testing.T) {
	for _, n := range []int{0, -1, -10} {
		_, err := SummarizeTopHolders(graphOf(100), n)
		if !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("n=%d: expected ErrInvalidLimit, got %v", n, err)
		}
	}
}

func TestSummarizeTopHolders_RanksAndOrder(t *testing.T) {
	// Ties keep input order.
	graph := &domain.HolderGraph{Nodes: []domain.HolderNode{
		{Address: "0x1111111111111111111111111111111111111111", Percentage: 500, Name: "First"},
		{Address: "0x2222222222222222222222222222222222222222", Percentage: 500, Name: "Second"},
		{Address: "0x3333333333333333333333333333333333333333", Percentage: 12.345},
	}}

	got, err := SummarizeTopHolders(graph, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.TopHolder{
		{Rank: 1, Label: "First", Percentage: 500},
		{Rank: 2, Label: "Second", Percentage: 500},
		{Rank: 3, Label: "0x3333...3333", Percentage: 12.345},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	fifteen := make([]float64, 15)
	for i := range fifteen {
		fifteen[i] = 100
	}

	summary, err := Default().Summarize(graphOf(fifteen...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Score != 90.0 {
		t.Errorf("expected score 90.0, got %v", summary.Score)
	}
	if len(summary.TopHolders) != DefaultTopN {
		t.Errorf("expected %d holders, got %d", DefaultTopN, len(summary.TopHolders))
	}
}

func TestSummarize_EmptyGraph(t *testing.T) {
	_, err := Default().Summarize(graphOf())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
