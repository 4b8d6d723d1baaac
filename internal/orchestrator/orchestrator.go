// Package orchestrator runs one token analysis end to end.
// It coordinates: market data + holder graph (in parallel) → analyzer.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bubblemaps-bot/internal/analyzer"
	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
)

// GraphProvider fetches a token's holder graph.
type GraphProvider interface {
	FetchGraph(ctx context.Context, address string, chain domain.Chain) (*domain.HolderGraph, error)
}

// MarketProvider fetches a token's market data.
type MarketProvider interface {
	FetchTokenInfo(ctx context.Context, address string, chain domain.Chain) (*domain.TokenInfo, error)
}

// Report outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Orchestrator coordinates one analysis request.
type Orchestrator struct {
	graph    GraphProvider
	market   MarketProvider
	analyzer *analyzer.Analyzer
	log      logrus.FieldLogger
	newID    func() string
}

// Options for creating Orchestrator.
type Options struct {
	// Required providers
	Graph  GraphProvider
	Market MarketProvider

	// Optional; defaults to analyzer.Default()
	Analyzer *analyzer.Analyzer

	Logger logrus.FieldLogger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		graph:    opts.Graph,
		market:   opts.Market,
		analyzer: opts.Analyzer,
		log:      opts.Logger,
		newID:    func() string { return uuid.NewString() },
	}
	if o.analyzer == nil {
		o.analyzer = analyzer.Default()
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	return o
}

// Analyzer returns the analyzer the orchestrator scores with.
func (o *Orchestrator) Analyzer() *analyzer.Analyzer {
	return o.analyzer
}

// Report is the classified result of one analysis. Each half fails
// independently: a missing market quote never hides the holder graph
// and vice versa.
type Report struct {
	RequestID string
	Address   string
	Chain     domain.Chain

	Market    *domain.TokenInfo
	MarketErr error

	Graph    *domain.HolderGraph
	GraphErr error

	Summary  *domain.DistributionSummary
	ScoreErr error // analyzer.ErrInsufficientData when the graph has no nodes

	Duration time.Duration
}

// Outcome classifies the report for metrics and logs.
func (r *Report) Outcome() string {
	switch {
	case r.Market != nil && r.Summary != nil:
		return OutcomeOK
	case r.Market != nil || r.Graph != nil:
		return OutcomePartial
	default:
		return OutcomeFailed
	}
}

// Analyze fetches market data and the holder graph concurrently, then
// scores the graph. Provider failures are recorded in the report; only
// context cancellation is returned as an error.
func (o *Orchestrator) Analyze(ctx context.Context, address string, chain domain.Chain) (*Report, error) {
	start := time.Now()
	report := &Report{
		RequestID: o.newID(),
		Address:   address,
		Chain:     chain,
	}
	log := o.log.WithFields(logrus.Fields{
		"request_id": report.RequestID,
		"chain":      chain.String(),
		"address":    address,
	})
	log.Debug("Analysis started")

	// Each fetch owns its own slot in report; neither returns an error
	// so one failure never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		report.Market, report.MarketErr = o.market.FetchTokenInfo(ctx, address, chain)
		return nil
	})
	g.Go(func() error {
		report.Graph, report.GraphErr = o.graph.FetchGraph(ctx, address, chain)
		return nil
	})
	g.Wait()

	if err := ctx.Err(); err != nil {
		report.Duration = time.Since(start)
		observability.RecordAnalysis(chain.String(), OutcomeCanceled, report.Duration)
		log.WithError(err).Info("Analysis canceled")
		return nil, err
	}

	if report.MarketErr != nil {
		log.WithError(report.MarketErr).Warn("Market data unavailable")
	}
	if report.GraphErr != nil {
		log.WithError(report.GraphErr).Warn("Holder graph unavailable")
	}

	if report.Graph != nil {
		report.Summary, report.ScoreErr = o.analyzer.Summarize(report.Graph)
		switch {
		case report.ScoreErr == nil:
			observability.RecordScore(report.Summary.Score)
		case errors.Is(report.ScoreErr, analyzer.ErrInsufficientData):
			log.WithError(report.ScoreErr).Info("Score unavailable")
		default:
			log.WithError(report.ScoreErr).Error("Score computation failed")
		}
	}

	report.Duration = time.Since(start)
	outcome := report.Outcome()
	observability.RecordAnalysis(chain.String(), outcome, report.Duration)

	fields := logrus.Fields{
		"outcome":     outcome,
		"duration_ms": report.Duration.Milliseconds(),
	}
	if report.Summary != nil {
		fields["score"] = report.Summary.Score
		fields["holders"] = len(report.Graph.Nodes)
	}
	log.WithFields(fields).Info("Analysis completed")

	return report, nil
}
