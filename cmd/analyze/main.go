// Package main analyzes a single token from the command line and prints
// the same market and holder report the bot sends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bubblemaps-bot/internal/address"
	"bubblemaps-bot/internal/analyzer"
	"bubblemaps-bot/internal/bubblemaps"
	"bubblemaps-bot/internal/config"
	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/logging"
	"bubblemaps-bot/internal/marketdata"
	"bubblemaps-bot/internal/orchestrator"
	"bubblemaps-bot/internal/presentation"
	"bubblemaps-bot/internal/screenshot"
)

func main() {
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	addr := fs.String("address", "", "Token contract address (required)")
	chainFlag := fs.String("chain", domain.DefaultChain.String(), "Chain code (eth, bsc, ftm, avax, cro, arbi, poly, base, sol, sonic)")
	out := fs.String("out", "", "Write the bubble map screenshot to this PNG file (requires --devtools-url)")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr so stdout carries only the report.
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *addr == "" {
		fmt.Fprintln(os.Stderr, "Error: --address is required")
		os.Exit(2)
	}
	chain, err := domain.ParseChain(*chainFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := address.Validate(chain, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", address.Hint(chain))
		os.Exit(2)
	}
	if *out != "" && cfg.DevToolsURL == "" {
		fmt.Fprintln(os.Stderr, "Error: --out requires --devtools-url")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.AnalysisTimeout)
	defer cancel()

	graphs := bubblemaps.NewClient(cfg.BubblemapsAPIURL,
		bubblemaps.WithTimeout(cfg.HTTPTimeout),
		bubblemaps.WithAppURL(cfg.BubblemapsAppURL),
	)
	orch := orchestrator.New(orchestrator.Options{
		Graph:    graphs,
		Market:   marketdata.NewClient(cfg.CMCAPIURL, cfg.CMCAPIKey, marketdata.WithTimeout(cfg.HTTPTimeout)),
		Analyzer: analyzer.New(analyzer.Options{PercentageScale: cfg.PercentageScale}),
		Logger:   logging.Component(log, "orchestrator"),
	})

	report, err := orch.Analyze(ctx, *addr, chain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if report.GraphErr != nil {
		fmt.Println(presentation.MarketMessage(report.Market))
		fmt.Println()
		fmt.Println(presentation.GraphErrorMessage(report.GraphErr))
		os.Exit(1)
	}

	fmt.Println(presentation.MarketMessage(report.Market))
	fmt.Println()
	summary := report.Summary
	if report.ScoreErr != nil {
		summary = nil
	}
	fmt.Println(presentation.ScoreMessage(summary, cfg.PercentageScale))
	fmt.Println()
	fmt.Println("View on Bubblemaps:", graphs.MapURL(*addr, chain))

	if *out == "" {
		return
	}

	capturer := screenshot.New(screenshot.Options{
		DevToolsURL:       cfg.DevToolsURL,
		AppURL:            cfg.BubblemapsAppURL,
		NavigationTimeout: cfg.NavigationTimeout,
		SettleDelay:       cfg.SettleDelay,
		Logger:            logging.Component(log, "screenshot"),
	})
	png, err := capturer.Capture(ctx, *addr, chain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: screenshot: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Screenshot written to %s (%d bytes)\n", *out, len(png))
}
