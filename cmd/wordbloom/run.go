package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wordbloom.lopezb.com/internal/wordbloom/bloom"
	"wordbloom.lopezb.com/internal/wordbloom/corpus"
	"wordbloom.lopezb.com/internal/wordbloom/metrics"
	"wordbloom.lopezb.com/internal/wordbloom/score"
	"wordbloom.lopezb.com/internal/wordbloom/timing"
)

// reportOrder is the order the timing lines are printed in.
var reportOrder = []string{"Insertion", "Query", "Read Files", "Execution"}

type application struct {
	config   config
	logger   *slog.Logger
	stdout   io.Writer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApplication(cfg config, logger *slog.Logger, stdout io.Writer) *application {
	reg := prometheus.NewRegistry()
	return &application{
		config:   cfg,
		logger:   logger,
		stdout:   stdout,
		registry: reg,
		metrics:  metrics.New(reg),
	}
}

// run executes one benchmark: read the corpus, bulk insert it, score the
// labelled queries and print the counts followed by the phase timings.
func (app *application) run(ctx context.Context) (score.Result, error) {
	var (
		report  timing.Report
		result  score.Result
		words   []string
		err     error
		started = time.Now()
	)

	report.Time("Read Files", func() {
		words, err = corpus.LoadWords(ctx, app.config.WordFiles)
	})
	if err != nil {
		return result, err
	}
	app.logger.Info("corpus loaded", "files", len(app.config.WordFiles), "words", len(words))

	filter, err := bloom.New(app.config.filterConfig())
	if err != nil {
		return result, fmt.Errorf("create filter: %w", err)
	}
	app.logger.Debug("filter allocated",
		"bits", filter.Bits(),
		"probes", filter.Probes(),
		"workers", filter.Workers(),
		"scheme", filter.Scheme().String())

	report.Time("Insertion", func() {
		filter.BulkInsert(words)
	})
	app.metrics.ObserveInserted(len(words))
	app.metrics.ObserveFilter(filter)

	queries, skipped, err := corpus.LoadQueries(app.config.QueryFile)
	if err != nil {
		return result, err
	}
	if skipped > 0 {
		app.logger.Warn("skipped malformed query lines", "count", skipped)
	}

	report.Time("Query", func() {
		result = score.Evaluate(filter, queries, app.config.Workers)
	})
	app.metrics.ObserveResult(result)

	report.RecordEnclosing("Execution", time.Since(started))
	app.metrics.ObserveReport(&report)

	app.logger.Info("queries scored",
		"queries", result.Total(),
		"correct", result.Correct,
		"incorrect", result.Incorrect,
		"false_positives", result.FalsePositives,
		"false_negatives", result.FalseNegatives,
		"fill_ratio", filter.FillRatio(),
		"estimated_fpr", filter.ObservedFalsePositiveRate())
	report.Log(app.logger)
	if overall, ok := report.Lookup("Execution"); ok {
		app.logger.Debug("timing overhead", "phases", report.Total(), "overhead", overall-report.Total())
	}

	if _, err := fmt.Fprintf(app.stdout, "Correct Matches: %d\nIncorrect Matches: %d\n", result.Correct, result.Incorrect); err != nil {
		return result, err
	}
	if _, err := report.Reorder(reportOrder...).WriteTo(app.stdout); err != nil {
		return result, err
	}

	if app.config.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(app.config.MetricsFile, app.registry); err != nil {
			return result, fmt.Errorf("write metrics: %w", err)
		}
	}

	return result, nil
}
