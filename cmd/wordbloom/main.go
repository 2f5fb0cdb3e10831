// wordbloom builds a Bloom filter from a word corpus and measures how well it
// answers a labelled set of membership queries.
//
// Pipeline
// ========
//
// A run has three timed phases, executed in this order:
//
// Read Files: every word file is read concurrently and split on whitespace.
// The tokens are concatenated in the order the files were given.
//
// Insertion: the tokens are bulk inserted. With -workers N the token slice is
// cut into N contiguous chunks, each inserted by its own goroutine into the
// shared bit array. -workers 1 is the sequential build.
//
// Query: each "<word> <0|1>" line of the query file is checked against the
// filter. A query is correct when the filter's answer matches the label.
// Malformed lines are skipped and logged.
//
// The run ends by printing the correct and incorrect counts followed by the
// "Overall <Phase> Time" lines for Insertion, Query, Read Files and finally
// the whole Execution.
//
// Configuration
// =============
//
// Every flag has a WORDBLOOM_* environment counterpart (for example
// WORDBLOOM_BITS or WORDBLOOM_WORD_FILES), and variables can also be kept in a
// .env file (path overridable with WORDBLOOM_ENV_FILE). Flags win over the
// environment, which wins over the .env file.
//
// Usage Examples
// ==============
//
// Default run (ten million bits, four probes, four workers):
//
//	wordbloom
//
// Sequential build with every probe on the plain Jenkins position:
//
//	wordbloom -workers 1 -scheme single
//
// Custom corpus, metrics dumped for a textfile collector:
//
//	wordbloom -words a.txt,b.txt -queries q.txt -metrics-file /var/lib/node_exporter/wordbloom.prom
//
// Exit Codes
// ==========
//
// 0: The run completed.
// 1: A file could not be read or the filter could not be created.
// 2: Invalid configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	cfg, err := loadConfig(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		return 2
	}

	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApplication(cfg, logger, os.Stdout)
	if _, err := app.run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}
