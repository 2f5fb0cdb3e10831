// Package corpus reads the word lists and labelled query files consumed by
// the filter benchmark.
//
// Word files are free text split on whitespace, so punctuation stays attached
// to its word ("whale," and "whale" are different tokens). Query files hold
// one record per line:
//
//	<word> <flag>
//
// where flag 1 means the word is expected to be present and 0 absent. Fields
// after the flag are ignored.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"wordbloom.lopezb.com/internal/wordbloom/score"
)

// maxTokenSize bounds a single word or query line.
const maxTokenSize = 1 << 20

// ReadWords splits r into whitespace-delimited tokens, in input order.
func ReadWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadWords reads every file concurrently and concatenates their tokens in
// the order the paths were given. The first error cancels the remaining reads.
func LoadWords(ctx context.Context, paths []string) ([]string, error) {
	perFile := make([][]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, err := readWordFile(path)
			if err != nil {
				return err
			}
			perFile[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, words := range perFile {
		total += len(words)
	}
	all := make([]string, 0, total)
	for _, words := range perFile {
		all = append(all, words...)
	}
	return all, nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open word file: %w", err)
	}
	defer func() { _ = f.Close() }()

	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	return words, nil
}

// ReadQueries parses labelled queries from r. Lines that do not hold a word
// followed by a 0 or 1 flag are skipped; the number skipped is returned
// alongside the queries.
func ReadQueries(r io.Reader) ([]score.Query, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)

	var queries []score.Query
	skipped := 0
	for scanner.Scan() {
		q, ok := parseQuery(scanner.Text())
		if !ok {
			// Blank lines are not records, so they are not counted as skipped.
			if strings.TrimSpace(scanner.Text()) != "" {
				skipped++
			}
			continue
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return queries, skipped, nil
}

// LoadQueries is ReadQueries over a file.
func LoadQueries(path string) ([]score.Query, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("corpus: open query file: %w", err)
	}
	defer func() { _ = f.Close() }()

	queries, skipped, err := ReadQueries(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	return queries, skipped, nil
}

func parseQuery(line string) (score.Query, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return score.Query{}, false
	}

	flag, err := strconv.Atoi(fields[1])
	if err != nil || (flag != 0 && flag != 1) {
		return score.Query{}, false
	}

	return score.Query{Word: fields[0], Expected: flag == 1}, true
}
