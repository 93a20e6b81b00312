// Package main times locmeta generate against local checkouts with and
// without the blame cache. Each cached suite clears the cache first, treats
// the first successful run as cold and averages the rest as warm. Results are
// written to a timestamped CSV in the temp directory.
//
// Prerequisites:
// - locmeta binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// BenchmarkResult holds the timings of one suite.
type BenchmarkResult struct {
	Repository  string
	Target      string
	Rows        int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	RepoPaths   map[string]string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     10 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git"},
		RepoPaths: map[string]string{
			"csv-parser": "python",
			"fd":         "src",
			"git":        "builtin",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and the repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("locmeta"); err != nil {
		return errors.New("locmeta binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		results = append(results, runBenchmarkSuite(config, repo, repoPath))

		if sub, ok := config.RepoPaths[repo]; ok {
			results = append(results, runBenchmarkSuite(config, repo, filepath.Join(repoPath, sub)))
		}
	}
	return results
}

// runBenchmarkSuite runs the no-cache and cached phases against one target.
func runBenchmarkSuite(config BenchmarkConfig, repo, target string) BenchmarkResult {
	rel, err := filepath.Rel(filepath.Join(config.RepoBase, repo), target)
	if err != nil || rel == "." {
		rel = "/"
	}
	fmt.Printf("Generating %s (%s)\n", repo, rel)

	outDir, err := os.MkdirTemp("", "locmeta-bench-*")
	if err != nil {
		fmt.Printf("  cannot create output dir: %v\n", err)
		return BenchmarkResult{Repository: repo, Target: rel}
	}
	defer func() { _ = os.RemoveAll(outDir) }()
	outFile := filepath.Join(outDir, "loc.csv")

	_, noCache := runPhase(config, target, outFile, "none", config.NoCacheRuns)

	if output, err := exec.Command("locmeta", "cache", "clear", "--cache-backend", "sqlite").CombinedOutput(); err != nil {
		fmt.Printf("  Warning: failed to clear cache: %v\n  Output: %s\n", err, string(output))
	}
	cold, warm := runPhase(config, target, outFile, "sqlite", config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		Target:      rel,
		Rows:        countRows(outFile),
		NoCacheTime: average(noCache),
		ColdTime:    formatSeconds(cold),
		WarmTime:    average(warm),
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runPhase runs generate numRuns times and splits the successful timings
// into the first run and the rest.
func runPhase(config BenchmarkConfig, target, outFile, cacheBackend string, numRuns int) (cold float64, warm []float64) {
	fmt.Printf("  %s phase (%d runs)\n", cacheBackend, numRuns)
	args := []string{
		"generate", target,
		"--output-file", outFile,
		"--cache-backend", cacheBackend,
		"--workers", fmt.Sprint(config.Workers),
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "locmeta", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		return times[0], times[1:]
	}
	return 0, nil
}

// isSuccess checks that generate reported the file it wrote.
func isSuccess(output []byte) bool {
	out := string(output)
	return strings.Contains(out, "Wrote") && strings.Contains(out, "lines from")
}

func countRows(path string) int {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer func() { _ = file.Close() }()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		return 0
	}
	return len(rows) - 1
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return formatSeconds(sum / float64(len(times)))
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", s)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("locmeta_benchmark_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "target", "rows", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Target, fmt.Sprint(r.Rows), r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

func printSummary(results []BenchmarkResult) {
	fmt.Println("Benchmark complete")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Repo", "Target", "Rows", "No-cache", "Cold", "Warm"})
	for _, r := range results {
		_ = table.Append([]string{r.Repository, r.Target, humanize.Comma(int64(r.Rows)), r.NoCacheTime, r.ColdTime, r.WarmTime})
	}
	_ = table.Render()
}
