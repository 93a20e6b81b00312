package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"golang.org/x/sync/errgroup"
)

// GenerateRecords blames every tracked file that passes the path filter and
// the excludes, in parallel, and returns the line records in file order.
func GenerateRecords(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.StoreManager) ([]schema.LineRecord, int, error) {
	files, err := client.ListFiles(ctx, cfg.RepoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot list files: %w", err)
	}

	var selected []string
	for _, f := range files {
		if cfg.PathFilter != "" && !strings.HasPrefix(f, cfg.PathFilter) {
			continue
		}
		if contract.ShouldIgnore(f, cfg.Excludes) {
			continue
		}
		selected = append(selected, f)
	}

	var blameStore contract.KVStore
	if mgr != nil {
		blameStore = mgr.GetBlameStore()
	}
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		repoHash = ""
	}

	perFile := make([][]schema.LineRecord, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, path := range selected {
		g.Go(func() error {
			data, err := cachedBlame(gctx, client, blameStore, cfg.RepoPath, repoHash, path)
			if err != nil {
				return fmt.Errorf("cannot blame %s: %w", path, err)
			}
			recs, err := ParseBlame(path, data)
			if err != nil {
				return err
			}
			perFile[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var records []schema.LineRecord
	for _, recs := range perFile {
		records = append(records, recs...)
	}
	return records, len(selected), nil
}

// WriteRecordsCSV writes records with the loader's column names so the
// output loads back unchanged.
func WriteRecordsCSV(w io.Writer, records []schema.LineRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(agg.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.File,
			strconv.Itoa(r.Line),
			r.Type,
			r.Commit,
			r.Author,
			formatDate(r.Date),
			r.Time,
			r.Timezone,
			r.Datetime.Format(time.RFC3339),
			strconv.Itoa(r.Depth),
			strconv.Itoa(r.Length),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ExecuteGenerate builds loc.csv for the repository at cfg.RepoPath.
func ExecuteGenerate(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.StoreManager) error {
	start := time.Now()
	records, nFiles, err := GenerateRecords(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}

	target := cfg.OutputFile
	if target == "" {
		target = cfg.DataFile
	}
	file, err := contract.SelectOutputFile(target)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	if err := WriteRecordsCSV(file, records); err != nil {
		return fmt.Errorf("cannot write %s: %w", target, err)
	}

	remote, _ := client.GetRemoteURL(ctx, cfg.RepoPath)
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d lines from %d files to %s in %v", len(records), nFiles, target, time.Since(start).Round(time.Millisecond))
	if web := WebURL(remote); web != "" {
		_, _ = fmt.Fprintf(os.Stderr, " (use --repo-url %s for commit links)", web)
	}
	_, _ = fmt.Fprintln(os.Stderr)
	return nil
}

// WebURL turns a git remote into the repository's web URL. Unknown forms give "".
func WebURL(remote string) string {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), ".git")
	switch {
	case strings.HasPrefix(remote, "https://"), strings.HasPrefix(remote, "http://"):
		return remote
	case strings.HasPrefix(remote, "git@"):
		host, path, ok := strings.Cut(strings.TrimPrefix(remote, "git@"), ":")
		if !ok {
			return ""
		}
		return "https://" + host + "/" + path
	case strings.HasPrefix(remote, "ssh://git@"):
		return "https://" + strings.TrimPrefix(remote, "ssh://git@")
	default:
		return ""
	}
}
