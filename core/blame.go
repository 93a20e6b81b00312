package core

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// blameCacheVersion defines the version of the cached blame schema
const blameCacheVersion = 1

// blameCacheTTL is how long a cached blame stays valid.
const blameCacheTTL = 7 * 24 * time.Hour

// blameEntry is the header state of the line being parsed.
type blameEntry struct {
	commit     string
	finalLine  int
	author     string
	authorTime int64
	authorTZ   string
}

// ParseBlame turns `git blame --line-porcelain` output for one file into
// line records. Every content line repeats the full commit header.
func ParseBlame(file string, data []byte) ([]schema.LineRecord, error) {
	var (
		records []schema.LineRecord
		cur     blameEntry
	)
	fileType := agg.DetectType(file)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if content, ok := strings.CutPrefix(line, "\t"); ok {
			rec, err := blameRecord(file, fileType, cur, content)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			cur = blameEntry{}
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			cur.author = value
		case "author-time":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad author-time %q in %s: %w", value, file, err)
			}
			cur.authorTime = ts
		case "author-tz":
			cur.authorTZ = value
		default:
			if isCommitHash(key) {
				fields := strings.Fields(value)
				if len(fields) < 2 {
					return nil, fmt.Errorf("bad blame header %q in %s", line, file)
				}
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("bad line number in %s: %w", file, err)
				}
				cur.commit = key
				cur.finalLine = n
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read blame of %s: %w", file, err)
	}
	return records, nil
}

func isCommitHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func blameRecord(file, fileType string, e blameEntry, content string) (schema.LineRecord, error) {
	if e.commit == "" {
		return schema.LineRecord{}, fmt.Errorf("content line without header in %s", file)
	}
	loc, offset, err := parseBlameTZ(e.authorTZ)
	if err != nil {
		return schema.LineRecord{}, fmt.Errorf("bad author-tz in %s: %w", file, err)
	}
	at := time.Unix(e.authorTime, 0).In(loc)
	y, m, d := at.Date()
	return schema.LineRecord{
		File:     file,
		Line:     e.finalLine,
		Depth:    IndentDepth(content),
		Length:   utf8.RuneCountInString(content),
		Commit:   e.commit,
		Author:   e.author,
		Date:     time.Date(y, m, d, 0, 0, 0, 0, loc),
		Time:     at.Format("15:04"),
		Timezone: offset,
		Datetime: at,
		Type:     fileType,
	}, nil
}

// parseBlameTZ converts "+0530" into a fixed zone and the "+05:30" form used in loc.csv.
func parseBlameTZ(tz string) (*time.Location, string, error) {
	if tz == "" {
		return time.UTC, "+00:00", nil
	}
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, "", fmt.Errorf("unexpected timezone %q", tz)
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, "", err
	}
	minutes, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, "", err
	}
	secs := hours*3600 + minutes*60
	if tz[0] == '-' {
		secs = -secs
	}
	offset := tz[:3] + ":" + tz[3:]
	return time.FixedZone(offset, secs), offset, nil
}

// IndentDepth counts the leading spaces and tabs of a line; a tab counts as one.
func IndentDepth(line string) int {
	depth := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		depth++
	}
	return depth
}

// blameCacheKey identifies one file at one repository state.
func blameCacheKey(repoHash, path string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(repoHash+":"+path)))
}

// cachedBlame returns the porcelain blame for path, served from the blame
// store while the repository hash is unchanged and the entry is fresh.
func cachedBlame(ctx context.Context, client contract.GitClient, store contract.KVStore, repoPath, repoHash, path string) ([]byte, error) {
	if store == nil || repoHash == "" {
		return client.Blame(ctx, repoPath, path)
	}

	key := blameCacheKey(repoHash, path)
	if data, version, ts, err := store.Get(key); err == nil && version == blameCacheVersion {
		if time.Since(time.Unix(ts, 0)) <= blameCacheTTL {
			return data, nil
		}
	}

	data, err := client.Blame(ctx, repoPath, path)
	if err != nil {
		return nil, err
	}
	_ = store.Set(key, data, blameCacheVersion, time.Now().Unix())
	return data, nil
}
