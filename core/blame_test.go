package core

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "1111111111111111111111111111111111111111"
	hashB = "2222222222222222222222222222222222222222"
)

// samplePorcelain is `git blame --line-porcelain main.go` for two commits.
var samplePorcelain = []byte(hashA + ` 1 1 1
author Ada
author-mail <ada@example.com>
author-time 1739110500
author-tz -0500
committer Ada
committer-mail <ada@example.com>
committer-time 1739110500
committer-tz -0500
summary init
boundary
filename main.go
	package main
` + hashB + ` 3 2 1
author Bo
author-mail <bo@example.com>
author-time 1739500200
author-tz +0530
committer Bo
committer-mail <bo@example.com>
committer-time 1739500200
committer-tz +0530
summary print héllo
previous ` + hashA + ` main.go
filename main.go
	 	fmt.Println("héllo")
`)

func TestParseBlame(t *testing.T) {
	records, err := ParseBlame("main.go", samplePorcelain)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "main.go", first.File)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "go", first.Type)
	assert.Equal(t, hashA, first.Commit)
	assert.Equal(t, "Ada", first.Author)
	assert.Equal(t, "09:15", first.Time)
	assert.Equal(t, "-05:00", first.Timezone)
	assert.True(t, first.Datetime.Equal(time.Date(2025, 2, 9, 14, 15, 0, 0, time.UTC)))
	assert.Equal(t, 9, first.Datetime.Hour())
	assert.Equal(t, 9, first.Date.Day())
	assert.Equal(t, 0, first.Depth)
	assert.Equal(t, len("package main"), first.Length)

	second := records[1]
	assert.Equal(t, 2, second.Line, "final line number is used")
	assert.Equal(t, "Bo", second.Author)
	assert.Equal(t, "+05:30", second.Timezone)
	assert.Equal(t, 2, second.Depth)
	assert.Equal(t, 22, second.Length, "length counts runes")
}

func TestParseBlameErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"content without header", "\torphan\n"},
		{"bad author-time", hashA + " 1 1 1\nauthor-time soon\n\tx\n"},
		{"bad timezone", hashA + " 1 1 1\nauthor-time 0\nauthor-tz EST\n\tx\n"},
		{"short header", hashA + " 1\n\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlame("a.go", []byte(tt.data))
			assert.Error(t, err)
		})
	}

	records, err := ParseBlame("empty.go", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseBlameTZ(t *testing.T) {
	tests := []struct {
		in         string
		wantOffset string
		wantSecs   int
	}{
		{"", "+00:00", 0},
		{"+0000", "+00:00", 0},
		{"-0500", "-05:00", -5 * 3600},
		{"+0530", "+05:30", 5*3600 + 30*60},
	}
	for _, tt := range tests {
		t.Run(tt.wantOffset, func(t *testing.T) {
			loc, offset, err := parseBlameTZ(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			_, secs := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.wantSecs, secs)
		})
	}

	for _, bad := range []string{"0500", "+05", "+ab00", "UTC"} {
		_, _, err := parseBlameTZ(bad)
		assert.Error(t, err, bad)
	}
}

func TestIndentDepth(t *testing.T) {
	assert.Equal(t, 0, IndentDepth("x := 1"))
	assert.Equal(t, 4, IndentDepth("    return"))
	assert.Equal(t, 2, IndentDepth("\t\tif ok {"))
	assert.Equal(t, 3, IndentDepth(" \t x"))
	assert.Equal(t, 2, IndentDepth("  "))
	assert.Equal(t, 0, IndentDepth(""))
}

func TestCachedBlame(t *testing.T) {
	ctx := context.Background()
	key := blameCacheKey("repohash", "main.go")

	t.Run("no store", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", ctx, "/repo", "main.go").Return(samplePorcelain, nil)

		data, err := cachedBlame(ctx, client, nil, "/repo", "repohash", "main.go")
		require.NoError(t, err)
		assert.Equal(t, samplePorcelain, data)
		client.AssertExpectations(t)
	})

	t.Run("fresh hit", func(t *testing.T) {
		client := &contract.MockGitClient{}
		store := &iocache.MockKVStore{}
		store.On("Get", key).Return([]byte("cached"), blameCacheVersion, time.Now().Unix(), nil)

		data, err := cachedBlame(ctx, client, store, "/repo", "repohash", "main.go")
		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), data)
		client.AssertNotCalled(t, "Blame", mock.Anything, mock.Anything, mock.Anything)
	})

	refetch := []struct {
		name    string
		version int
		age     time.Duration
		err     error
	}{
		{"miss", 0, 0, sql.ErrNoRows},
		{"stale", blameCacheVersion, 8 * 24 * time.Hour, nil},
		{"old version", blameCacheVersion + 1, 0, nil},
	}
	for _, tt := range refetch {
		t.Run(tt.name, func(t *testing.T) {
			client := &contract.MockGitClient{}
			client.On("Blame", ctx, "/repo", "main.go").Return(samplePorcelain, nil)
			store := &iocache.MockKVStore{}
			store.On("Get", key).Return([]byte("old"), tt.version, time.Now().Add(-tt.age).Unix(), tt.err)
			store.On("Set", key, samplePorcelain, blameCacheVersion, mock.AnythingOfType("int64")).Return(nil)

			data, err := cachedBlame(ctx, client, store, "/repo", "repohash", "main.go")
			require.NoError(t, err)
			assert.Equal(t, samplePorcelain, data)
			client.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}

	t.Run("blame error is not cached", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", ctx, "/repo", "main.go").Return(nil, errors.New("boom"))
		store := &iocache.MockKVStore{}
		store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows)

		_, err := cachedBlame(ctx, client, store, "/repo", "repohash", "main.go")
		assert.Error(t, err)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBlameCacheKey(t *testing.T) {
	assert.Len(t, blameCacheKey("h", "a.go"), 64)
	assert.NotEqual(t, blameCacheKey("h1", "a.go"), blameCacheKey("h2", "a.go"))
	assert.NotEqual(t, blameCacheKey("h", "a.go"), blameCacheKey("h", "b.go"))
}
