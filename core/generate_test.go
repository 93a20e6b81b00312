package core

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func blameFor(hash, author, content string) []byte {
	return []byte(hash + " 1 1 1\nauthor " + author + "\nauthor-time 1739110500\nauthor-tz -0500\n\t" + content + "\n")
}

func newGenerateClient(ctx context.Context) *contract.MockGitClient {
	client := &contract.MockGitClient{}
	client.On("ListFiles", ctx, "/repo").Return([]string{
		"README.md",
		"node_modules/lib/index.js",
		"src/app.py",
		"src/util.go",
	}, nil)
	client.On("GetRepoHash", ctx, "/repo").Return("", errors.New("no hash"))
	client.On("Blame", mock.Anything, "/repo", "README.md").Return(blameFor(hashA, "Ada", "# Site"), nil)
	client.On("Blame", mock.Anything, "/repo", "src/app.py").Return(blameFor(hashB, "Bo", "    print(1)"), nil)
	client.On("Blame", mock.Anything, "/repo", "src/util.go").Return(blameFor(hashB, "Bo", "package util"), nil)
	return client
}

func TestGenerateRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes and ordering", func(t *testing.T) {
		client := newGenerateClient(ctx)
		cfg := &contract.Config{RepoPath: "/repo", Workers: 3, Excludes: []string{"node_modules/"}}

		records, nFiles, err := GenerateRecords(ctx, cfg, client, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, nFiles)
		require.Len(t, records, 3)
		assert.Equal(t, "README.md", records[0].File)
		assert.Equal(t, "md", records[0].Type)
		assert.Equal(t, "src/app.py", records[1].File)
		assert.Equal(t, 4, records[1].Depth)
		assert.Equal(t, "src/util.go", records[2].File)
		client.AssertNotCalled(t, "Blame", mock.Anything, "/repo", "node_modules/lib/index.js")
	})

	t.Run("path filter", func(t *testing.T) {
		client := newGenerateClient(ctx)
		cfg := &contract.Config{RepoPath: "/repo", Workers: 1, PathFilter: "src/"}

		records, nFiles, err := GenerateRecords(ctx, cfg, client, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, nFiles)
		assert.Len(t, records, 2)
	})

	t.Run("blame failure", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("ListFiles", ctx, "/repo").Return([]string{"a.go"}, nil)
		client.On("GetRepoHash", ctx, "/repo").Return("", errors.New("no hash"))
		client.On("Blame", mock.Anything, "/repo", "a.go").Return(nil, errors.New("fatal: no such path"))

		_, _, err := GenerateRecords(ctx, &contract.Config{RepoPath: "/repo", Workers: 1}, client, nil)
		assert.ErrorContains(t, err, "cannot blame a.go")
	})

	t.Run("list failure", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("ListFiles", ctx, "/repo").Return(nil, errors.New("not a repo"))

		_, _, err := GenerateRecords(ctx, &contract.Config{RepoPath: "/repo"}, client, nil)
		assert.ErrorContains(t, err, "cannot list files")
	})

	t.Run("uses the blame store", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("ListFiles", ctx, "/repo").Return([]string{"a.go"}, nil)
		client.On("GetRepoHash", ctx, "/repo").Return("deadbeef", nil)

		store := &iocache.MockKVStore{}
		store.On("Get", blameCacheKey("deadbeef", "a.go")).Return(blameFor(hashA, "Ada", "package a"), blameCacheVersion, time.Now().Unix(), nil)
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetBlameStore").Return(store)

		records, _, err := GenerateRecords(ctx, &contract.Config{RepoPath: "/repo", Workers: 2}, client, mgr)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Ada", records[0].Author)
		client.AssertNotCalled(t, "Blame", mock.Anything, mock.Anything, mock.Anything)
		mgr.AssertExpectations(t)
	})
}

func TestWriteRecordsCSVRoundTrip(t *testing.T) {
	original, _ := loadFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, original))

	loaded, err := agg.LoadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, len(original))
	for i := range original {
		want, got := original[i], loaded[i]
		assert.Equal(t, want.File, got.File)
		assert.Equal(t, want.Line, got.Line)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Commit, got.Commit)
		assert.Equal(t, want.Author, got.Author)
		assert.Equal(t, want.Timezone, got.Timezone)
		assert.Equal(t, want.Depth, got.Depth)
		assert.Equal(t, want.Length, got.Length)
		assert.True(t, want.Datetime.Equal(got.Datetime), want.File)
		assert.True(t, want.Date.Equal(got.Date), want.File)
	}
}

func TestExecuteGenerate(t *testing.T) {
	ctx := context.Background()
	client := &contract.MockGitClient{}
	client.On("ListFiles", ctx, "/repo").Return([]string{"a.go"}, nil)
	client.On("GetRepoHash", ctx, "/repo").Return("", nil)
	client.On("Blame", mock.Anything, "/repo", "a.go").Return(blameFor(hashA, "Ada", "package a"), nil)
	client.On("GetRemoteURL", ctx, "/repo").Return("git@github.com:ada/site.git", nil)

	store := &iocache.MockKVStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows).Maybe()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetBlameStore").Return(store)

	out := filepath.Join(t.TempDir(), "loc.csv")
	cfg := &contract.Config{RepoPath: "/repo", Workers: 1, OutputFile: out}
	require.NoError(t, ExecuteGenerate(ctx, cfg, client, mgr))

	records, err := agg.LoadRecordsFile(out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, hashA, records[0].Commit)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestWebURL(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"https://github.com/ada/site.git", "https://github.com/ada/site"},
		{"https://github.com/ada/site", "https://github.com/ada/site"},
		{"git@github.com:ada/site.git", "https://github.com/ada/site"},
		{"ssh://git@github.com/ada/site.git", "https://github.com/ada/site"},
		{"  https://gitlab.com/ada/site.git\n", "https://gitlab.com/ada/site"},
		{"/srv/git/site.git", ""},
		{"git@github.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			assert.Equal(t, tt.want, WebURL(tt.remote))
		})
	}
}
