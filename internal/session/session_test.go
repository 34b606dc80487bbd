package session

import (
	"context"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dbgmodel/api"
)

const testSnapshot = `{
  "version": "test",
  "root": {
    "children": {
      "Processes": {
        "elements": {
          "0": {
            "attributes": {"Name": "init"},
            "children": {"Threads": {"elements": {"0": {}, "1": {}}}}
          },
          "1": {
            "children": {"Threads": {"elements": {"0": {}}}}
          }
        }
      }
    }
  }
}`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openTestSession(t *testing.T, cfg *api.Config, fetch bool) *Session {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "model.json", []byte(testSnapshot), 0o644))
	s, err := Open(Options{
		Config:   cfg,
		Snapshot: "model.json",
		Fetch:    fetch,
		FS:       fs,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestQueryCached(t *testing.T) {
	s := openTestSession(t, nil, false)

	matches, err := s.Query(context.Background(), "Processes[].Threads[]")
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Processes[0].Threads[0]", matches[0].Path.String())
	assert.Equal(t, "Processes[0].Threads[1]", matches[1].Path.String())
	assert.Equal(t, "Processes[1].Threads[0]", matches[2].Path.String())
}

func TestQueryFetch(t *testing.T) {
	s := openTestSession(t, nil, true)
	assert.True(t, s.Fetching())

	matches, err := s.Query(context.Background(), "Processes[]")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryValues(t *testing.T) {
	s := openTestSession(t, nil, false)

	matches, err := s.QueryValues("Processes[].Name")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "init", matches[0].Value)
}

func TestSavedPatterns(t *testing.T) {
	cfg := &api.Config{
		Patterns: []api.SavedPattern{
			{Name: "threads", Expr: "Processes[].Threads[]"},
		},
	}
	s := openTestSession(t, cfg, false)

	matches, err := s.Query(context.Background(), "threads")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestSingleton(t *testing.T) {
	s := openTestSession(t, nil, false)

	p, err := s.Singleton("Processes[0].Threads[1]")
	require.NoError(t, err)
	assert.Equal(t, "Processes[0].Threads[1]", p.String())

	_, err = s.Singleton("Processes[]")
	assert.Error(t, err)
}

func TestQueryBadPattern(t *testing.T) {
	s := openTestSession(t, nil, false)
	_, err := s.Query(context.Background(), "Processes[0")
	assert.Error(t, err)
}

func TestOpenWithoutSource(t *testing.T) {
	_, err := Open(Options{Logger: quietLogger()})
	assert.Error(t, err)
}

func TestConfigFetchDefault(t *testing.T) {
	s := openTestSession(t, &api.Config{Fetch: true}, false)
	assert.True(t, s.Fetching())
}
