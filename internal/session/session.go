// Package session binds a configured model source (in-memory snapshot or
// sqlite store) to the predicate walkers, giving the CLI and the MCP server
// one queryable handle.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"

	"github.com/agentic-research/dbgmodel/api"
	"github.com/agentic-research/dbgmodel/internal/model"
	"github.com/agentic-research/dbgmodel/internal/path"
)

// Options configures Open. Explicit fields win over the corresponding Config
// fields.
type Options struct {
	Config   *api.Config
	Snapshot string // JSON snapshot path, loaded in memory
	Database string // sqlite model store path, takes precedence
	Fetch    bool   // use the fetch-driven walk for Query
	// FS is the filesystem snapshots are read from; the OS filesystem
	// when nil.
	FS     billy.Filesystem
	Logger *logrus.Logger
}

// Session is an open model with its query configuration.
type Session struct {
	log   *logrus.Logger
	root  model.Object
	store *model.SQLiteStore // nil for in-memory models
	fetch bool
	saved map[string]string
}

// Open loads the model source named by opts and returns a ready session.
func Open(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	cfg := opts.Config

	database := opts.Database
	snapshot := opts.Snapshot
	fetch := opts.Fetch
	if cfg != nil {
		if database == "" {
			database = cfg.Database
		}
		if snapshot == "" {
			snapshot = cfg.Snapshot
		}
		fetch = fetch || cfg.Fetch
		if cfg.LogLevel != "" {
			lvl, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return nil, fmt.Errorf("config log_level: %w", err)
			}
			log.SetLevel(lvl)
		}
	}

	s := &Session{log: log, fetch: fetch, saved: make(map[string]string)}
	if cfg != nil {
		for _, sp := range cfg.Patterns {
			s.saved[sp.Name] = sp.Expr
		}
	}

	switch {
	case database != "":
		store, err := model.OpenSQLite(database)
		if err != nil {
			return nil, err
		}
		root, err := store.Root()
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		s.store = store
		s.root = root
		log.WithField("database", database).Info("opened model store")
	case snapshot != "":
		fs := opts.FS
		name := snapshot
		if fs == nil {
			abs, err := filepath.Abs(snapshot)
			if err != nil {
				return nil, fmt.Errorf("resolve snapshot path: %w", err)
			}
			fs = osfs.New("/")
			name = abs
		}
		data, err := util.ReadFile(fs, name)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		snap, err := api.DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		s.root = model.FromSnapshot(snap)
		log.WithFields(logrus.Fields{
			"snapshot": snapshot,
			"version":  snap.Version,
		}).Info("loaded model snapshot")
	default:
		return nil, fmt.Errorf("no model source configured: set a snapshot or database")
	}
	return s, nil
}

// Root returns the model root object.
func (s *Session) Root() model.Object {
	return s.root
}

// Fetching reports whether Query uses the fetch-driven walk.
func (s *Session) Fetching() bool {
	return s.fetch
}

// Resolve turns a pattern expression or saved pattern name into a predicate.
func (s *Session) Resolve(expr string) (path.Predicate, error) {
	if saved, ok := s.saved[expr]; ok {
		expr = saved
	}
	pred, err := path.ParsePredicate(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", expr, err)
	}
	return pred, nil
}

// Query evaluates a pattern against the model and returns the matching
// objects, ordered canonically. The fetch-driven walk is used when the
// session is configured for fetching, the cached-only walk otherwise.
func (s *Session) Query(ctx context.Context, expr string) ([]model.ObjectMatch, error) {
	pred, err := s.Resolve(expr)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	var matches []model.ObjectMatch
	if s.fetch {
		matches, err = model.FetchSuccessors(ctx, pred, s.root)
		if err != nil {
			return nil, err
		}
	} else {
		matches = model.CollectCachedSuccessors(pred, s.root)
	}
	s.log.WithFields(logrus.Fields{
		"pattern": expr,
		"matches": len(matches),
		"elapsed": time.Since(start),
		"fetch":   s.fetch,
	}).Debug("query done")
	return matches, nil
}

// QueryValues evaluates a pattern over the cached view only, including leaf
// attribute values in the results.
func (s *Session) QueryValues(expr string) ([]model.Match, error) {
	pred, err := s.Resolve(expr)
	if err != nil {
		return nil, err
	}
	return model.CollectCachedValues(pred, s.root), nil
}

// Singleton resolves a wildcard-free pattern to its one path.
func (s *Session) Singleton(expr string) (path.Path, error) {
	pred, err := s.Resolve(expr)
	if err != nil {
		return nil, err
	}
	p, ok := pred.SingletonPath()
	if !ok {
		return nil, fmt.Errorf("pattern %q is not a singleton (contains wildcards)", expr)
	}
	return p, nil
}

// Close releases the backing store, if any.
func (s *Session) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
