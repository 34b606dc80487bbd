package model

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/dbgmodel/api"
)

// Row kinds in the nodes table.
const (
	kindAttrLeaf   = 0 // named leaf value (JSON-encoded)
	kindAttrObject = 1 // named child object
	kindElement    = 2 // indexed child object
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id INTEGER PRIMARY KEY,
	parent INTEGER REFERENCES nodes(id),
	key TEXT NOT NULL,
	kind INTEGER NOT NULL,
	value TEXT
);
CREATE INDEX IF NOT EXISTS nodes_parent ON nodes(parent);
CREATE TABLE IF NOT EXISTS elem_index (
	node INTEGER PRIMARY KEY REFERENCES nodes(id),
	total INTEGER NOT NULL,
	bitmap BLOB NOT NULL
);
`

// WriteSnapshot builds a model database at dbPath from a snapshot. Each node
// with elements also gets a roaring bitmap of its decimal element indices in
// the elem_index sidecar table, so stores can enumerate or skip element
// fetches without scanning node rows.
func WriteSnapshot(dbPath string, snap *api.Snapshot) error {
	if snap == nil || snap.Root == nil {
		return fmt.Errorf("write snapshot: empty snapshot")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open model db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create model schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot write: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	nodeStmt, err := tx.Prepare("INSERT INTO nodes (parent, key, kind, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer func() { _ = nodeStmt.Close() }()

	elemStmt, err := tx.Prepare("INSERT INTO elem_index (node, total, bitmap) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare elem_index insert: %w", err)
	}
	defer func() { _ = elemStmt.Close() }()

	res, err := nodeStmt.Exec(nil, "", kindAttrObject, nil)
	if err != nil {
		return fmt.Errorf("insert root: %w", err)
	}
	rootID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("root id: %w", err)
	}
	if err := writeSnapNode(nodeStmt, elemStmt, rootID, snap.Root); err != nil {
		return err
	}
	return tx.Commit()
}

func writeSnapNode(nodeStmt, elemStmt *sql.Stmt, id int64, sn *api.SnapNode) error {
	for name, v := range sn.Attributes {
		if _, err := nodeStmt.Exec(id, name, kindAttrLeaf, oj.JSON(v)); err != nil {
			return fmt.Errorf("insert attribute %q: %w", name, err)
		}
	}
	for name, child := range sn.Children {
		res, err := nodeStmt.Exec(id, name, kindAttrObject, nil)
		if err != nil {
			return fmt.Errorf("insert child %q: %w", name, err)
		}
		childID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := writeSnapNode(nodeStmt, elemStmt, childID, child); err != nil {
			return err
		}
	}
	if len(sn.Elements) == 0 {
		return nil
	}
	bm := roaring.New()
	for index, child := range sn.Elements {
		res, err := nodeStmt.Exec(id, index, kindElement, nil)
		if err != nil {
			return fmt.Errorf("insert element [%s]: %w", index, err)
		}
		childID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if v, err := strconv.ParseUint(index, 10, 32); err == nil {
			bm.Add(uint32(v))
		}
		if err := writeSnapNode(nodeStmt, elemStmt, childID, child); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if _, err := bm.WriteTo(&buf); err != nil {
		return fmt.Errorf("serialize element bitmap: %w", err)
	}
	if _, err := elemStmt.Exec(id, len(sn.Elements), buf.Bytes()); err != nil {
		return fmt.Errorf("insert elem_index: %w", err)
	}
	return nil
}

// SQLiteStore serves a model tree out of a sqlite database. The database
// plays the remote side of the Object contract: cached tables start empty
// and fill in as fetches resolve. Recently fetched tables also go through a
// FIFO-bounded cache so repeated queries against hot nodes skip the DB.
type SQLiteStore struct {
	db     *sql.DB
	tables *tableCache

	mu      sync.Mutex
	objects map[int64]*sqliteObject // one Object identity per row id
}

// OpenSQLite opens a model database produced by WriteSnapshot.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open model db: %w", err)
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM nodes WHERE parent IS NULL").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("not a model db: %w", err)
	}
	if n != 1 {
		_ = db.Close()
		return nil, fmt.Errorf("model db has %d roots, want 1", n)
	}
	return &SQLiteStore{
		db:      db,
		tables:  newTableCache(256),
		objects: make(map[int64]*sqliteObject),
	}, nil
}

// Root returns the root object of the stored model.
func (s *SQLiteStore) Root() (Object, error) {
	var id int64
	if err := s.db.QueryRow("SELECT id FROM nodes WHERE parent IS NULL").Scan(&id); err != nil {
		return nil, fmt.Errorf("query root: %w", err)
	}
	return s.object(id), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ElementIndices returns the decimal element indices recorded for an object
// of this store, without fetching the elements themselves.
func (s *SQLiteStore) ElementIndices(obj Object) (*roaring.Bitmap, error) {
	o, ok := obj.(*sqliteObject)
	if !ok || o.store != s {
		return nil, fmt.Errorf("object does not belong to this store")
	}
	var blob []byte
	var total int
	err := s.db.QueryRow("SELECT total, bitmap FROM elem_index WHERE node = ?", o.id).Scan(&total, &blob)
	if err == sql.ErrNoRows {
		return roaring.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query elem_index: %w", err)
	}
	bm := roaring.New()
	if _, err := bm.ReadFrom(bytes.NewReader(blob)); err != nil {
		return nil, fmt.Errorf("decode element bitmap: %w", err)
	}
	return bm, nil
}

func (s *SQLiteStore) object(id int64) *sqliteObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.objects[id]; ok {
		return o
	}
	o := &sqliteObject{
		store: s,
		id:    id,
		attrs: make(map[string]any),
		elems: make(map[string]Object),
	}
	s.objects[id] = o
	return o
}

// sqliteObject implements Object over one row of the nodes table.
type sqliteObject struct {
	store *SQLiteStore
	id    int64

	mu    sync.RWMutex
	attrs map[string]any
	elems map[string]Object
}

// CachedAttributes implements Object.
func (o *sqliteObject) CachedAttributes() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]any, len(o.attrs))
	for k, v := range o.attrs {
		out[k] = v
	}
	return out
}

// CachedElements implements Object.
func (o *sqliteObject) CachedElements() map[string]Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]Object, len(o.elems))
	for k, v := range o.elems {
		out[k] = v
	}
	return out
}

// FetchAttributes implements Object.
func (o *sqliteObject) FetchAttributes(ctx context.Context) (map[string]any, error) {
	key := "a:" + strconv.FormatInt(o.id, 10)
	if cached, ok := o.store.tables.get(key); ok {
		attrs := cached.(map[string]any)
		o.absorbAttrs(attrs)
		return copyAttrs(attrs), nil
	}
	rows, err := o.store.db.QueryContext(ctx,
		"SELECT id, key, kind, value FROM nodes WHERE parent = ? AND kind IN (?, ?)",
		o.id, kindAttrLeaf, kindAttrObject)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	attrs := make(map[string]any)
	for rows.Next() {
		var id int64
		var name string
		var kind int
		var value sql.NullString
		if err := rows.Scan(&id, &name, &kind, &value); err != nil {
			return nil, fmt.Errorf("scan attribute row: %w", err)
		}
		if kind == kindAttrObject {
			attrs[name] = o.store.object(id)
			continue
		}
		leaf, err := oj.ParseString(value.String)
		if err != nil {
			return nil, fmt.Errorf("decode attribute %q: %w", name, err)
		}
		attrs[name] = leaf
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read attributes: %w", err)
	}
	o.store.tables.put(key, attrs)
	o.absorbAttrs(attrs)
	return copyAttrs(attrs), nil
}

// FetchElements implements Object. Nodes with an empty (or absent) element
// bitmap skip the row query entirely.
func (o *sqliteObject) FetchElements(ctx context.Context) (map[string]Object, error) {
	key := "e:" + strconv.FormatInt(o.id, 10)
	if cached, ok := o.store.tables.get(key); ok {
		elems := cached.(map[string]Object)
		o.absorbElems(elems)
		return copyElems(elems), nil
	}
	var total int
	err := o.store.db.QueryRowContext(ctx,
		"SELECT total FROM elem_index WHERE node = ?", o.id).Scan(&total)
	if err == sql.ErrNoRows || (err == nil && total == 0) {
		empty := make(map[string]Object)
		o.store.tables.put(key, empty)
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query elem_index: %w", err)
	}
	rows, err := o.store.db.QueryContext(ctx,
		"SELECT id, key FROM nodes WHERE parent = ? AND kind = ?", o.id, kindElement)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	elems := make(map[string]Object, total)
	for rows.Next() {
		var id int64
		var index string
		if err := rows.Scan(&id, &index); err != nil {
			return nil, fmt.Errorf("scan element row: %w", err)
		}
		elems[index] = o.store.object(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read elements: %w", err)
	}
	o.store.tables.put(key, elems)
	o.absorbElems(elems)
	return copyElems(elems), nil
}

func (o *sqliteObject) absorbAttrs(attrs map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, v := range attrs {
		o.attrs[k] = v
	}
}

func (o *sqliteObject) absorbElems(elems map[string]Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, v := range elems {
		o.elems[k] = v
	}
}

func copyAttrs(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyElems(m map[string]Object) map[string]Object {
	out := make(map[string]Object, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// tableCache is a simple FIFO-evicting bounded cache for fetched tables.
type tableCache struct {
	mu      sync.Mutex
	entries map[string]any
	keys    []string
	maxSize int
}

func newTableCache(maxSize int) *tableCache {
	return &tableCache{
		entries: make(map[string]any, maxSize),
		keys:    make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *tableCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *tableCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if len(c.entries) >= c.maxSize {
		evict := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.entries, evict)
	}
	c.entries[key] = value
	c.keys = append(c.keys, key)
}
