package catalog

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// catalog is a db wrapper for a catalog of canonical forms
type catalog struct {
	ctx        canon.CatalogContext
	readOnly   bool
	mu         sync.Mutex
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

// OpenCatalog opens a new or existing catalog and attaches it to the given context.
// An empty opts.DbPathName opens an in-memory catalog.
func OpenCatalog(ctx canon.CatalogContext, opts canon.CatalogOpts) (canon.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(canon.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %q", opts.DbPathName)
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}

	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(canon.ErrIncompatibleFormat, "catalog version %d.%d", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(1).Infof("opened catalog %q (read-only: %v)", opts.DbPathName, cat.readOnly)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := proto.Unmarshal(val, &cat.state); err != nil {
				return errors.Wrap(canon.ErrUnmarshal, err.Error())
			}
			return nil
		})
	})
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty {
		return nil
	}

	stateBuf, err := proto.Marshal(&cat.state)
	if err != nil {
		return err
	}
	err = cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err != nil {
		return err
	}
	cat.stateDirty = false
	return nil
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return nil
	}

	err := cat.flushState()
	if err != nil {
		klog.Warningf("catalog: failed to flush state: %v", err)
	}
	if closeErr := cat.db.Close(); err == nil {
		err = closeErr
	}
	cat.db = nil
	cat.ctx.DetachCatalog(cat)
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

// NumGraphs returns the number of isomorphism classes stored with the given vertex count.
func (cat *catalog) NumGraphs(forVtxCount int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if forVtxCount < 0 || forVtxCount >= len(cat.state.NumGraphs) {
		return 0
	}
	return int64(cat.state.NumGraphs[forVtxCount])
}

func (cat *catalog) bumpGraphCount(numVerts int) {
	if numVerts >= len(cat.state.NumGraphs) {
		grown := make([]uint64, numVerts+1)
		copy(grown, cat.state.NumGraphs)
		cat.state.NumGraphs = grown
	}
	cat.state.NumGraphs[numVerts]++
	cat.stateDirty = true
}

// formGraphKey returns the catalog key of X: prefix, info header, and certificate.
func formGraphKey(X canon.GraphState) ([]byte, canon.GraphInfo, error) {
	info := X.GetInfo()
	key := make([]byte, 0, 1+canon.GraphInfoHeaderLen+64)
	key = append(key, kGraphPrefix)
	key = info.AppendGraphInfoHeader(key)
	key, err := X.AppendCanonicKey(key)
	return key, info, err
}

// TryAddGraph adds X's canonical form if no isomorphic graph is stored yet.
func (cat *catalog) TryAddGraph(X canon.GraphState) bool {
	if cat.readOnly {
		klog.Warningf("catalog: %v", canon.ErrCatalogReadOnly)
		return false
	}

	Xg, ok := X.(*libcanon.Graph)
	if !ok {
		klog.Warningf("catalog: unsupported graph type %T", X)
		return false
	}

	key, info, err := formGraphKey(Xg)
	if err != nil {
		klog.Warningf("catalog: graph not added: %v", err)
		return false
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return false
	}

	added := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		entry, err := newGraphEntry(Xg)
		if err != nil {
			return err
		}
		val, err := proto.Marshal(entry)
		if err != nil {
			return err
		}
		if err = txn.Set(key, val); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		klog.Warningf("catalog: graph not added: %v", err)
		return false
	}

	if added {
		cat.bumpGraphCount(int(info.NumVerts))
	}
	return added
}

func newGraphEntry(X *libcanon.Graph) (*GraphEntry, error) {
	Xc, err := X.CanonicGraph()
	if err != nil {
		return nil, err
	}
	defer Xc.Reclaim()

	n := Xc.NumVerts()
	entry := &GraphEntry{
		NumVerts:  int32(n),
		Adjacency: make([]byte, n*n),
		Colors:    append([]int32(nil), Xc.Colors()...),
		GroupMantissa: X.Stats().GroupMantissa,
		GroupExponent: int32(X.Stats().GroupExponent),
		GraphExpr: Xc.String(),
	}
	for i, a := range Xc.Adjacency() {
		if a != 0 {
			entry.Adjacency[i] = 1
		}
	}
	orbits, _ := X.Orbits()
	for v, rep := range orbits {
		if int(rep) == v {
			entry.NumOrbits++
		}
	}
	return entry, nil
}

// Select pushes each stored graph meeting the selection criteria to onHit, by ascending key.
// Ownership of each pushed Graph passes to the receiver.
func (cat *catalog) Select(sel canon.GraphSelector, onHit canon.OnGraphHit) {
	cat.mu.Lock()
	db := cat.db
	cat.mu.Unlock()
	if db == nil {
		return
	}

	var seekKey [3]byte
	seekKey[0] = kGraphPrefix
	binary.BigEndian.PutUint16(seekKey[1:], uint16(max(sel.Min.NumVerts, 0)))

	txn := db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         seekKey[:1],
	})
	defer it.Close()

	for it.Seek(seekKey[:]); it.ValidForPrefix(seekKey[:1]); it.Next() {
		item := it.Item()

		var info canon.GraphInfo
		if err := info.ReadGraphInfoHeader(item.Key()[1:]); err != nil {
			klog.Warningf("catalog: skipping entry with bad key: %v", err)
			continue
		}
		if info.NumVerts > sel.Max.NumVerts {
			break
		}

		var entry GraphEntry
		err := item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &entry)
		})
		if err != nil {
			klog.Warningf("catalog: skipping unreadable entry: %v", err)
			continue
		}

		info.NumOrbits = entry.NumOrbits
		if !sel.SelectsInfo(info) {
			continue
		}

		X, err := entry.newGraph()
		if err != nil {
			klog.Warningf("catalog: skipping entry: %v", err)
			continue
		}
		onHit <- X
	}
}

// newGraph returns the Graph stored in this entry.
func (entry *GraphEntry) newGraph() (*libcanon.Graph, error) {
	n := int(entry.NumVerts)
	if len(entry.Adjacency) != n*n {
		return nil, errors.Wrapf(canon.ErrUnmarshal, "entry has %d adjacency entries for %d vertices", len(entry.Adjacency), n)
	}

	adj := make([]int32, n*n)
	for i, a := range entry.Adjacency {
		adj[i] = int32(a)
	}
	var colors []int32
	if len(entry.Colors) > 0 {
		colors = entry.Colors
	}
	return libcanon.NewGraphFromMatrix(n, adj, colors)
}
