package libcanon

import (
	"bytes"
	"sync"

	"github.com/2x3systems/gocanon/canon"
	"github.com/cespare/xxhash/v2"
	"github.com/plan-systems/klog"
)

// DefaultPoolSz is the size of each backing buffer holding stored certificates.
const DefaultPoolSz = 32 * 1024

// DropDupeOpts configures a set built by NewDropDupes.
type DropDupeOpts struct {
	PoolSz int // 0 denotes DefaultPoolSz (32k)
}

// DropDupes is an in-memory GraphAdder keeping one graph per isomorphism class.
type DropDupes struct {
	mu        sync.Mutex
	hashMap   map[uint64][]byte
	digest    *xxhash.Digest
	keyBuf    []byte
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

// NewDropDupes returns an empty set of certificates.
func NewDropDupes(opts DropDupeOpts) *DropDupes {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &DropDupes{
		hashMap: make(map[uint64][]byte),
		digest:  xxhash.New(),
		opts:    opts,
	}
}

// Len returns the number of isomorphism classes added so far.
func (dd *DropDupes) Len() int {
	dd.mu.Lock()
	defer dd.mu.Unlock()
	return len(dd.hashMap)
}

func (dd *DropDupes) Reset() {
	dd.mu.Lock()
	defer dd.mu.Unlock()
	dd.bufPool = nil
	dd.bufPoolSz = 0
	for k := range dd.hashMap {
		delete(dd.hashMap, k)
	}
}

// TryAddGraph adds X's certificate if no isomorphic graph was added before.
// A graph that fails to canonize is never added.
func (dd *DropDupes) TryAddGraph(X canon.GraphState) bool {
	dd.mu.Lock()
	defer dd.mu.Unlock()

	Xkey, err := X.AppendCanonicKey(dd.keyBuf[:0])
	if err != nil {
		klog.Warningf("drop-dupes: graph not added: %v", err)
		return false
	}
	dd.keyBuf = Xkey

	dd.digest.Reset()
	dd.digest.Write(Xkey)
	hash := dd.digest.Sum64()

	// open addressing over the hash space
	existing, found := dd.hashMap[hash]
	for found {
		if bytes.Equal(existing, Xkey) {
			return false
		}
		hash++
		existing, found = dd.hashMap[hash]
	}

	// Place a copy of the key in the backing pool, starting a new pool when this one is full.
	pos := dd.bufPoolSz
	itemLen := len(Xkey)
	if pos+itemLen > cap(dd.bufPool) {
		dd.bufPool = make([]byte, max(dd.opts.PoolSz, itemLen))
		dd.bufPoolSz = 0
		pos = 0
	}

	dd.hashMap[hash] = append(dd.bufPool[pos:pos], Xkey...)
	dd.bufPoolSz += itemLen
	return true
}
