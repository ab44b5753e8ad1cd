package canon

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"sync"
)

// NewCatalogContext returns a CatalogContext that closes every attached Catalog when it closes.
func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.Closing()
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	closeOnce    sync.Once
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)
		ctx.mu.Lock()
		for cat := range ctx.openCatalogs {
			go cat.Close()
		}
		ctx.mu.Unlock()
	})
}

// NumEdgesAndLoops returns the number of edges and self loops described by this info.
func (info *GraphInfo) NumEdgesAndLoops() int32 {
	return info.NumEdges + info.NumLoops
}

// AppendGraphInfoHeader appends the defining info about a Graph to the given buffer.
//
// The order of fields is such that, lexicographically, graphs with fewer vertices appear first,
// then graphs with fewer colors, then graphs with fewer edges.
func (info *GraphInfo) AppendGraphInfoHeader(prefix []byte) []byte {
	prefix = binary.BigEndian.AppendUint16(prefix, uint16(info.NumVerts))
	prefix = binary.BigEndian.AppendUint16(prefix, uint16(info.NumColors))
	prefix = binary.BigEndian.AppendUint32(prefix, uint32(info.NumEdges))
	prefix = binary.BigEndian.AppendUint16(prefix, uint16(info.NumLoops))
	return prefix
}

// GraphInfoHeaderLen is the number of bytes appended by AppendGraphInfoHeader.
const GraphInfoHeaderLen = 10

// ReadGraphInfoHeader reads a header written by AppendGraphInfoHeader, leaving NumOrbits unchanged.
func (info *GraphInfo) ReadGraphInfoHeader(header []byte) error {
	if len(header) < GraphInfoHeaderLen {
		return ErrUnmarshal
	}
	info.NumVerts = int32(binary.BigEndian.Uint16(header[0:]))
	info.NumColors = int32(binary.BigEndian.Uint16(header[2:]))
	info.NumEdges = int32(binary.BigEndian.Uint32(header[4:]))
	info.NumLoops = int32(binary.BigEndian.Uint16(header[8:]))
	return nil
}

// MultiplyGroupSize multiplies the group order by k.
func (st *Stats) MultiplyGroupSize(k int) {
	st.GroupMantissa *= float64(k)
	for st.GroupMantissa >= GroupSizeLimit {
		st.GroupMantissa /= GroupSizeLimit
		st.GroupExponent += 10
	}
}

// GroupSize returns the group order as a float64, which is +Inf for orders past the float64 range.
func (st Stats) GroupSize() float64 {
	if st.GroupExponent == 0 {
		return st.GroupMantissa
	}
	return st.GroupMantissa * math.Pow10(st.GroupExponent)
}

// GroupSizeLog10 returns log10 of the group order.
func (st Stats) GroupSizeLog10() float64 {
	return math.Log10(st.GroupMantissa) + float64(st.GroupExponent)
}

// GroupSizeString formats the group order, exactly while GroupExponent is 0 and as "m.mmmmmmeX" beyond.
func (st Stats) GroupSizeString() string {
	if st.GroupExponent == 0 {
		return strconv.FormatFloat(st.GroupMantissa, 'f', -1, 64)
	}
	m, e := st.GroupMantissa, st.GroupExponent
	for m >= 10 {
		m /= 10
		e++
	}
	return fmt.Sprintf("%.6fe%d", m, e)
}
