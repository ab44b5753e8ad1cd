package canon

import (
	"io"
)

const (

	// WordBits is the number of vertex bits packed into each word of a graph row.
	WordBits = 64

	// MaxVertices is the largest vertex count accepted by the entry points.
	// It bounds n·n so that the adjacency matrix length and all transient buffers stay addressable.
	MaxVertices = 1 << 15

	// WorkspaceWordsPerRow is the number of workspace words provisioned per row word for one oracle invocation.
	WorkspaceWordsPerRow = 100
)

// RowWords returns the number of words in each bit-packed row of a graph with n vertices.
func RowWords(n int) int {
	return (n + WordBits - 1) / WordBits
}

// Options configures a single oracle invocation.
//
// Options are passed explicitly on every call rather than held as process state, so
// two invocations never observe each other's mode.
type Options struct {
	GetCanon   bool // if set, the labeling is rewritten into canonical order
	Digraph    bool // if set, in-neighbors are considered during refinement (directed reading)
	DefaultPtn bool // if set, the given partition is ignored and all vertices start in one cell
}

// DefaultOptions is the mode used by the canonical labeling entry points.
var DefaultOptions = Options{
	GetCanon:   true,
	Digraph:    false,
	DefaultPtn: true,
}

// Stats reports what a single oracle invocation did.
//
// The order of the automorphism group (respecting the coloring) is GroupMantissa * 10^GroupExponent.
// GroupExponent stays 0 while the order is below GroupSizeLimit, so small orders are exact.
type Stats struct {
	NumOrbits     int     // number of automorphism orbits
	NumGenerators int     // number of automorphisms found and kept as generators
	GroupMantissa float64 // group order, scaled by 10^-GroupExponent
	GroupExponent int     // decimal exponent of the group order, a multiple of 10
	NumNodes      int64   // search tree nodes visited
	NumLeaves     int64   // search tree leaves reached
	MaxLevel      int     // deepest search tree level reached
	CanUpdates    int     // number of times the best leaf changed
}

// GroupSizeLimit is the mantissa bound past which Stats moves powers of ten into GroupExponent.
const GroupSizeLimit = 1e10

// GraphInfo summarizes a graph for catalog keys and selection.
type GraphInfo struct {
	NumVerts  int32
	NumEdges  int32 // undirected edges, not counting self loops
	NumLoops  int32
	NumColors int32 // number of distinct colors (1 when uncolored and n > 0)
	NumOrbits int32 // zero until canonized
}

// GraphState is a graph that can be canonized and compared with other graphs by its canonic key.
type GraphState interface {

	// NumVerts returns the number of vertices in this graph.
	NumVerts() int

	// Canonize computes this graph's canonical labeling and orbits.
	Canonize() error

	// AppendCanonicKey appends this graph's certificate to the given buffer.
	// Two graphs have equal keys iff they are isomorphic under a color-preserving map.
	AppendCanonicKey(io []byte) ([]byte, error)

	WriteAsString(out io.Writer, opts PrintOpts)

	// Returns info about this graph
	GetInfo() GraphInfo

	// Returns a new copy of this instance.
	MakeCopy() GraphState

	// Recycles this GraphState instance into a pool for reuse.
	// Caller asserts that no more references to this instance will persist.
	Reclaim()
}

// OnGraphHit is a callback proc used to return Graph's meeting a set of selection criteria.
// Ownership of a Graph also travels through the channel.
type OnGraphHit chan<- GraphState

// GraphAdder accepts graphs, keeping one representative per isomorphism class.
type GraphAdder interface {

	// Tries to add the given graph to this set.
	// If true is returned, no isomorphic graph was present and X was added.
	TryAddGraph(X GraphState) bool
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog wraps a database of canonical graph forms, one entry per isomorphism class.
type Catalog interface {
	GraphAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumGraphs returns the number of isomorphism classes in this catalog for a given vertex count.
	// An out of bounds vertex count returns 0.
	NumGraphs(forVtxCount int) int64

	// Select fires the given callback with each stored graph that meets the selection criteria.
	Select(sel GraphSelector, onHit OnGraphHit)

	Close() error
}

// GraphSelector is an operator that either selects a given Graph or not.
type GraphSelector struct {
	Min GraphInfo // lower select bounds
	Max GraphInfo // upper select bounds
}

// PrintOpts specifies what is printing when printing a graph
type PrintOpts struct {
	Label     string // Prefix label
	Graph     bool   // If set, prints the adjacency as a graph expression
	Matrix    bool   // if set, prints matrix representation of graph
	Canonic   bool   // if set, prints the canonical labeling and orbits
	Graph6    bool   // if set, prints the graph6 form of the canonical graph
	Separator string // printed between sections (defaults to a comma)
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Graph:   true,
	Canonic: true,
}

// DefaultGraphSelector selects all graphs.
var DefaultGraphSelector = GraphSelector{
	Max: GraphInfo{
		NumVerts:  MaxVertices,
		NumEdges:  MaxVertices * (MaxVertices - 1) / 2,
		NumLoops:  MaxVertices,
		NumColors: MaxVertices,
		NumOrbits: MaxVertices,
	},
}

// SelectsGraph is a convenience function used to see if a Graph is selected according to a GraphSelector.
func (sel *GraphSelector) SelectsGraph(X GraphState) bool {
	return sel.SelectsInfo(X.GetInfo())
}

// SelectsInfo reports if the given GraphInfo is within this selector's bounds.
func (sel *GraphSelector) SelectsInfo(info GraphInfo) bool {
	if info.NumVerts < sel.Min.NumVerts || info.NumEdges < sel.Min.NumEdges || info.NumLoops < sel.Min.NumLoops || info.NumColors < sel.Min.NumColors || info.NumOrbits < sel.Min.NumOrbits {
		return false
	}
	if info.NumVerts > sel.Max.NumVerts || info.NumEdges > sel.Max.NumEdges || info.NumLoops > sel.Max.NumLoops || info.NumColors > sel.Max.NumColors || info.NumOrbits > sel.Max.NumOrbits {
		return false
	}
	return true
}
