// Package pycanon registers the gpython module "_pycanon", exposing canonical labeling,
// graphs, graph streams, and catalogs to scripts.
package pycanon

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/2x3systems/gocanon/libcanon/catalog"
	"github.com/2x3systems/gocanon/libcanon/enum"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyGraphType       = py.NewType("Graph", "a graph with an optional vertex coloring")
	pyGraphStreamType = py.NewType("GraphStream", "canon.GraphStream")
	pyCatalogType     = py.NewType("Catalog", "canon.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session resources and catalogs")
)

// loadInt32s reads a list or tuple of ints, each of which must fit in an int32.
func loadInt32s(obj py.Object) ([]int32, error) {
	vals, err := py.LoadIntsFromList(obj)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(vals))
	for i, v := range vals {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, py.ExceptionNewf(py.ValueError, "item %d (%d) is outside the int32 range", i, v)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func int32sToTuple(vals []int32) py.Tuple {
	tuple := make(py.Tuple, len(vals))
	for i, v := range vals {
		tuple[i] = py.Int(v)
	}
	return tuple
}

// loadMatrixArgs reads (n, adj[, colors]) from args.
func loadMatrixArgs(args py.Tuple, allowColors bool) (n int, adj, colors []int32, err error) {
	maxArgs := 2
	if allowColors {
		maxArgs = 3
	}
	if len(args) < 2 || len(args) > maxArgs {
		err = py.ExceptionNewf(py.TypeError, "expected %d to %d arguments (got %d)", 2, maxArgs, len(args))
		return
	}

	nv, err := py.GetInt(args[0])
	if err != nil {
		return
	}
	n = int(nv)

	if adj, err = loadInt32s(args[1]); err != nil {
		return
	}

	if len(args) > 2 && args[2] != py.None {
		colors, err = loadInt32s(args[2])
	}
	return
}

// canonical_labeling(n, adj, colors=None) -> (lab, orbits)
func py_CanonicalLabeling(module py.Object, args py.Tuple) (py.Object, error) {
	n, adj, colors, err := loadMatrixArgs(args, true)
	if err != nil {
		return nil, err
	}

	lab := make([]int32, max(n, 0))
	orbits := make([]int32, max(n, 0))
	if err = libcanon.ComputeCanonicalLabeling(n, adj, colors, lab, orbits); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Tuple{int32sToTuple(lab), int32sToTuple(orbits)}, nil
}

// canonical_orbits(n, adj) -> orbits
func py_CanonicalOrbits(module py.Object, args py.Tuple) (py.Object, error) {
	n, adj, _, err := loadMatrixArgs(args, false)
	if err != nil {
		return nil, err
	}

	orbits := make([]int32, max(n, 0))
	if err = libcanon.ComputeOrbitsOnly(n, adj, orbits); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return int32sToTuple(orbits), nil
}

// EnumGraphs(n, loops=False) -> GraphStream of every labeled graph on n vertices
func py_EnumGraphs(module py.Object, args py.Tuple) (py.Object, error) {
	var n int32
	loops := false
	if err := py.LoadTuple(args, []interface{}{&n, &loops}); err != nil {
		return nil, err
	}

	stream, err := enum.AllGraphs(context.Background(), enum.EnumOpts{
		NumVerts: int(n),
		Loops:    loops,
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapGraphStream(stream), nil
}

type pyGraph struct {
	*libcanon.Graph
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, canon.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

// Graph(expr="") or Graph(n, adj, colors=None)
func py_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) >= 2 {
		n, adj, colors, err := loadMatrixArgs(args, true)
		if err != nil {
			return nil, err
		}
		X, err := libcanon.NewGraphFromMatrix(n, adj, colors)
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return pyGraph{X}, nil
	}

	var expr string
	if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
		return nil, err
	}
	X, err := libcanon.NewGraphFromString(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pyGraph{X}, nil
}

func py_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Int(X.NumVerts()), nil
}

func py_Graph_Canonize(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if err := X.Canonize(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return X, nil
}

func py_Graph_Labeling(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if err := X.Canonize(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	lab, _ := X.Labeling()
	return int32sToTuple(lab), nil
}

func py_Graph_Orbits(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if err := X.Canonize(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	orbits, _ := X.Orbits()
	return int32sToTuple(orbits), nil
}

func py_Graph_GroupSize(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if err := X.Canonize(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	stats := X.Stats()
	return py.Tuple{py.Float(stats.GroupMantissa), py.Int(stats.GroupExponent)}, nil
}

func py_Graph_Graph6(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	g6, err := X.CanonicGraph6()
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.String(g6), nil
}

func py_Graph_CanonicKey(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	key, err := X.AppendCanonicKey(nil)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Bytes(key), nil
}

func py_Graph_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	next := canon.StreamGraph(X.Graph)
	return wrapGraphStream(next), nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx canon.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{
			CatalogCtx: canon.NewCatalogContext(),
		}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// OpenCatalog(pathname="", flags=0); an empty pathname opens an in-memory catalog
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := canon.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	canon.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := canon.DefaultGraphSelector
	if len(args) > 0 {
		err := getGraphSelector(args[0], &sel)
		if err != nil {
			return nil, err
		}
	}

	next := canon.SelectFromCatalog(cat, sel)
	return wrapGraphStream(next), nil
}

func py_Catalog_NumGraphs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "NumGraphs expects a vertex count")
	}

	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumGraphs(int(Nv))), nil
}

type graphStream struct {
	*canon.GraphStream
}

func (stream graphStream) Type() *py.Type {
	return pyGraphStreamType
}

func wrapGraphStream(stream *canon.GraphStream) py.Object {
	return graphStream{stream}
}

func py_GraphStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

// Print(label="", graph=True, matrix=False, canonic=True, graph6=False, file="")
func py_GraphStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	var pathname string

	opts := canon.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	outCount := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", outCount)
	}

	py.LoadAttr(kwargs, "graph", &opts.Graph)
	py.LoadAttr(kwargs, "matrix", &opts.Matrix)
	py.LoadAttr(kwargs, "canonic", &opts.Canonic)
	py.LoadAttr(kwargs, "graph6", &opts.Graph6)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapGraphStream(next), nil
}

func py_GraphStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo expects a Catalog")
	}
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", canon.ErrCatalogReadOnly)
	}

	next := stream.AddTo(cat)
	return wrapGraphStream(next), nil
}

func py_GraphStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)

	// The set lives as long as the stream stage that references it
	dupes := libcanon.NewDropDupes(libcanon.DropDupeOpts{})
	next := stream.AddTo(dupes)
	return wrapGraphStream(next), nil
}

func py_GraphStream_Canonize(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	next := stream.Canonize()
	return wrapGraphStream(next), nil
}

func py_GraphStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Select expects a graph selector")
	}
	sel := canon.DefaultGraphSelector
	err := getGraphSelector(args[0], &sel)
	if err != nil {
		return nil, err
	}
	stream := self.(graphStream)
	next := stream.SelectFromStream(sel)
	return wrapGraphStream(next), nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Graph_NumVerts, 0, "")
		pyGraphType.Dict["Canonize"] = py.MustNewMethod("Canonize", py_Graph_Canonize, 0, "computes the canonical labeling and orbits of this Graph")
		pyGraphType.Dict["Labeling"] = py.MustNewMethod("Labeling", py_Graph_Labeling, 0, "canonical labeling: vertex at each canonical position")
		pyGraphType.Dict["Orbits"] = py.MustNewMethod("Orbits", py_Graph_Orbits, 0, "smallest vertex in each vertex's orbit")
		pyGraphType.Dict["GroupSize"] = py.MustNewMethod("GroupSize", py_Graph_GroupSize, 0, "order of the automorphism group as (mantissa, exponent): mantissa * 10**exponent")
		pyGraphType.Dict["Graph6"] = py.MustNewMethod("Graph6", py_Graph_Graph6, 0, "graph6 form of the canonical graph")
		pyGraphType.Dict["CanonicKey"] = py.MustNewMethod("CanonicKey", py_Graph_CanonicKey, 0, "certificate as a bytes object")
		pyGraphType.Dict["Stream"] = py.MustNewMethod("Stream", py_Graph_Stream, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumGraphs"] = py.MustNewMethod("NumGraphs", py_Catalog_NumGraphs, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// GraphStream
	{
		pyGraphStreamType.Dict["Go"] = py.MustNewMethod("Go", py_GraphStream_Go, 0, "counts the number of graphs output from the GraphStream")
		pyGraphStreamType.Dict["Print"] = py.MustNewMethod("Print", py_GraphStream_Print, 0, "prints each graph from the GraphStream")
		pyGraphStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_GraphStream_AddTo, 0, "")
		pyGraphStreamType.Dict["Canonize"] = py.MustNewMethod("Canonize", py_GraphStream_Canonize, 0, "")
		pyGraphStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_GraphStream_DropDupes, 0, "")
		pyGraphStreamType.Dict["Select"] = py.MustNewMethod("Select", py_GraphStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("canonical_labeling", py_CanonicalLabeling, 0, "canonical_labeling(n, adj, colors=None) -> (lab, orbits)"),
			py.MustNewMethod("canonical_orbits", py_CanonicalOrbits, 0, "canonical_orbits(n, adj) -> orbits"),
			py.MustNewMethod("Graph", py_NewGraph, 0, "Graph(expr) or Graph(n, adj, colors=None)"),
			py.MustNewMethod("EnumGraphs", py_EnumGraphs, 0, "EnumGraphs(n, loops=False) -> GraphStream"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_VTX":     py.Int(canon.MaxVertices),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pycanon",
				Doc:  "canonical labeling gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}

func intAttr(obj py.Object, key string, min, max int64) (int64, error) {
	attr, err := py.GetAttrString(obj, key)
	if err != nil {
		return 0, err
	}
	val, err := py.GetInt(attr)
	if err != nil {
		return 0, err
	}
	intVal := int64(val)
	if intVal < min {
		intVal = min
	}
	if intVal > max {
		intVal = max
	}
	return intVal, nil
}

// exportGraphInfo reads an object with verts, edges, loops, colors, and orbits attributes.
func exportGraphInfo(graphInfo py.Object, info *canon.GraphInfo) error {
	fields := []struct {
		key string
		dst *int32
		max int64
	}{
		{"verts", &info.NumVerts, canon.MaxVertices},
		{"edges", &info.NumEdges, int64(canon.DefaultGraphSelector.Max.NumEdges)},
		{"loops", &info.NumLoops, canon.MaxVertices},
		{"colors", &info.NumColors, canon.MaxVertices},
		{"orbits", &info.NumOrbits, canon.MaxVertices},
	}
	for _, field := range fields {
		val, err := intAttr(graphInfo, field.key, 0, field.max)
		if err != nil {
			return err
		}
		*field.dst = int32(val)
	}
	return nil
}

func getGraphSelector(graph_selector py.Object, sel *canon.GraphSelector) error {
	info, err := py.GetAttrString(graph_selector, "min")
	if err != nil {
		return err
	}
	if err = exportGraphInfo(info, &sel.Min); err != nil {
		return err
	}

	info, err = py.GetAttrString(graph_selector, "max")
	if err != nil {
		return err
	}
	return exportGraphInfo(info, &sel.Max)
}
