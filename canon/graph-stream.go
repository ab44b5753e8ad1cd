package canon

import (
	"fmt"
	"io"
	"strings"

	"github.com/plan-systems/klog"
)

// GraphStream is one stage of a graph pipeline.
// Whoever produces onto Outlet closes it, and ownership of each graph travels with it.
type GraphStream struct {
	Outlet chan GraphState
}

// NewGraphStream returns an open stream with room for one pending graph.
func NewGraphStream() *GraphStream {
	return &GraphStream{
		Outlet: make(chan GraphState, 1),
	}
}

// produce runs fn in its own goroutine, feeding a new stream that is closed once fn returns.
func produce(fn func(out OnGraphHit)) *GraphStream {
	next := NewGraphStream()
	go func() {
		defer next.Close()
		fn(next.Outlet)
	}()
	return next
}

// filter passes on each graph of stream that keep accepts; rejected graphs are reclaimed.
func (stream *GraphStream) filter(keep func(X GraphState) bool) *GraphStream {
	return produce(func(out OnGraphHit) {
		for X := range stream.Outlet {
			if keep(X) {
				out <- X
			} else {
				X.Reclaim()
			}
		}
	})
}

// StreamGraph streams a copy of X.
func StreamGraph(X GraphState) *GraphStream {
	return StreamGraphs([]GraphState{X})
}

// StreamGraphs streams a copy of each given graph, in order.
func StreamGraphs(graphs []GraphState) *GraphStream {
	return produce(func(out OnGraphHit) {
		for _, X := range graphs {
			out <- X.MakeCopy()
		}
	})
}

// SelectFromCatalog streams the stored graphs of cat that sel selects.
// The catalog filters with its stored orbit counts, so nothing is filtered again here.
func SelectFromCatalog(cat Catalog, sel GraphSelector) *GraphStream {
	return produce(func(out OnGraphHit) {
		cat.Select(sel, out)
	})
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X GraphState) {
	stream.Outlet <- X.MakeCopy()
}

func (stream *GraphStream) PullGraph() GraphState {
	return <-stream.Outlet
}

// PullAll drains and reclaims the stream, returning how many graphs it held.
func (stream *GraphStream) PullAll() int {
	count := 0
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

// Canonize canonizes each graph, dropping graphs that fail to canonize.
func (stream *GraphStream) Canonize() *GraphStream {
	return stream.filter(func(X GraphState) bool {
		if err := X.Canonize(); err != nil {
			klog.Errorf("canonize stage: dropping graph: %v", err)
			return false
		}
		return true
	})
}

// AddTo passes on only the graphs target accepts as new isomorphism classes.
func (stream *GraphStream) AddTo(target GraphAdder) *GraphStream {
	return stream.filter(target.TryAddGraph)
}

// SelectFromStream passes on the graphs sel selects.
func (stream *GraphStream) SelectFromStream(sel GraphSelector) *GraphStream {
	return stream.filter(sel.SelectsGraph)
}

// Print writes one numbered line per graph to out, closing out when the stream ends.
func (stream *GraphStream) Print(out io.WriteCloser, opts PrintOpts) *GraphStream {
	return produce(func(next OnGraphHit) {
		defer out.Close()

		var line strings.Builder
		line.Grow(256)
		for count := 1; ; count++ {
			X, ok := <-stream.Outlet
			if !ok {
				return
			}
			line.Reset()
			fmt.Fprintf(&line, "%s,%06d,", opts.Label, count)
			X.WriteAsString(&line, opts)
			line.WriteByte('\n')
			io.WriteString(out, line.String())
			next <- X
		}
	})
}
