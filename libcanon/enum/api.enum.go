// Package enum streams every labeled graph on a given number of vertices.
//
// Feeding the stream through Canonize and a drop-dupes set leaves one graph per isomorphism class,
// which is how the unlabeled graph counts (1, 2, 4, 11, 34, 156, ...) are reproduced.
package enum

// MaxVertices is the largest vertex count AllGraphs accepts; each graph's edge set is a 64-bit mask,
// so with Loops set the limit is 10.
const MaxVertices = 11

// EnumOpts specifies which labeled graphs are enumerated.
type EnumOpts struct {
	NumVerts int     // vertex count of every emitted graph
	Loops    bool    // if set, each vertex may also carry a self loop
	Colors   []int32 // optional coloring applied to every emitted graph
}
