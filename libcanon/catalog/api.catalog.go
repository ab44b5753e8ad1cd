// Package catalog is a badger database of canonical graph forms, one entry per isomorphism class.
package catalog

import (
	"github.com/gogo/protobuf/proto"
)

// Catalog database format:
//
//	gCatalogStateKey                              => CatalogState
//	kGraphPrefix, GraphInfoHeader, CanonicKey     => GraphEntry
//
// GraphInfoHeader leads with the vertex count, so entries iterate by ascending vertex count,
// then color count, then edge count.
var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const kGraphPrefix = byte(0x01)

const (
	kMajorVers = 2024
	kMinorVers = 2
)

// CatalogState is the persisted summary of a catalog.
type CatalogState struct {
	MajorVers int32    `protobuf:"varint,1,opt,name=MajorVers,proto3" json:"MajorVers,omitempty"`
	MinorVers int32    `protobuf:"varint,2,opt,name=MinorVers,proto3" json:"MinorVers,omitempty"`
	NumGraphs []uint64 `protobuf:"varint,3,rep,packed,name=NumGraphs,proto3" json:"NumGraphs,omitempty"` // NumGraphs[n] is the count for n vertices
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// GraphEntry is a stored isomorphism class representative, in canonical vertex order.
type GraphEntry struct {
	NumVerts      int32   `protobuf:"varint,1,opt,name=NumVerts,proto3" json:"NumVerts,omitempty"`
	Adjacency     []byte  `protobuf:"bytes,2,opt,name=Adjacency,proto3" json:"Adjacency,omitempty"` // row-major, one byte per entry
	Colors        []int32 `protobuf:"zigzag32,3,rep,packed,name=Colors,proto3" json:"Colors,omitempty"`
	NumOrbits     int32   `protobuf:"varint,4,opt,name=NumOrbits,proto3" json:"NumOrbits,omitempty"`
	GroupMantissa float64 `protobuf:"fixed64,5,opt,name=GroupMantissa,proto3" json:"GroupMantissa,omitempty"` // |Aut| = GroupMantissa * 10^GroupExponent
	GraphExpr     string  `protobuf:"bytes,6,opt,name=GraphExpr,proto3" json:"GraphExpr,omitempty"`
	GroupExponent int32   `protobuf:"varint,7,opt,name=GroupExponent,proto3" json:"GroupExponent,omitempty"`
}

func (m *GraphEntry) Reset()         { *m = GraphEntry{} }
func (m *GraphEntry) String() string { return proto.CompactTextString(m) }
func (*GraphEntry) ProtoMessage()    {}
