package canon

import "errors"

// Errors
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAllocation         = errors.New("transient allocation cannot be satisfied")
	ErrWorkspaceTooSmall  = errors.New("oracle workspace too small")
	ErrBadPartition       = errors.New("bad initial partition")
	ErrNotCanonized       = errors.New("graph has not been canonized")
	ErrSelfLoop           = errors.New("graph6 cannot encode self loops")
	ErrAsymmetric         = errors.New("graph6 requires a symmetric adjacency")
	ErrBadGraphExpr       = errors.New("bad graph expression")
	ErrBadVtxID           = errors.New("bad graph vertex ID")
	ErrConflictingColor   = errors.New("vertex assigned conflicting colors")
	ErrBadCatalogParam    = errors.New("bad catalog param")
	ErrCatalogReadOnly    = errors.New("catalog is in read-only mode")
	ErrIncompatibleFormat = errors.New("catalog format is incompatible")
	ErrUnmarshal          = errors.New("unmarshal failed")
)
