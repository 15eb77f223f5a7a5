package domain

// PipelineState is the lifecycle state of the query pipeline.
type PipelineState string

// Pipeline states. Queries are served once an index has been published;
// a rebuild keeps the previous index live until the replacement is
// swapped in. A first-build failure is terminal until the next explicit
// rebuild.
const (
	StateUninitialized PipelineState = "uninitialized"
	StateBuilding      PipelineState = "building"
	StateReady         PipelineState = "ready"
	StateFailed        PipelineState = "failed"
)

// String returns the string representation.
func (s PipelineState) String() string {
	return string(s)
}

// CanServe returns true if queries may be answered in this state.
func (s PipelineState) CanServe() bool {
	return s == StateReady
}
