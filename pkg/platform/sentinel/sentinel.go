package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, lookup clients, and other
// infrastructure layers return these (optionally wrapped) so services can
// translate them into domain errors at the edge.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the backing store
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: collaborator or resource temporarily unavailable
// - ErrStale: a response arrived for a selection that has since changed
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrStale        = errors.New("stale")
)
