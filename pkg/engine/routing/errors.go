package routing

import "errors"

var (
	ErrNodeNotFound      = errors.New("node not found in graph")
	ErrUnreachable       = errors.New("destination is not reachable from source")
	ErrCycleDetected     = errors.New("cycle detected in parent links")
	ErrCancelled         = errors.New("search cancelled")
	ErrProviderFailure   = errors.New("provider failure")
	ErrHeuristicRequired = errors.New("astar search requires a heuristic")
	ErrInvalidHeuristic  = errors.New("heuristic returned a negative or NaN estimate")
	ErrNoDestination     = errors.New("query has no destination")
	ErrUnknownSearchMode = errors.New("unknown search mode")
)
