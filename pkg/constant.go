package pkg

import (
	"fmt"
	"math"
	"strings"
)

// enum of search_mode
type SearchMode uint8

const (
	DIJKSTRA SearchMode = iota
	ASTAR
)

func (m SearchMode) String() string {
	switch m {
	case DIJKSTRA:
		return "dijkstra"
	case ASTAR:
		return "astar"
	default:
		return fmt.Sprintf("SearchMode(%d)", uint8(m))
	}
}

func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dijkstra":
		return DIJKSTRA, nil
	case "astar", "a*", "a-star":
		return ASTAR, nil
	default:
		return DIJKSTRA, fmt.Errorf("unknown search mode %q", s)
	}
}

// INF_WEIGHT is the cost of an unreached node.
var INF_WEIGHT = math.Inf(1)

const (
	// arity of the search frontier heap
	HEAP_ARITY = 4

	DEFAULT_NUM_LANDMARKS = 16
	MAX_NUM_LANDMARKS     = 64

	DEFAULT_SNAP_RADIUS_KM = 0.5
)
