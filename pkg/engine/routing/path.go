package routing

import (
	"fmt"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/util"
)

// ReconstructPath walks parent links from destination back to source and returns the path in
// traversal order. parent[source] must be source. The walk is bounded by len(parent)+1 steps,
// so a corrupt chain ends in ErrCycleDetected instead of looping.
func ReconstructPath(parent []da.Index, source, destination da.Index) ([]da.Index, error) {
	n := da.Index(len(parent))
	if source >= n || destination >= n {
		return nil, fmt.Errorf("%w: index out of range", ErrCycleDetected)
	}
	if destination == source {
		return []da.Index{source}, nil
	}
	if parent[destination] == da.INVALID_INDEX {
		return nil, ErrUnreachable
	}

	path := make([]da.Index, 0, 16)
	cur := destination
	for steps := 0; steps <= len(parent); steps++ {
		path = append(path, cur)
		if cur == source {
			return util.ReverseG(path), nil
		}
		next := parent[cur]
		if next == da.INVALID_INDEX {
			return nil, fmt.Errorf("%w: chain of %d broken at %d", ErrUnreachable, destination, cur)
		}
		if next >= n || next == cur {
			return nil, fmt.Errorf("%w: at %d", ErrCycleDetected, cur)
		}
		cur = next
	}
	return nil, fmt.Errorf("%w: walked %d steps from %d", ErrCycleDetected, len(parent)+1, destination)
}
