package heuristic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"golang.org/x/exp/constraints"
)

// landmark file format (bzip2 compressed text):
//
//	<k> <n>
//	<landmark index> <d(L,0)> ... <d(L,n-1)>     per landmark
//	<d(0,L)> ... <d(n-1,L)>

func (lm *Landmark[K]) WriteLandmark(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := lm.encode(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

func (lm *Landmark[K]) encode(out io.Writer) error {
	w := bufio.NewWriter(out)

	k := len(lm.landmarks)
	n := lm.graph.NumberOfVertices()
	fmt.Fprintf(w, "%d %d\n", k, n)

	for i := 0; i < k; i++ {
		fmt.Fprintf(w, "%d", lm.landmarks[i])
		for v := 0; v < n; v++ {
			fmt.Fprintf(w, " %s", strconv.FormatFloat(lm.lw[i][v], 'f', -1, 64))
		}
		fmt.Fprintf(w, "\n")

		for v := 0; v < n; v++ {
			if v > 0 {
				fmt.Fprintf(w, " ")
			}
			fmt.Fprintf(w, "%s", strconv.FormatFloat(lm.vlw[v][i], 'f', -1, 64))
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

// ReadLandmark loads landmarks written by WriteLandmark for the same graph.
func ReadLandmark[K constraints.Ordered](filename string, graph *da.Graph[K]) (*Landmark[K], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return decodeLandmark(bufio.NewReader(bz), graph)
}

func decodeLandmark[K constraints.Ordered](br *bufio.Reader, graph *da.Graph[K]) (*Landmark[K], error) {
	ff, err := util.Fields(br, 2)
	if err != nil {
		return nil, fmt.Errorf("landmark header: %w", err)
	}
	k, err := strconv.Atoi(ff[0])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(ff[1])
	if err != nil {
		return nil, err
	}
	if n != graph.NumberOfVertices() {
		return nil, fmt.Errorf("landmark file has %d vertices, graph has %d", n, graph.NumberOfVertices())
	}

	landmarks := make([]da.Index, k)
	lw := make([][]float64, k)
	vlw := make([][]float64, n)
	for v := 0; v < n; v++ {
		vlw[v] = make([]float64, k)
	}

	for i := 0; i < k; i++ {
		ff, err := util.Fields(br, n+1)
		if err != nil {
			return nil, fmt.Errorf("landmark %d: %w", i, err)
		}
		landmarks[i], err = da.ParseIndex(ff[0])
		if err != nil {
			return nil, err
		}
		if int(landmarks[i]) >= n {
			return nil, fmt.Errorf("landmark %d: vertex %d out of range", i, landmarks[i])
		}
		lw[i], err = parseFloats(ff[1:])
		if err != nil {
			return nil, err
		}

		ff, err = util.Fields(br, n)
		if err != nil {
			return nil, fmt.Errorf("landmark %d: %w", i, err)
		}
		col, err := parseFloats(ff)
		if err != nil {
			return nil, err
		}
		for v := 0; v < n; v++ {
			vlw[v][i] = col[v]
		}
	}

	lm := NewLandmark(graph)
	lm.lw = lw
	lm.vlw = vlw
	lm.landmarks = landmarks
	return lm, nil
}

func parseFloats(ff []string) ([]float64, error) {
	out := make([]float64, len(ff))
	for i, s := range ff {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
