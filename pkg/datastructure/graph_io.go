package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"golang.org/x/exp/constraints"
)

// graph file format (bzip2 compressed text):
//
//	<numVertices> <numEdges>
//	<id>                      numVertices lines, sorted
//	<from> <to> <weight>      numEdges lines, by index

func (g *Graph[K]) WriteGraph(filename string, format func(K) string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := g.Encode(bz, format); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

// Encode writes the uncompressed text form of the graph.
func (g *Graph[K]) Encode(out io.Writer, format func(K) string) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges())

	for _, id := range g.ids {
		fmt.Fprintf(w, "%s\n", format(id))
	}

	for u := 0; u < g.NumberOfVertices(); u++ {
		for e := g.firstOut[u]; e < g.firstOut[u+1]; e++ {
			weightF := strconv.FormatFloat(g.weight[e], 'f', -1, 64)
			fmt.Fprintf(w, "%d %d %s\n", u, g.head[e], weightF)
		}
	}

	return w.Flush()
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u >= math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func ReadGraph[K constraints.Ordered](filename string, parse func(string) (K, error)) (*Graph[K], error) {
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

	return DecodeGraph(bz, parse)
}

// DecodeGraph reads the uncompressed text form written by Encode. The edges go through a
// GraphBuilder, so a corrupt file can't produce self-loops or invalid weights.
func DecodeGraph[K constraints.Ordered](in io.Reader, parse func(string) (K, error)) (*Graph[K], error) {
	br := bufio.NewReader(in)

	tokens, err := util.Fields(br, 2)
	if err != nil {
		return nil, fmt.Errorf("graph header: %w", err)
	}

	numVertices, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, err
	}

	b := NewGraphBuilder[K]()
	ids := make([]K, numVertices)
	for i := 0; i < int(numVertices); i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		ids[i], err = parse(line)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		b.AddNode(ids[i])
	}

	for i := 0; i < numEdges; i++ {
		fs, err := util.Fields(br, 3)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		u, err := ParseIndex(fs[0])
		if err != nil {
			return nil, err
		}
		v, err := ParseIndex(fs[1])
		if err != nil {
			return nil, err
		}
		if u >= numVertices || v >= numVertices {
			return nil, fmt.Errorf("edge %d: vertex index out of range", i)
		}
		w, err := strconv.ParseFloat(fs[2], 64)
		if err != nil {
			return nil, err
		}
		if err := b.AddEdge(ids[u], ids[v], w); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

func FormatInt64(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// QuoteString and UnquoteString let string ids contain spaces.
func QuoteString(id string) string {
	return strconv.Quote(id)
}

func UnquoteString(s string) (string, error) {
	return strconv.Unquote(s)
}
