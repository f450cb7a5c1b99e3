package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"golang.org/x/exp/constraints"
)

// GeometryStore keeps edge shapes in pebble under geom/<from>/<to>. The value is the length in meters as a
// uvarint of its float bits followed by the encoded polyline.
type GeometryStore[K constraints.Ordered] struct {
	db *pebble.DB
}

func NewGeometryStore[K constraints.Ordered](db *pebble.DB) *GeometryStore[K] {
	return &GeometryStore[K]{db: db}
}

func geometryKey[K constraints.Ordered](from, to K) []byte {
	return []byte("geom/" + keyPart(from) + "/" + keyPart(to))
}

func encodeLine(line geo.LineGeometry) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, math.Float64bits(line.Length))
	return append(buf[:n], geo.EncodePolyline(line.Points)...)
}

func decodeLine(val []byte) (geo.LineGeometry, error) {
	bits, n := binary.Uvarint(val)
	if n <= 0 {
		return geo.LineGeometry{}, errors.New("corrupt geometry value")
	}
	points, err := geo.DecodePolyline(string(val[n:]))
	if err != nil {
		return geo.LineGeometry{}, err
	}
	return geo.LineGeometry{Points: points, Length: math.Float64frombits(bits)}, nil
}

func (s *GeometryStore[K]) Put(from, to K, line geo.LineGeometry) error {
	return s.db.Set(geometryKey(from, to), encodeLine(line), pebble.Sync)
}

type EdgeLine[K constraints.Ordered] struct {
	From, To K
	Line     geo.LineGeometry
}

// PutBatch writes all lines in one pebble batch.
func (s *GeometryStore[K]) PutBatch(lines []EdgeLine[K]) error {
	b := s.db.NewBatch()
	defer b.Close()
	for _, l := range lines {
		if err := b.Set(geometryKey(l.From, l.To), encodeLine(l.Line), nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

func (s *GeometryStore[K]) EdgeGeometry(ctx context.Context, from, to K) (geo.LineGeometry, error) {
	if err := ctx.Err(); err != nil {
		return geo.LineGeometry{}, err
	}
	val, closer, err := s.db.Get(geometryKey(from, to))
	if errors.Is(err, pebble.ErrNotFound) {
		return geo.LineGeometry{}, fmt.Errorf("%w: %v -> %v", route.ErrGeometryNotFound, from, to)
	}
	if err != nil {
		return geo.LineGeometry{}, err
	}
	defer closer.Close()

	line, err := decodeLine(val)
	if err != nil {
		return geo.LineGeometry{}, fmt.Errorf("geometry %v -> %v: %w", from, to, err)
	}
	return line, nil
}
