package kv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
)

var nodePrefix = []byte("node/")

// CoordinateStore keeps vertex coordinates of an int64 keyed graph under node/<id>, 16 bytes per value.
type CoordinateStore struct {
	db *pebble.DB
}

func NewCoordinateStore(db *pebble.DB) *CoordinateStore {
	return &CoordinateStore{db: db}
}

func nodeKey(id int64) []byte {
	return strconv.AppendInt(append([]byte(nil), nodePrefix...), id, 10)
}

func (s *CoordinateStore) PutCoordinates(coords map[int64]geo.Coordinate) error {
	b := s.db.NewBatch()
	defer b.Close()
	val := make([]byte, 16)
	for id, c := range coords {
		binary.LittleEndian.PutUint64(val[:8], math.Float64bits(c.Lat))
		binary.LittleEndian.PutUint64(val[8:], math.Float64bits(c.Lon))
		if err := b.Set(nodeKey(id), val, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

// LoadCoordinates scans every node/ key.
func (s *CoordinateStore) LoadCoordinates() (map[int64]geo.Coordinate, error) {
	upper := append([]byte(nil), nodePrefix...)
	upper[len(upper)-1]++
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: nodePrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	coords := make(map[int64]geo.Coordinate)
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := strconv.ParseInt(string(iter.Key()[len(nodePrefix):]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("node key %q: %w", iter.Key(), err)
		}
		val := iter.Value()
		if len(val) != 16 {
			return nil, errors.New("corrupt coordinate value")
		}
		coords[id] = geo.NewCoordinate(
			math.Float64frombits(binary.LittleEndian.Uint64(val[:8])),
			math.Float64frombits(binary.LittleEndian.Uint64(val[8:])),
		)
	}
	return coords, iter.Error()
}
