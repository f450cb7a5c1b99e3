package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/roadsearch/pkg/route"
)

var ErrRecordNotFound = errors.New("route record not found")

// ResultStore is a route.ResultSink that keeps zstd compressed json records under run/<runID>.
type ResultStore struct {
	db *pebble.DB
}

func NewResultStore(db *pebble.DB) *ResultStore {
	return &ResultStore{db: db}
}

func resultKey(runID string) []byte {
	return []byte("run/" + runID)
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

func (s *ResultStore) Save(ctx context.Context, rec route.RouteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.RunID == "" {
		return errors.New("route record without run id")
	}
	bb, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	val, err := Compress(bb)
	if err != nil {
		return err
	}
	return s.db.Set(resultKey(rec.RunID), val, pebble.Sync)
}

func (s *ResultStore) Get(runID string) (route.RouteRecord, error) {
	val, closer, err := s.db.Get(resultKey(runID))
	if errors.Is(err, pebble.ErrNotFound) {
		return route.RouteRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, runID)
	}
	if err != nil {
		return route.RouteRecord{}, err
	}
	defer closer.Close()

	bb, err := Decompress(val)
	if err != nil {
		return route.RouteRecord{}, err
	}
	var rec route.RouteRecord
	if err := json.Unmarshal(bb, &rec); err != nil {
		return route.RouteRecord{}, err
	}
	return rec, nil
}
