package kv

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// Open opens a pebble database at dir. With inMemory the data lives in memory only and dir is just a name.
func Open(dir string, inMemory bool) (*pebble.DB, error) {
	opts := &pebble.Options{}
	if inMemory {
		opts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble db %s: %w", dir, err)
	}
	return db, nil
}

func keyPart(id any) string {
	switch v := id.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
