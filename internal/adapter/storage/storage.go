package storage

import (
	"fmt"
)

// entrySize is the quota cost of an entry.
func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}

func opErr(err error, op string) error {
	return fmt.Errorf("%s: %w", op, err)
}
