package tiers

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NextID returns a millisecond timestamp used as a row identifier. Values are
// strictly increasing within the process even when called within the same millisecond.
func NextID() int64 {
	for {
		prev := lastID.Load()
		id := time.Now().UnixMilli()
		if id <= prev {
			id = prev + 1
		}
		if lastID.CompareAndSwap(prev, id) {
			return id
		}
	}
}
