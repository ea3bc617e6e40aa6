package arq

import (
	"sync"

	pool "github.com/libp2p/go-buffer-pool"
)

var segmentPool = sync.Pool{New: func() interface{} {
	return &segment{}
}}

// newSegment takes a segment from the pool with a payload buffer of the
// given size. Payload buffers come from the shared buffer pool so moving
// a segment between queues never copies the payload.
func newSegment(size int) *segment {
	seg := segmentPool.Get().(*segment)
	seg.data = pool.Get(size)
	return seg
}

func putSegment(seg *segment) {
	if seg.data != nil {
		pool.Put(seg.data)
	}
	seg.reset()
	segmentPool.Put(seg)
}
