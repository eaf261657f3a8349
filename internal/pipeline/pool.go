package pipeline

import "sync"

// scratchSize covers both the largest ingest datagram (4096 octets) and
// the largest encoded DLT frame this core produces: such a datagram
// carries a 4082-octet payload, which encodes to at most
// 16 + 10 + 6 + 4082 + 1 = 4115 octets.
const scratchSize = 4115

// scratchPool hands out scratchSize-octet buffers for the receive and
// encode hot paths, avoiding a fresh allocation per datagram.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, scratchSize)
		return &b
	},
}

// getScratch returns a pooled scratchSize-octet buffer. Callers must
// putScratch it.
func getScratch() []byte {
	return *scratchPool.Get().(*[]byte)
}

func putScratch(buf []byte) {
	buf = buf[:cap(buf)]
	scratchPool.Put(&buf)
}
