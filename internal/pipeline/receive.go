package pipeline

import (
	"github.com/devendranaga/dlt-logger/internal/consolelog"
	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

// Receiver is the readiness-driven C4 stage: one call handles one
// readable event on the ingest socket.
type Receiver struct {
	reader transport.PacketReader
	queue  *Queue
}

// NewReceiver builds a Receiver reading from reader into queue.
func NewReceiver(reader transport.PacketReader, queue *Queue) *Receiver {
	return &Receiver{reader: reader, queue: queue}
}

// OnReadable reads exactly one datagram and enqueues it. Malformed or
// unreadable datagrams are dropped silently; this is the registered
// reactor callback, not a direct call site with a caller to report to.
func (r *Receiver) OnReadable() {
	buf := getScratch()
	defer putScratch(buf)

	n, err := r.reader.ReadPacket(buf)
	if err != nil {
		return
	}

	rec, err := ingest.Parse(buf[:n])
	if err != nil {
		consolelog.Debugf("dropping malformed ingest datagram: %v", err)
		return
	}

	r.queue.Push(rec)
}
