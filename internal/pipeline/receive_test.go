package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

func TestReceiverEnqueuesValidDatagram(t *testing.T) {
	dir := t.TempDir()
	serverPath := filepath.Join(dir, "server.sock")
	clientPath := filepath.Join(dir, "client.sock")

	reader, err := transport.ListenUnixgram(serverPath)
	if err != nil {
		t.Fatalf("ListenUnixgram() error = %v", err)
	}
	defer reader.Close()

	writer, err := transport.DialUnixgram(clientPath, serverPath)
	if err != nil {
		t.Fatalf("DialUnixgram() error = %v", err)
	}
	defer writer.Close()

	q := NewQueue(8)
	r := NewReceiver(reader, q)

	rec := ingest.NewRecord("APP1", "CTX1", "SESS", ingest.LevelInfo, 6, []byte("hi"))
	if err := writer.WritePacket(rec.Marshal()); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	r.OnReadable()

	drained := q.DrainAll()
	if len(drained) != 1 {
		t.Fatalf("len(drained) = %d, want 1", len(drained))
	}
	if string(drained[0].Payload) != "hi" {
		t.Errorf("Payload = %q, want %q", drained[0].Payload, "hi")
	}
}

func TestReceiverDropsShortDatagram(t *testing.T) {
	dir := t.TempDir()
	serverPath := filepath.Join(dir, "server.sock")
	clientPath := filepath.Join(dir, "client.sock")

	reader, err := transport.ListenUnixgram(serverPath)
	if err != nil {
		t.Fatalf("ListenUnixgram() error = %v", err)
	}
	defer reader.Close()

	writer, err := transport.DialUnixgram(clientPath, serverPath)
	if err != nil {
		t.Fatalf("DialUnixgram() error = %v", err)
	}
	defer writer.Close()

	q := NewQueue(8)
	r := NewReceiver(reader, q)

	if err := writer.WritePacket([]byte("short")); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	r.OnReadable()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for a dropped malformed datagram", q.Len())
	}
}
