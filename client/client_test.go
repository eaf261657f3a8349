package client

import (
	"path/filepath"
	"testing"

	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

func TestConnectAndSend(t *testing.T) {
	dir := t.TempDir()
	serverPath := filepath.Join(dir, "daemon.sock")

	reader, err := transport.ListenUnixgram(serverPath)
	if err != nil {
		t.Fatalf("ListenUnixgram() error = %v", err)
	}
	defer reader.Close()

	c := New()
	if err := c.Connect(serverPath, "SESS"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	c.Info("APP1", "CTX1", "hello %s", "world")

	buf := make([]byte, 4096)
	n, err := reader.ReadPacket(buf)
	if err != nil {
		t.Fatalf("ReadPacket() error = %v", err)
	}

	rec, err := ingest.Parse(buf[:n])
	if err != nil {
		t.Fatalf("ingest.Parse() error = %v", err)
	}
	if rec.Level != ingest.LevelInfo {
		t.Errorf("Level = %v, want LevelInfo", rec.Level)
	}
	if string(rec.Payload) != "hello world" {
		t.Errorf("Payload = %q, want %q", rec.Payload, "hello world")
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	serverPath := filepath.Join(dir, "daemon.sock")

	reader, err := transport.ListenUnixgram(serverPath)
	if err != nil {
		t.Fatalf("ListenUnixgram() error = %v", err)
	}
	defer reader.Close()

	c := New()
	if err := c.Connect(serverPath, "SESS"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	firstPath := c.localPath

	if err := c.Connect(serverPath, "OTHER"); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	if c.localPath != firstPath {
		t.Error("second Connect() should be a no-op")
	}
	if c.sessionID != "SESS" {
		t.Error("second Connect() should not overwrite the session id")
	}
	c.Close()
}

func TestSendBeforeConnectIsSwallowed(t *testing.T) {
	c := New()
	c.Info("APP1", "CTX1", "should not panic")
	if c.SendErrors() != 1 {
		t.Errorf("SendErrors() = %d, want 1", c.SendErrors())
	}
}

func TestSendTruncatesOversizedMessage(t *testing.T) {
	dir := t.TempDir()
	serverPath := filepath.Join(dir, "daemon.sock")

	reader, err := transport.ListenUnixgram(serverPath)
	if err != nil {
		t.Fatalf("ListenUnixgram() error = %v", err)
	}
	defer reader.Close()

	c := New()
	if err := c.Connect(serverPath, "SESS"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	huge := make([]byte, maxMessage*2)
	for i := range huge {
		huge[i] = 'x'
	}
	c.Info("APP1", "CTX1", "%s", string(huge))

	buf := make([]byte, 8192)
	n, err := reader.ReadPacket(buf)
	if err != nil {
		t.Fatalf("ReadPacket() error = %v", err)
	}
	rec, err := ingest.Parse(buf[:n])
	if err != nil {
		t.Fatalf("ingest.Parse() error = %v", err)
	}
	if len(rec.Payload) != maxPayload {
		t.Errorf("Payload len = %d, want %d", len(rec.Payload), maxPayload)
	}
}

func TestDefaultAndSetDefault(t *testing.T) {
	c := New()
	SetDefault(c)
	if Default() != c {
		t.Error("Default() should return the client set via SetDefault()")
	}
}
