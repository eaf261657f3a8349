package service

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/devendranaga/dlt-logger/internal/config"
	"github.com/devendranaga/dlt-logger/internal/dltwire"
	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

func TestServiceEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ingestPath := filepath.Join(dir, "dltd.sock")

	storage, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer storage.Close()

	_, portStr, err := net.SplitHostPort(storage.LocalAddr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	cfg := &config.Config{
		HTypeUseExtendedHdr: true,
		HTypeSendECUID:      true,
		HTypeVersion:        1,
		HTypeECUID:          "ECU1",
		ExtHdrVerboseMode:   true,
		Network: config.NetworkConfig{
			SocketType: config.SocketUnix,
			UnixSocket: config.UnixSocketConfig{ServerPath: ingestPath},
			StorageServer: config.StorageServerConfig{
				ServerAddress: "127.0.0.1",
				ServerPort:    port,
			},
		},
	}

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- svc.Run(ctx) }()

	clientPath := filepath.Join(dir, "client.sock")
	cw, err := transport.DialUnixgram(clientPath, ingestPath)
	if err != nil {
		t.Fatalf("DialUnixgram() error = %v", err)
	}
	defer cw.Close()

	rec := ingest.NewRecord("APP1", "CTX1", "SESS", ingest.LevelInfo, 6, []byte("hi"))
	if err := cw.WritePacket(rec.Marshal()); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	buf := make([]byte, 4096)
	storage.SetReadDeadline(time.Now().Add(3 * time.Second))
	n, _, err := storage.ReadFrom(buf)
	if err != nil {
		t.Fatalf("expected the daemon to forward a frame to storage: %v", err)
	}

	_, _, payload, err := dltwire.Decode(buf[:n])
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if string(payload) != "hi" {
		t.Errorf("payload = %q, want %q", payload, "hi")
	}

	cancel()
	if err := svc.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	<-runDone
}
