// Package client is the process-wide DLT client library: applications
// format a message, the library turns it into an ingest record and
// fires it at the daemon over a local datagram socket.
package client

import (
	"fmt"
	"os"
	"sync"

	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/randsock"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

// maxMessage bounds a formatted message, prefix included, at 4 KiB.
const maxMessage = 4096

// maxPayload is what remains of maxMessage after the 14-octet ingest
// prefix.
const maxPayload = maxMessage - 14

// Client sends ingest records to a daemon over a local datagram
// socket. Connect, Close and the logging methods all serialize on an
// internal mutex, so a Client is safe for concurrent use.
type Client struct {
	mu         sync.Mutex
	writer     *transport.UnixgramWriter
	localPath  string
	sessionID  string
	connected  bool
	sendErrors uint64
}

// New returns an unconnected Client.
func New() *Client {
	return &Client{}
}

// Connect binds the client's ephemeral socket and records the
// daemon's address and session id. Idempotent: only the first call
// has any effect.
func (c *Client) Connect(serverPath, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	localPath := randsock.Path(os.TempDir())
	w, err := transport.DialUnixgram(localPath, serverPath)
	if err != nil {
		return err
	}

	c.writer = w
	c.localPath = localPath
	c.sessionID = sessionID
	c.connected = true
	return nil
}

// Close releases the client's local socket and unlinks its path.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.writer.Close()
	os.Remove(c.localPath)
	c.connected = false
	return err
}

func (c *Client) send(appID, ctxID string, level ingest.Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxPayload {
		msg = msg[:maxPayload]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		c.sendErrors++
		return
	}

	rec := ingest.NewRecord(appID, ctxID, c.sessionID, level, 6, []byte(msg))
	if err := c.writer.WritePacket(rec.Marshal()); err != nil {
		// Per the contract, a failed send never reaches the caller:
		// logging must not crash the application.
		c.sendErrors++
	}
}

// SendErrors returns the number of sends swallowed due to failure,
// for diagnostics only.
func (c *Client) SendErrors() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendErrors
}

func (c *Client) Info(appID, ctxID, format string, args ...any) {
	c.send(appID, ctxID, ingest.LevelInfo, format, args...)
}

func (c *Client) Verbose(appID, ctxID, format string, args ...any) {
	c.send(appID, ctxID, ingest.LevelVerbose, format, args...)
}

func (c *Client) Warning(appID, ctxID, format string, args ...any) {
	c.send(appID, ctxID, ingest.LevelWarning, format, args...)
}

func (c *Client) Error(appID, ctxID, format string, args ...any) {
	c.send(appID, ctxID, ingest.LevelError, format, args...)
}

func (c *Client) Fatal(appID, ctxID, format string, args ...any) {
	c.send(appID, ctxID, ingest.LevelFatal, format, args...)
}

var (
	defaultClient *Client
	defaultMu     sync.RWMutex
)

// Default returns the process-wide default client, creating it on
// first use. It must still be Connect-ed before it can send anything.
func Default() *Client {
	defaultMu.RLock()
	if defaultClient != nil {
		defer defaultMu.RUnlock()
		return defaultClient
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New()
	}
	return defaultClient
}

// SetDefault replaces the process-wide default client.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}
