// Command dlt-example is a minimal client of the DLT client library,
// demonstrating connect + leveled logging against a running daemon.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/devendranaga/dlt-logger/client"
)

func main() {
	var (
		serverPath = flag.String("server", "/tmp/dltd.sock", "daemon ingest socket path")
		sessionID  = flag.String("session", "SESS", "session id, truncated/padded to 4 bytes")
		appID      = flag.String("app", "APP1", "application id, truncated/padded to 4 bytes")
		ctxID      = flag.String("ctx", "CTX1", "context id, truncated/padded to 4 bytes")
	)
	flag.Parse()

	c := client.New()
	if err := c.Connect(*serverPath, *sessionID); err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}
	defer c.Close()

	c.Info(*appID, *ctxID, "example client starting up")
	c.Verbose(*appID, *ctxID, "tick at %s", time.Now().Format(time.RFC3339))
	c.Warning(*appID, *ctxID, "this is a warning with no particular cause")
	c.Error(*appID, *ctxID, "simulated error: %v", "example failure")

	if errs := c.SendErrors(); errs > 0 {
		log.Printf("%d send(s) were swallowed due to failure", errs)
	}
}
