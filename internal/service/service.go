// Package service wires configuration, transport, the reactor and the
// ingest pipeline into the running daemon (C6).
package service

import (
	"context"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/devendranaga/dlt-logger/internal/config"
	"github.com/devendranaga/dlt-logger/internal/consolelog"
	"github.com/devendranaga/dlt-logger/internal/pipeline"
	"github.com/devendranaga/dlt-logger/internal/reactor"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

// Service owns every resource the daemon needs for its lifetime: the
// ingest socket, the storage-endpoint socket, the reactor loop, and
// the forward-stage goroutine.
type Service struct {
	cfg *config.Config

	reader *transport.UnixgramReader
	writer *transport.UDPWriter

	react     *reactor.Reactor
	queue     *pipeline.Queue
	receiver  *pipeline.Receiver
	forwarder *pipeline.Forwarder

	wg sync.WaitGroup
}

// New constructs a Service from a loaded configuration. It binds the
// ingest socket and dials the storage endpoint; both are fatal
// (BIND_FAILED) if they fail, per the error-handling policy.
func New(cfg *config.Config) (*Service, error) {
	reader, err := transport.ListenUnixgram(cfg.Network.UnixSocket.ServerPath)
	if err != nil {
		return nil, err
	}

	storageAddr := net.JoinHostPort(
		cfg.Network.StorageServer.ServerAddress,
		strconv.Itoa(cfg.Network.StorageServer.ServerPort))
	writer, err := transport.DialUDP(storageAddr)
	if err != nil {
		reader.Close()
		return nil, err
	}

	react, err := reactor.New()
	if err != nil {
		reader.Close()
		writer.Close()
		return nil, err
	}

	queue := pipeline.NewQueue(pipeline.DefaultCapacity)
	receiver := pipeline.NewReceiver(reader, queue)
	forwarder := pipeline.NewForwarder(queue, writer, cfg)

	if err := react.Register(reader.Fd(), receiver.OnReadable); err != nil {
		react.Close()
		reader.Close()
		writer.Close()
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		reader:    reader,
		writer:    writer,
		react:     react,
		queue:     queue,
		receiver:  receiver,
		forwarder: forwarder,
	}, nil
}

// Run spawns the forward stage and enters the reactor loop. It blocks
// until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.forwarder.Run(ctx)
	}()

	consolelog.Infof("service started, ingest=%s storage=%s:%d",
		s.cfg.Network.UnixSocket.ServerPath,
		s.cfg.Network.StorageServer.ServerAddress,
		s.cfg.Network.StorageServer.ServerPort)

	return s.react.Run(ctx)
}

// Shutdown closes every owned resource and waits (bounded) for the
// forward stage to finish draining.
func (s *Service) Shutdown(ctx context.Context) error {
	s.reader.Close()
	s.writer.Close()
	s.react.Close()
	os.Remove(s.cfg.Network.UnixSocket.ServerPath)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		consolelog.Warnf("forward stage did not drain within the shutdown grace period")
	case <-ctx.Done():
	}
	return nil
}
