// Package reactor implements a small epoll-based readiness loop used
// by the daemon to wake the receive stage only when its ingest socket
// has data waiting, instead of polling it on a timer.
package reactor

import (
	"context"
	"sync"

	"golang.org/x/sys/unix"

	dlt "github.com/devendranaga/dlt-logger"
)

// Reactor multiplexes read-readiness across registered file
// descriptors using a single epoll instance.
type Reactor struct {
	epfd int

	mu  sync.Mutex
	cbs map[int]func()
}

// New creates a Reactor backed by a fresh epoll instance.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, dlt.Wrap("REACTOR_NEW", dlt.CodeBindFailed, err)
	}
	return &Reactor{
		epfd: epfd,
		cbs:  make(map[int]func()),
	}, nil
}

// Register arms fd for read readiness; cb runs on the Run goroutine
// each time fd becomes readable.
func (r *Reactor) Register(fd int, cb func()) error {
	r.mu.Lock()
	r.cbs[fd] = cb
	r.mu.Unlock()

	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return dlt.Wrap("REACTOR_REGISTER", dlt.CodeBindFailed, err)
	}
	return nil
}

// Unregister removes fd from the poll set.
func (r *Reactor) Unregister(fd int) error {
	r.mu.Lock()
	delete(r.cbs, fd)
	r.mu.Unlock()

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return dlt.Wrap("REACTOR_UNREGISTER", dlt.CodeBindFailed, err)
	}
	return nil
}

// Run blocks, dispatching readiness callbacks, until ctx is canceled.
func (r *Reactor) Run(ctx context.Context) error {
	events := make([]unix.EpollEvent, 16)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// 100ms timeout keeps the loop responsive to context
		// cancellation without spinning.
		n, err := unix.EpollWait(r.epfd, events, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return dlt.Wrap("REACTOR_RUN", dlt.CodeBindFailed, err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			r.mu.Lock()
			cb := r.cbs[fd]
			r.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
	}
}

// Close releases the epoll instance. Registered descriptors are not
// closed; the caller owns them.
func (r *Reactor) Close() error {
	return unix.Close(r.epfd)
}
