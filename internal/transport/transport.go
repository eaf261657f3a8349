// Package transport provides the narrow socket interfaces the daemon
// depends on, so the receive and forward stages can be exercised
// against fakes in tests without opening real sockets.
package transport

import (
	"net"
	"time"

	dlt "github.com/devendranaga/dlt-logger"
)

// PacketReader reads one datagram per call, mirroring the read half of
// a Unix domain datagram socket.
type PacketReader interface {
	ReadPacket(buf []byte) (n int, err error)
	Fd() int
	Close() error
}

// PacketWriter sends one encoded frame per call, mirroring a connected
// UDP socket.
type PacketWriter interface {
	WritePacket(buf []byte) error
	Close() error
}

// UnixgramReader is a PacketReader backed by a Unix domain datagram
// socket bound to path. The caller owns the lifetime and unlinks path
// on shutdown.
type UnixgramReader struct {
	conn *net.UnixConn
}

// ListenUnixgram binds a Unix domain datagram socket at path.
func ListenUnixgram(path string) (*UnixgramReader, error) {
	addr, err := net.ResolveUnixAddr("unixgram", path)
	if err != nil {
		return nil, dlt.Wrap("LISTEN", dlt.CodeBindFailed, err)
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, dlt.Wrap("LISTEN", dlt.CodeBindFailed, err)
	}
	return &UnixgramReader{conn: conn}, nil
}

func (r *UnixgramReader) ReadPacket(buf []byte) (int, error) {
	n, _, err := r.conn.ReadFromUnix(buf)
	return n, err
}

// Fd exposes the raw descriptor so the reactor can register it for
// read readiness.
func (r *UnixgramReader) Fd() int {
	sc, err := r.conn.SyscallConn()
	if err != nil {
		return -1
	}
	var fd int
	_ = sc.Control(func(rawFd uintptr) {
		fd = int(rawFd)
	})
	return fd
}

func (r *UnixgramReader) Close() error {
	return r.conn.Close()
}

// UDPWriter is a PacketWriter backed by a connected UDP/IPv4 socket.
type UDPWriter struct {
	conn *net.UDPConn
}

// DialUDP connects a UDP socket to address (host:port).
func DialUDP(address string) (*UDPWriter, error) {
	addr, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		return nil, dlt.Wrap("DIAL", dlt.CodeBindFailed, err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, dlt.Wrap("DIAL", dlt.CodeBindFailed, err)
	}
	return &UDPWriter{conn: conn}, nil
}

func (w *UDPWriter) WritePacket(buf []byte) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(2 * time.Second)); err != nil {
		return dlt.Wrap("SEND", dlt.CodeSendFailed, err)
	}
	_, err := w.conn.Write(buf)
	if err != nil {
		return dlt.Wrap("SEND", dlt.CodeSendFailed, err)
	}
	return nil
}

func (w *UDPWriter) Close() error {
	return w.conn.Close()
}

// UnixgramWriter is a PacketWriter over a connected Unix domain
// datagram socket, used by the client library to reach the daemon.
type UnixgramWriter struct {
	conn *net.UnixConn
}

// DialUnixgram opens a Unix domain datagram socket bound to
// localPath and connected to serverPath.
func DialUnixgram(localPath, serverPath string) (*UnixgramWriter, error) {
	local, err := net.ResolveUnixAddr("unixgram", localPath)
	if err != nil {
		return nil, dlt.Wrap("DIAL", dlt.CodeBindFailed, err)
	}
	remote, err := net.ResolveUnixAddr("unixgram", serverPath)
	if err != nil {
		return nil, dlt.Wrap("DIAL", dlt.CodeBindFailed, err)
	}
	conn, err := net.DialUnix("unixgram", local, remote)
	if err != nil {
		return nil, dlt.Wrap("DIAL", dlt.CodeBindFailed, err)
	}
	return &UnixgramWriter{conn: conn}, nil
}

func (w *UnixgramWriter) WritePacket(buf []byte) error {
	_, err := w.conn.Write(buf)
	if err != nil {
		return dlt.Wrap("SEND", dlt.CodeClientSendFailed, err)
	}
	return nil
}

func (w *UnixgramWriter) Close() error {
	return w.conn.Close()
}
