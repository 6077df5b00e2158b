package heartbeat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Wire format: the prober sends a single ping byte, the server answers with
// the last-update instant as a little-endian uint64 of unix seconds.
const replySize = 8

const (
	pingTimeout  = 1 * time.Second
	replyTimeout = 1 * time.Second
	queryTimeout = 2 * time.Second
)

// SocketChannel carries the heartbeat over a unix socket. The serving process
// owns the clock and answers probes; the probe side only dials and reads.
// One instance is shared by the poll loop (Update) and the accept loop
// (Serve), which both see the same clock.
type SocketChannel struct {
	path  string
	clock *Clock
	log   *zap.Logger
	ln    net.Listener
}

func NewSocketChannel(path string, log *zap.Logger) *SocketChannel {
	return &SocketChannel{path: path, clock: NewClock(), log: log}
}

// Clock exposes the guarded cell, mainly so the status API and metrics can
// read the last-update instant without dialing the socket.
func (s *SocketChannel) Clock() *Clock { return s.clock }

// Update records a completed poll cycle. It never fails for this transport.
func (s *SocketChannel) Update() error {
	s.clock.Update()
	return nil
}

// Listen binds the socket, replacing a stale file left behind by a previous
// run. A binding failure means the server cannot start at all, so callers
// should treat it as fatal.
func (s *SocketChannel) Listen() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating heartbeat socket directory: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale heartbeat socket: %w", err)
	}
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("binding heartbeat socket: %w", err)
	}
	s.ln = ln
	return nil
}

// Serve accepts probes until the listener breaks. Per-connection hiccups are
// logged and the loop keeps accepting; only an accept failure ends it.
func (s *SocketChannel) Serve() error {
	if s.ln == nil {
		return errors.New("heartbeat socket is not listening")
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return fmt.Errorf("accepting on heartbeat socket: %w", err)
		}
		s.respond(conn)
	}
}

// Close shuts the listener down; a running Serve returns afterwards.
func (s *SocketChannel) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

type pingOutcome int

const (
	pingReceived pingOutcome = iota
	pingClosed               // peer closed before sending anything
	pingNotReady             // nothing arrived within the deadline
	pingFailed               // the read itself broke
)

func (s *SocketChannel) respond(conn net.Conn) {
	defer conn.Close()

	outcome, err := awaitPing(conn)
	switch outcome {
	case pingClosed, pingNotReady:
		// Port scanners and half-open dials land here; not worth a reply.
		return
	case pingFailed:
		s.log.Warn("heartbeat_ping_read_failed", zap.Error(err))
		return
	}

	reply := make([]byte, replySize)
	binary.LittleEndian.PutUint64(reply, uint64(s.clock.Snapshot().Unix()))
	_ = conn.SetWriteDeadline(time.Now().Add(replyTimeout))
	if _, err := conn.Write(reply); err != nil {
		s.log.Warn("heartbeat_reply_failed", zap.Error(err))
	}
}

// awaitPing waits for the single ping byte. The byte's value is irrelevant;
// only its arrival is.
func awaitPing(conn net.Conn) (pingOutcome, error) {
	_ = conn.SetReadDeadline(time.Now().Add(pingTimeout))
	buf := make([]byte, 1)
	n, err := conn.Read(buf)
	if n > 0 {
		return pingReceived, nil
	}
	switch {
	case errors.Is(err, io.EOF):
		return pingClosed, nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return pingNotReady, nil
	default:
		return pingFailed, err
	}
}

// Query dials the socket, pings, and decodes the reply. Any failure along the
// way means the collector cannot vouch for itself and reads as unhealthy.
func (s *SocketChannel) Query() (time.Time, error) {
	conn, err := net.DialTimeout("unix", s.path, queryTimeout)
	if err != nil {
		return time.Time{}, fmt.Errorf("connecting to heartbeat socket: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(queryTimeout))

	if _, err := conn.Write([]byte{1}); err != nil {
		return time.Time{}, fmt.Errorf("sending ping: %w", err)
	}
	buf := make([]byte, replySize)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return time.Time{}, fmt.Errorf("reading heartbeat reply: %w", err)
	}
	return time.Unix(int64(binary.LittleEndian.Uint64(buf)), 0), nil
}
