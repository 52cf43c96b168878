package gsession

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

// Session represents one client TCP connection to the main Blaze listener.
// Network I/O runs in dedicated goroutines; all shared state is accessed
// through atomics or through the owning Router's lock.
type Session struct {
	ID   uint64
	conn net.Conn

	state   atomic.Int32 // State
	writeMu sync.Mutex   // serializes direct writes during handshake

	playerID atomic.Uint32 // 0 until Authenticate succeeds
	gameID   atomic.Uint32 // 0 until SetGame is called
	seq      atomic.Uint32 // server-assigned sequence for outbound notifications

	netMu sync.RWMutex
	net   blaze.NetData

	InQueue  chan *tdf.Packet
	OutQueue chan *tdf.Packet

	IP string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	baseCtx context.Context
	cancel  context.CancelFunc

	log *zap.Logger
}

// outQueueHighWatermark is the fraction of OutQueue capacity at which a
// warning is logged before the queue actually fills and the session drops.
const outQueueHighWatermark = 0.8

func New(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan *tdf.Packet, inSize),
		OutQueue: make(chan *tdf.Packet, outSize),
		IP:       conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		baseCtx:  ctx,
		cancel:   cancel,
		log:      log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(StateConnected))
	return s
}

// ctx returns a context bound to this session's lifetime, for handlers to
// pass into persistence calls.
func (s *Session) ctx() context.Context { return s.baseCtx }

func (s *Session) State() State      { return State(s.state.Load()) }
func (s *Session) SetState(st State) { s.state.Store(int32(st)) }

func (s *Session) PlayerID() uint32     { return s.playerID.Load() }
func (s *Session) SetPlayerID(id uint32) { s.playerID.Store(id) }

func (s *Session) GameID() (uint32, bool) {
	id := s.gameID.Load()
	return id, id != 0
}
func (s *Session) SetGameID(id uint32) { s.gameID.Store(id) }
func (s *Session) ClearGameID()        { s.gameID.Store(0) }

func (s *Session) Net() blaze.NetData {
	s.netMu.RLock()
	defer s.netMu.RUnlock()
	return s.net
}

func (s *Session) SetNet(n blaze.NetData) {
	s.netMu.Lock()
	s.net = n
	s.netMu.Unlock()
}

func (s *Session) SetHardwareFlags(flags uint16) {
	s.netMu.Lock()
	s.net.HardwareFlags = flags
	s.netMu.Unlock()
}

// NextSeq returns the next sequence number this session should use when
// tagging a server-initiated notification.
func (s *Session) NextSeq() uint16 {
	return uint16(s.seq.Add(1))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send queues a packet for writing. Non-blocking: if OutQueue is full the
// session is considered too slow to keep up and is disconnected, mirroring
// the backpressure-drop policy spec.md §4.3 requires of the outbound queue.
func (s *Session) Send(p *tdf.Packet) {
	if s.closed.Load() {
		return
	}
	if len(s.OutQueue) >= int(float64(cap(s.OutQueue))*outQueueHighWatermark) {
		s.log.Warn("outbound queue approaching capacity", zap.Int("len", len(s.OutQueue)), zap.Int("cap", cap(s.OutQueue)))
	}
	select {
	case s.OutQueue <- p:
	default:
		s.log.Warn("outbound queue full, dropping slow session")
		s.Close()
	}
}

// Close gracefully shuts down the session. Safe to call multiple times and
// from multiple goroutines.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
		s.cancel()
	})
}

func (s *Session) IsClosed() bool { return s.closed.Load() }

// readLoop reads framed Blaze packets off the connection and pushes them
// onto InQueue for the router to dispatch.
func (s *Session) readLoop() {
	defer s.Close()
	defer close(s.InQueue)

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		p, err := tdf.ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		select {
		case s.InQueue <- p:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop drains OutQueue and writes framed packets to the connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case p := <-s.OutQueue:
			s.log.Debug("tx",
				zap.Uint16("component", p.Component),
				zap.Uint16("command", p.Command),
				zap.Int("len", len(p.Body)),
			)
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := tdf.WriteFrame(s.conn, p); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
