package gsession

import (
	"context"
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Listener accepts TCP connections on the main game port, creates a Session
// per connection, and drives its dispatch loop until the connection closes.
type Listener struct {
	ln      net.Listener
	nextID  atomic.Uint64
	router  *Router
	index   *Index
	inSize  int
	outSize int
	log     *zap.Logger
}

func Listen(addr string, router *Router, index *Index, inSize, outSize int, log *zap.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		ln:      ln,
		router:  router,
		index:   index,
		inSize:  inSize,
		outSize: outSize,
		log:     log,
	}, nil
}

func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections until ctx is cancelled or Close is called.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			l.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := l.nextID.Add(1)
		sess := New(conn, id, l.inSize, l.outSize, l.log)
		l.index.Add(sess)
		l.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))

		sess.Start()
		go l.dispatchLoop(sess)
	}
}

func (l *Listener) Close() error { return l.ln.Close() }

// dispatchLoop pulls decoded packets off a session's InQueue and routes
// them, one at a time, so handler state mutation for a single connection
// is always single-threaded.
func (l *Listener) dispatchLoop(sess *Session) {
	defer func() {
		l.index.Remove(sess)
		sess.Close()
		l.log.Info("client disconnected", zap.Uint64("session", sess.ID))
	}()

	for req := range sess.InQueue {
		if resp := l.router.Dispatch(sess, req); resp != nil {
			sess.Send(resp)
		}
		if sess.IsClosed() {
			return
		}
	}
}
