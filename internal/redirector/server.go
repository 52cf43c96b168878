// Package redirector implements C8: the one-shot TLS Blaze server ME3
// clients contact first to learn the main server's address (spec.md §4
// C8, §8 scenario 4).
package redirector

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

// Config is the address the client should be redirected to.
type Config struct {
	Host string
	Port uint16
}

// Server accepts one TLS connection per client, answers a single
// GetServerInstance request, and closes — the redirector never joins the
// main session lifecycle.
type Server struct {
	cfg Config
	tls *tls.Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Server, error) {
	cert, err := tls.X509KeyPair([]byte(devCert), []byte(devKey))
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg: cfg,
		tls: &tls.Config{Certificates: []tls.Certificate{cert}},
		log: log,
	}, nil
}

// Serve listens on addr until ctx is cancelled, handling each connection
// in its own goroutine.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := tls.Listen("tcp", addr, s.tls)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("redirector listening", zap.String("addr", addr))
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.log.Debug("redirector accept error", zap.Error(err))
				return err
			}
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	req, err := tdf.ReadFrame(conn)
	if err != nil {
		s.log.Debug("redirector read error", zap.Error(err))
		return
	}
	if req.Component != blaze.ComponentRedirector || req.Command != blaze.CmdGetServerInstance {
		return
	}

	resp := &tdf.Packet{
		Component: blaze.ComponentRedirector,
		Command:   blaze.CmdGetServerInstance,
		QType:     tdf.QTypeResponse,
		Seq:       req.Seq,
		Body: tdf.EncodeBody([]tdf.Field{
			{Tag: "ADDR", Value: tdf.Union{
				Variant: 0x00,
				Value: &tdf.Group{Fields: []tdf.Field{
					{Tag: "HOST", Value: tdf.Str(s.cfg.Host)},
					{Tag: "PORT", Value: tdf.VarInt(s.cfg.Port)},
				}},
			}},
			{Tag: "SECU", Value: tdf.VarInt(0)},
			{Tag: "XDNS", Value: tdf.VarInt(0)},
		}),
	}
	if err := tdf.WriteFrame(conn, resp); err != nil {
		s.log.Debug("redirector write error", zap.Error(err))
	}
}
