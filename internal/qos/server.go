// Package qos implements the legacy UDP probe the client uses to learn
// its own public IP so it can report usable NAT addresses during
// matchmaking (spec.md §6 QoS UDP port, GLOSSARY "QoS"; REDESIGN FLAG (c)
// retains the captured byte layout verbatim rather than reinventing it).
package qos

import (
	"context"
	"net"

	"go.uber.org/zap"
)

// headerSize is the fixed probe header the client sends and expects
// echoed back unmodified.
const headerSize = 20

// trailer is appended after the 4-byte IPv4 address in every response;
// its meaning is opaque on the wire (client-side magic/padding) and is
// retained verbatim rather than reinterpreted.
var trailer = [6]byte{246, 162, 0, 0, 0, 0}

// Server answers QoS probes: echo the request header, append the
// sender's public IPv4 address, append the fixed trailer.
type Server struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Server {
	return &Server{log: log}
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s.log.Info("qos listening", zap.String("addr", addr))
	buf := make([]byte, headerSize)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.log.Debug("qos read error", zap.Error(err))
				continue
			}
		}
		s.respond(conn, from, buf[:n])
	}
}

func (s *Server) respond(conn *net.UDPConn, from *net.UDPAddr, header []byte) {
	ip4 := from.IP.To4()
	if ip4 == nil {
		return
	}
	out := make([]byte, 0, headerSize+4+len(trailer))
	out = append(out, header...)
	for len(out) < headerSize {
		out = append(out, 0)
	}
	out = append(out, ip4...)
	out = append(out, trailer[:]...)

	if _, err := conn.WriteToUDP(out, from); err != nil {
		s.log.Debug("qos write error", zap.Error(err))
	}
}
