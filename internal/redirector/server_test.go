package redirector

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

// TestHandshakeReturnsMainServerAddress exercises spec.md §8 scenario 4:
// a client opens a TLS connection, sends one GetServerInstance request,
// and expects an ADDR union naming the main server's host/port.
func TestHandshakeReturnsMainServerAddress(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: 42127}, zap.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", srv.tls)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	errCh := make(chan error, 1)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				errCh <- nil
				return
			}
			go srv.handle(conn)
		}
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{InsecureSkipVerify: true})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	req := &tdf.Packet{
		Component: blaze.ComponentRedirector,
		Command:   blaze.CmdGetServerInstance,
		QType:     tdf.QTypeRequest,
		Seq:       1,
		Body:      tdf.EncodeBody(nil),
	}
	if err := tdf.WriteFrame(conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	resp, err := tdf.ReadFrame(conn)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.Component != blaze.ComponentRedirector || resp.Command != blaze.CmdGetServerInstance {
		t.Fatalf("unexpected component/command: %04x/%04x", resp.Component, resp.Command)
	}
	if resp.QType.Kind() != tdf.QTypeResponse {
		t.Fatalf("expected response qtype, got %v", resp.QType)
	}

	body, err := tdf.DecodeBody(resp.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	addrVal, ok := body.Get("ADDR")
	if !ok {
		t.Fatal("expected ADDR field in response")
	}
	union, ok := addrVal.(tdf.Union)
	if !ok {
		t.Fatalf("expected ADDR to be a union, got %T", addrVal)
	}
	group := union.Value
	if group == nil {
		t.Fatal("expected union value to carry a group")
	}
	hostVal, ok := group.Get("HOST")
	if !ok {
		t.Fatal("expected HOST field in ADDR group")
	}
	host, ok := hostVal.(tdf.Str)
	if !ok || string(host) != "127.0.0.1" {
		t.Fatalf("expected HOST 127.0.0.1, got %v", hostVal)
	}
	portVal, ok := group.Get("PORT")
	if !ok {
		t.Fatal("expected PORT field in ADDR group")
	}
	port, ok := portVal.(tdf.VarInt)
	if !ok || uint16(port) != 42127 {
		t.Fatalf("expected PORT 42127, got %v", portVal)
	}

	conn.Close()
	ln.Close()
	<-errCh
}

// TestHandshakeIgnoresWrongCommand ensures the redirector silently closes
// the connection rather than replying to anything but GetServerInstance.
func TestHandshakeIgnoresWrongCommand(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", srv.tls)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		srv.handle(conn)
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{InsecureSkipVerify: true})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	req := &tdf.Packet{
		Component: blaze.ComponentRedirector,
		Command:   0x9999,
		QType:     tdf.QTypeRequest,
		Seq:       1,
		Body:      tdf.EncodeBody(nil),
	}
	if err := tdf.WriteFrame(conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err == nil {
		t.Fatal("expected connection to be closed with no response")
	}
}
