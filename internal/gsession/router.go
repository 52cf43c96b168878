package gsession

import (
	"fmt"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

// HandlerFunc processes one request packet for a session and returns the
// response body to send back (nil for a fire-and-forget handler that
// replies itself, e.g. by queuing notifications directly).
type HandlerFunc func(s *Session, req *tdf.Packet) ([]tdf.Field, error)

type routeKey struct {
	component uint16
	command   uint16
}

type routeEntry struct {
	fn            HandlerFunc
	allowedStates map[State]bool
}

// Router maps (component, command) pairs to handlers with state-based
// access control, mirroring the opcode registry used by other Blaze
// component families in this codebase.
type Router struct {
	routes map[routeKey]*routeEntry
	log    *zap.Logger
}

func NewRouter(log *zap.Logger) *Router {
	return &Router{
		routes: make(map[routeKey]*routeEntry),
		log:    log,
	}
}

// Register binds a handler to a component/command pair, restricted to the
// given session states. An empty states list means "any state".
func (r *Router) Register(component, command uint16, states []State, fn HandlerFunc) {
	allowed := make(map[State]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	r.routes[routeKey{component, command}] = &routeEntry{fn: fn, allowedStates: allowed}
}

// Dispatch looks up the handler for req, checks the session's state, and
// invokes it with panic recovery. It returns the response packet to send
// (possibly nil for notifications/no-reply commands).
func (r *Router) Dispatch(s *Session, req *tdf.Packet) *tdf.Packet {
	key := routeKey{req.Component, req.Command}
	entry, ok := r.routes[key]
	if !ok {
		r.log.Debug("unhandled component/command",
			zap.Uint16("component", req.Component), zap.Uint16("command", req.Command))
		return errorResponse(req, blaze.ErrServerUnavailableNothing)
	}

	if len(entry.allowedStates) > 0 && !entry.allowedStates[s.State()] {
		r.log.Warn("command not allowed in current state",
			zap.Uint16("component", req.Component), zap.Uint16("command", req.Command),
			zap.String("state", s.State().String()))
		return errorResponse(req, blaze.ErrInvalidSession)
	}

	body, err := r.safeCall(entry.fn, s, req)
	if err != nil {
		var code blaze.ServerError
		if se, ok := err.(blaze.ServerError); ok {
			code = se
		} else {
			r.log.Error("handler error",
				zap.Uint16("component", req.Component), zap.Uint16("command", req.Command), zap.Error(err))
			code = blaze.ErrServerUnavailableNothing
		}
		return errorResponse(req, code)
	}
	if body == nil {
		return nil
	}

	return &tdf.Packet{
		Component: req.Component,
		Command:   req.Command,
		QType:     tdf.QTypeResponse,
		Seq:       req.Seq,
		Body:      tdf.EncodeBody(body),
	}
}

func errorResponse(req *tdf.Packet, code blaze.ServerError) *tdf.Packet {
	return &tdf.Packet{
		Component: req.Component,
		Command:   req.Command,
		Error:     code.Code(),
		QType:     tdf.QTypeError,
		Seq:       req.Seq,
	}
}

func (r *Router) safeCall(fn HandlerFunc, s *Session, req *tdf.Packet) (body []tdf.Field, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("handler panic recovered",
				zap.Uint16("component", req.Component), zap.Uint16("command", req.Command),
				zap.Any("panic", rec))
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return fn(s, req)
}
