package router

import (
	"fmt"
	"log/slog"

	"github.com/xulek/muonline-console-client/internal/wire"
)

// Key identifies a registered handler by (main, sub) code tuple.
type Key struct {
	Main byte
	Sub  byte
}

// HandlerFunc processes one frame's logical body. main/sub are passed
// through for handlers that need them for introspection (spec §4.5 step
// 4). Returning an error marks the frame as a Decode-kind failure (spec
// §7); it is logged and does not terminate the connection.
type HandlerFunc func(main, sub byte, body []byte) error

// Router dispatches (main, sub) tuples to registered handlers. Separate
// Router instances are used for the Connect-Server and Game-Server
// handler sets (spec §4.5 "distinct registries").
//
// Grounded on the teacher's internal/gslistener/handler.go dispatch
// shape, flattened from a state-switch to a single map because this
// client builds one Router per server role rather than branching on
// connection state inside one handler.
type Router struct {
	subCodes SubCodeSet
	handlers map[Key]HandlerFunc
	logger   *slog.Logger
}

// New returns a Router using subCodes to determine sub-code membership.
func New(subCodes SubCodeSet) *Router {
	return &Router{
		subCodes: subCodes,
		handlers: make(map[Key]HandlerFunc),
		logger:   slog.Default(),
	}
}

// Register installs a handler for (main, sub). Use NoSubCode for main
// codes that carry no sub-code.
func (r *Router) Register(main, sub byte, h HandlerFunc) {
	r.handlers[Key{Main: main, Sub: sub}] = h
}

// Dispatch peels the sub-code from a decoded frame's body and invokes the
// matching handler, if any (spec §4.5). Handler errors are caught and
// logged with a hex dump rather than propagated, per §7's Decode kind and
// §4.5 step 5.
func (r *Router) Dispatch(f wire.Frame) {
	sub, body := Split(r.subCodes, f.Main, f.Body)

	h, ok := r.handlers[Key{Main: f.Main, Sub: sub}]
	if !ok {
		r.logger.Debug("unhandled packet", "main", fmt.Sprintf("0x%02X", f.Main), "sub", fmt.Sprintf("0x%02X", sub), "len", len(body))
		return
	}

	if err := r.safeInvoke(h, f.Main, sub, body); err != nil {
		r.logger.Warn("handler error",
			"main", fmt.Sprintf("0x%02X", f.Main),
			"sub", fmt.Sprintf("0x%02X", sub),
			"error", err,
			"hex", wire.HexDump(body),
		)
	}
}

// safeInvoke recovers from a handler panic, converting it to an error so
// a single malformed packet can never bring down the receive loop (spec
// §4.5 step 5 extends to runtime panics, not just returned errors).
func (r *Router) safeInvoke(h HandlerFunc, main, sub byte, body []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(main, sub, body)
}
