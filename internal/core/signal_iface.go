package core

import (
	"context"
	"errors"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one text message on the wire.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// TransportEvents receives what happens on a dialed connection.
// Frames arrive in wire order; Closed is reported at most once and
// nothing is reported after it.
type TransportEvents interface {
	Frame(Frame)
	Closed(err error)
}

// Transport is the client side of a signal connection. Nothing is
// read from the wire until Start is called.
type Transport interface {
	SignalConnection
	Start(events TransportEvents)
}

// Dialer opens a Transport to a fixed endpoint.
type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}
