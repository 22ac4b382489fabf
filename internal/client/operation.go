package client

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/oauth2"
)

// State is where a data-fetch operation currently is.
type State int32

const (
	StateIdle State = iota
	StateRequestingToken
	StateCallingBackend
)

func (s State) String() string {
	switch s {
	case StateRequestingToken:
		return "requesting-token"
	case StateCallingBackend:
		return "calling-backend"
	default:
		return "idle"
	}
}

// ErrInFlight is returned when an operation is triggered again before the
// previous run settled. No network call is made.
var ErrInFlight = errors.New("client: operation already in progress")

// Op tracks one triggering control, such as the submit button of the add-job
// form. Different Ops are independent; the zero value is idle.
type Op struct {
	name  string
	state atomic.Int32
}

// NewOp returns an idle operation.
func NewOp(name string) *Op {
	return &Op{name: name}
}

func (o *Op) Name() string { return o.name }

// State reports the current state.
func (o *Op) State() State { return State(o.state.Load()) }

// Busy reports whether the control should be disabled.
func (o *Op) Busy() bool { return o.State() != StateIdle }

// run moves the op through requesting-token and calling-backend and back to
// idle, whatever the outcome. The token step is never skipped.
func (o *Op) run(ctx context.Context, mint func(context.Context) (*oauth2.Token, error), call func(context.Context, *oauth2.Token) error) error {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRequestingToken)) {
		return ErrInFlight
	}
	defer o.state.Store(int32(StateIdle))

	tok, err := mint(ctx)
	if err != nil {
		return err
	}
	o.state.Store(int32(StateCallingBackend))
	return call(ctx, tok)
}
