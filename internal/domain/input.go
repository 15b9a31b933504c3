package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoKeyboardSession = errors.New("no keyboard session is open")
	ErrKeyboardBusy      = errors.New("keyboard session backlog is full")
)

// KeyboardKind selects the layout of a platform keyboard
type KeyboardKind int

const (
	KeyboardDefault KeyboardKind = iota
	KeyboardNumberPad
)

func (k KeyboardKind) String() string {
	switch k {
	case KeyboardNumberPad:
		return "number_pad"
	default:
		return "default"
	}
}

// KeyboardUpdate is one event of a keyboard session. Only an update with Done
// set carries final text.
type KeyboardUpdate struct {
	Text string
	Done bool
}

// Keyboard opens platform keyboard sessions. The returned channel yields
// updates until a Done update is sent, the session is replaced, or ctx ends.
type Keyboard interface {
	Open(ctx context.Context, initial string, kind KeyboardKind) (<-chan KeyboardUpdate, error)
}

// KeyboardHub owns the keyboard of every slot
type KeyboardHub interface {
	For(slot int) Keyboard
	Push(slot int, update KeyboardUpdate) error
	Session(slot int) (KeyboardKind, bool)
}

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules callbacks on the wall clock
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
