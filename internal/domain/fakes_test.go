package domain

import (
	"context"
	"sync"
	"time"
)

type fakeWidget struct {
	mu      sync.Mutex
	text    string
	visible bool
	active  bool
}

func (w *fakeWidget) SetVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
}

func (w *fakeWidget) SetText(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = text
}

func (w *fakeWidget) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

func (w *fakeWidget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *fakeWidget) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *fakeWidget) Activate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = true
}

func (w *fakeWidget) Deactivate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
}

func newFakePanel() (Panel, map[Control]*fakeWidget) {
	w := make(map[Control]*fakeWidget, len(Controls))
	for _, c := range Controls {
		w[c] = &fakeWidget{}
	}
	return Panel{
		Canvas:            w[ControlCanvas],
		Name:              w[ControlName],
		Description:       w[ControlDescription],
		Price:             w[ControlPrice],
		ChangeNameButton:  w[ControlChangeNameButton],
		ChangePriceButton: w[ControlChangePriceButton],
		SaveButton:        w[ControlSaveButton],
		ChangeNameField:   w[ControlChangeNameField],
		ChangePriceField:  w[ControlChangePriceField],
		FeedbackText:      w[ControlFeedbackText],
	}, w
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every timer that is still pending
func (s *fakeScheduler) fire() int {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

type keyboardOpen struct {
	initial string
	kind    KeyboardKind
	updates chan KeyboardUpdate
}

type fakeKeyboard struct {
	mu    sync.Mutex
	opens []keyboardOpen
	err   error
}

func (k *fakeKeyboard) Open(_ context.Context, initial string, kind KeyboardKind) (<-chan KeyboardUpdate, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return nil, k.err
	}
	ch := make(chan KeyboardUpdate, 8)
	k.opens = append(k.opens, keyboardOpen{initial: initial, kind: kind, updates: ch})
	return ch, nil
}

func (k *fakeKeyboard) lastOpen() keyboardOpen {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.opens[len(k.opens)-1]
}

func (k *fakeKeyboard) openCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.opens)
}
