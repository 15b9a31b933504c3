package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrNotEditing      = errors.New("slot is not in an editing state")
	ErrEditingDisabled = errors.New("editing is disabled for this slot")
	ErrUnknownField    = errors.New("unknown editable field")
)

// DefaultFeedbackCooldown is how long a feedback message stays visible
const DefaultFeedbackCooldown = 2 * time.Second

// EditorState is the state of a slot editor
type EditorState int

const (
	StateIdle EditorState = iota
	StateEditingName
	StateEditingPrice
)

func (s EditorState) String() string {
	switch s {
	case StateEditingName:
		return "editing_name"
	case StateEditingPrice:
		return "editing_price"
	default:
		return "idle"
	}
}

// Field is an editable product field
type Field string

const (
	FieldName  Field = "name"
	FieldPrice Field = "price"
)

// EditorDeps are the collaborators of an Editor.
// A nil Keyboard means input fields are activated directly.
type EditorDeps struct {
	Panel     Panel
	Keyboard  Keyboard
	Scheduler Scheduler
	Cooldown  time.Duration
	Logger    *slog.Logger
}

// Editor drives the name/price edit-and-save workflow of one slot
type Editor struct {
	mu sync.Mutex

	slot      int
	product   *Product
	panel     Panel
	keyboard  Keyboard
	scheduler Scheduler
	cooldown  time.Duration
	logger    *slog.Logger

	editable bool
	state    EditorState
	shown    map[Field]bool

	feedback        string
	feedbackVisible bool
	feedbackGen     uint64
	hideTimer       Timer

	session *keyboardSession
}

type keyboardSession struct {
	field   InputField
	initial string
	cancel  context.CancelFunc

	// flush asks the session goroutine to apply every queued update
	flush chan chan struct{}
	done  chan struct{}
}

// NewEditor binds product to a slot panel and renders it
func NewEditor(slot int, product *Product, deps EditorDeps) (*Editor, error) {
	if product == nil {
		return nil, ErrNilProduct
	}

	e := &Editor{
		slot:      slot,
		product:   product,
		panel:     deps.Panel,
		keyboard:  deps.Keyboard,
		scheduler: deps.Scheduler,
		cooldown:  deps.Cooldown,
		logger:    deps.Logger,
		shown:     make(map[Field]bool, 2),
	}
	if e.scheduler == nil {
		e.scheduler = SystemScheduler{}
	}
	if e.cooldown <= 0 {
		e.cooldown = DefaultFeedbackCooldown
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	if missing := deps.Panel.MissingControls(); len(missing) > 0 {
		e.logger.Warn("Slot panel is missing controls, editing disabled",
			slog.Int("slot", slot),
			slog.Any("missing", missing),
		)
	} else {
		e.editable = true
		e.resetControls()
		e.panel.FeedbackText.SetVisible(false)
	}

	e.render()
	if e.panel.Canvas != nil {
		e.panel.Canvas.SetVisible(true)
	}

	return e, nil
}

// Slot returns the slot index the editor is bound to
func (e *Editor) Slot() int {
	return e.slot
}

// Editable reports whether the slot panel supports editing
func (e *Editor) Editable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable
}

// State returns the current editor state
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Product returns a copy of the bound product
func (e *Editor) Product() Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.product
}

// Feedback returns the last feedback message and whether it is still shown
func (e *Editor) Feedback() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback, e.feedbackVisible
}

// RequestEdit enters the editing state for field
func (e *Editor) RequestEdit(ctx context.Context, field Field) error {
	switch field {
	case FieldName:
		return e.RequestNameEdit(ctx)
	case FieldPrice:
		return e.RequestPriceEdit(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// RequestNameEdit reveals the name input and starts acquiring text for it
func (e *Editor) RequestNameEdit(ctx context.Context) error {
	return e.requestEdit(ctx, StateEditingName)
}

// RequestPriceEdit reveals the price input and starts acquiring a number for it
func (e *Editor) RequestPriceEdit(ctx context.Context) error {
	return e.requestEdit(ctx, StateEditingPrice)
}

func (e *Editor) requestEdit(ctx context.Context, target EditorState) error {
	e.settleKeyboard()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable {
		return ErrEditingDisabled
	}

	e.hideFeedback()

	field := FieldName
	if target == StateEditingPrice {
		field = FieldPrice
	}
	input, kind := e.input(field)

	input.SetVisible(true)
	e.panel.SaveButton.SetVisible(true)
	e.shown[field] = true
	e.state = target

	e.acquireInput(ctx, input, kind)
	return nil
}

// SelectField reopens input on a field that an edit request already revealed,
// the way tapping the field does on a touch device
func (e *Editor) SelectField(ctx context.Context, field Field) error {
	if field != FieldName && field != FieldPrice {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	e.settleKeyboard()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable {
		return ErrEditingDisabled
	}
	if !e.shown[field] {
		return fmt.Errorf("%w: %s field is hidden", ErrNotEditing, field)
	}

	e.state = StateEditingName
	if field == FieldPrice {
		e.state = StateEditingPrice
	}

	input, kind := e.input(field)
	e.acquireInput(ctx, input, kind)
	return nil
}

func (e *Editor) input(field Field) (InputField, KeyboardKind) {
	if field == FieldPrice {
		return e.panel.ChangePriceField, KeyboardNumberPad
	}
	return e.panel.ChangeNameField, KeyboardDefault
}

// TypeText writes text directly into an input field, as a focused desktop
// field would
func (e *Editor) TypeText(field Field, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable {
		return ErrEditingDisabled
	}
	if e.state == StateIdle {
		return ErrNotEditing
	}

	var input InputField
	switch field {
	case FieldName:
		input = e.panel.ChangeNameField
	case FieldPrice:
		input = e.panel.ChangePriceField
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	if e.session != nil && e.session.field == input {
		e.cancelSession()
	}
	input.SetText(text)
	return nil
}

// Save validates the inputs, commits the valid fields, shows one feedback
// message and returns to Idle
func (e *Editor) Save() (EditOutcome, error) {
	e.settleKeyboard()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable {
		return EditOutcome{}, ErrEditingDisabled
	}
	if e.state == StateIdle {
		return EditOutcome{}, ErrNotEditing
	}

	e.cancelSession()

	outcome := ApplyEdit(e.product, e.panel.ChangeNameField.Text(), e.panel.ChangePriceField.Text())
	if outcome.Committed() {
		e.render()
	}

	e.panel.ChangeNameField.SetText("")
	e.panel.ChangePriceField.SetText("")
	e.resetControls()
	e.showFeedback(outcome.Message)
	e.state = StateIdle

	e.logger.Debug("Slot saved",
		slog.Int("slot", e.slot),
		slog.Bool("name_changed", outcome.NameChanged),
		slog.Bool("price_changed", outcome.PriceChanged),
		slog.String("feedback", outcome.Message),
	)

	return outcome, nil
}

// acquireInput opens a keyboard session for field, or activates it directly
// when there is no platform keyboard
func (e *Editor) acquireInput(ctx context.Context, field InputField, kind KeyboardKind) {
	e.cancelSession()

	if e.keyboard == nil {
		field.Activate()
		return
	}

	sctx, cancel := context.WithCancel(ctx)
	initial := field.Text()
	updates, err := e.keyboard.Open(sctx, initial, kind)
	if err != nil {
		cancel()
		e.logger.Warn("Failed to open keyboard, activating field directly",
			slog.Int("slot", e.slot),
			slog.String("error", err.Error()),
		)
		field.Activate()
		return
	}

	s := &keyboardSession{
		field:   field,
		initial: initial,
		cancel:  cancel,
		flush:   make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	e.session = s
	field.Activate()
	go e.follow(sctx, s, updates)
}

// follow mirrors keyboard text into the session field until the session ends
func (e *Editor) follow(ctx context.Context, s *keyboardSession, updates <-chan KeyboardUpdate) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case reply := <-s.flush:
			ended := e.drain(s, updates)
			close(reply)
			if ended {
				return
			}
		case u, ok := <-updates:
			if e.receive(s, u, ok) {
				return
			}
		}
	}
}

// drain applies the updates already queued on the session without waiting
// for new ones. It reports whether the session ended.
func (e *Editor) drain(s *keyboardSession, updates <-chan KeyboardUpdate) bool {
	for {
		select {
		case u, ok := <-updates:
			if e.receive(s, u, ok) {
				return true
			}
		default:
			return false
		}
	}
}

func (e *Editor) receive(s *keyboardSession, u KeyboardUpdate, ok bool) bool {
	if !ok {
		e.abandonSession(s)
		return true
	}
	return e.applyUpdate(s, u)
}

// settleKeyboard blocks until the open session, if any, has applied every
// update queued before the call. An accepted Done is therefore committed
// before a save or a field switch looks at the session.
func (e *Editor) settleKeyboard() {
	e.mu.Lock()
	s := e.session
	e.mu.Unlock()

	if s == nil {
		return
	}

	reply := make(chan struct{})
	select {
	case s.flush <- reply:
		<-reply
	case <-s.done:
	}
}

func (e *Editor) applyUpdate(s *keyboardSession, u KeyboardUpdate) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != s {
		return true
	}

	s.field.SetText(u.Text)
	if !u.Done {
		return false
	}

	s.field.Deactivate()
	s.cancel()
	e.session = nil
	return true
}

func (e *Editor) abandonSession(s *keyboardSession) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == s {
		e.cancelSession()
	}
}

// cancelSession drops the pending keyboard session and restores the text its
// field had when the session opened
func (e *Editor) cancelSession() {
	s := e.session
	if s == nil {
		return
	}
	e.session = nil
	s.cancel()
	s.field.SetText(s.initial)
	s.field.Deactivate()
}

func (e *Editor) resetControls() {
	e.panel.ChangeNameButton.SetVisible(true)
	e.panel.ChangePriceButton.SetVisible(true)
	e.panel.SaveButton.SetVisible(false)
	e.panel.ChangeNameField.SetVisible(false)
	e.panel.ChangePriceField.SetVisible(false)
	clear(e.shown)
}

// showFeedback displays msg and restarts the hide timer
func (e *Editor) showFeedback(msg string) {
	e.stopHideTimer()

	e.feedback = msg
	e.feedbackVisible = true
	e.panel.FeedbackText.SetText(msg)
	e.panel.FeedbackText.SetVisible(true)

	gen := e.feedbackGen
	e.hideTimer = e.scheduler.AfterFunc(e.cooldown, func() {
		e.expireFeedback(gen)
	})
}

func (e *Editor) hideFeedback() {
	e.stopHideTimer()
	e.feedbackVisible = false
	e.panel.FeedbackText.SetVisible(false)
}

// stopHideTimer cancels a pending hide. Bumping the generation also voids a
// callback that already fired but has not taken the lock yet.
func (e *Editor) stopHideTimer() {
	if e.hideTimer != nil {
		e.hideTimer.Stop()
		e.hideTimer = nil
	}
	e.feedbackGen++
}

func (e *Editor) expireFeedback(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.feedbackGen {
		return
	}
	e.hideTimer = nil
	e.feedbackVisible = false
	e.panel.FeedbackText.SetVisible(false)
}

// render writes the product fields into whichever labels are wired
func (e *Editor) render() {
	if e.panel.Name != nil {
		e.panel.Name.SetText(e.product.Name)
	}
	if e.panel.Description != nil {
		e.panel.Description.SetText(e.product.Description)
	}
	if e.panel.Price != nil {
		e.panel.Price.SetText(e.product.DisplayPrice())
	}
}
