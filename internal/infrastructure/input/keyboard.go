package input

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/product-showcase-api/internal/domain"
)

const sessionBuffer = 32

type session struct {
	kind    domain.KeyboardKind
	updates chan domain.KeyboardUpdate
	stop    func() bool
}

// Hub routes keyboard events pushed by the host to the open session of each
// slot. At most one session is open per slot.
type Hub struct {
	mu       sync.Mutex
	sessions map[int]*session
	logger   *slog.Logger
}

// NewHub creates an empty keyboard hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[int]*session),
		logger:   logger,
	}
}

// For returns the keyboard of a slot
func (h *Hub) For(slot int) domain.Keyboard {
	return slotKeyboard{hub: h, slot: slot}
}

// Push delivers an update to the slot's open session. A Done update closes it.
func (h *Hub) Push(slot int, update domain.KeyboardUpdate) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[slot]
	if !ok {
		return domain.ErrNoKeyboardSession
	}

	select {
	case s.updates <- update:
	default:
		return domain.ErrKeyboardBusy
	}

	if update.Done {
		h.closeLocked(slot, s)
	}
	return nil
}

// Session reports whether slot has an open session and its keyboard kind
func (h *Hub) Session(slot int) (domain.KeyboardKind, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[slot]
	if !ok {
		return domain.KeyboardDefault, false
	}
	return s.kind, true
}

func (h *Hub) open(ctx context.Context, slot int, kind domain.KeyboardKind) <-chan domain.KeyboardUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.sessions[slot]; ok {
		h.closeLocked(slot, prev)
	}

	s := &session{
		kind:    kind,
		updates: make(chan domain.KeyboardUpdate, sessionBuffer),
	}
	h.sessions[slot] = s
	s.stop = context.AfterFunc(ctx, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.closeLocked(slot, s)
	})

	h.logger.Debug("Keyboard session opened",
		slog.Int("slot", slot),
		slog.String("kind", kind.String()),
	)
	return s.updates
}

func (h *Hub) closeLocked(slot int, s *session) {
	if h.sessions[slot] != s {
		return
	}
	delete(h.sessions, slot)
	s.stop()
	close(s.updates)
}

type slotKeyboard struct {
	hub  *Hub
	slot int
}

// Open starts a keyboard session for the slot. The initial text is already
// shown in the field the session edits.
func (k slotKeyboard) Open(ctx context.Context, _ string, kind domain.KeyboardKind) (<-chan domain.KeyboardUpdate, error) {
	return k.hub.open(ctx, k.slot, kind), nil
}
