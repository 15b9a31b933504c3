package ui

import (
	"sync"

	"github.com/mrops-br/product-showcase-api/internal/domain"
)

// widget is the in-memory state of one panel control
type widget struct {
	mu      sync.RWMutex
	text    string
	visible bool
	active  bool
}

func (w *widget) SetVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
}

func (w *widget) SetText(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = text
}

func (w *widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

func (w *widget) Activate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = true
}

func (w *widget) Deactivate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
}

func (w *widget) view() domain.ElementView {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return domain.ElementView{Text: w.text, Visible: w.visible, Active: w.active}
}

// Board keeps the rendered panels of every slot in memory, standing in for the
// host engine's canvases
type Board struct {
	mu     sync.RWMutex
	panels map[int]map[domain.Control]*widget
	omit   map[domain.Control]bool
}

// NewBoard creates a board whose panels carry every control except omit
func NewBoard(omit ...domain.Control) *Board {
	b := &Board{
		panels: make(map[int]map[domain.Control]*widget),
		omit:   make(map[domain.Control]bool, len(omit)),
	}
	for _, c := range omit {
		b.omit[c] = true
	}
	return b
}

func (b *Board) widgets(slot int) map[domain.Control]*widget {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w, ok := b.panels[slot]; ok {
		return w
	}

	w := make(map[domain.Control]*widget, len(domain.Controls))
	for _, c := range domain.Controls {
		if !b.omit[c] {
			w[c] = &widget{}
		}
	}
	b.panels[slot] = w
	return w
}

// Panel resolves the handles of a slot panel, creating it on first use
func (b *Board) Panel(slot int) domain.Panel {
	w := b.widgets(slot)

	var p domain.Panel
	if x, ok := w[domain.ControlCanvas]; ok {
		p.Canvas = x
	}
	if x, ok := w[domain.ControlName]; ok {
		p.Name = x
	}
	if x, ok := w[domain.ControlDescription]; ok {
		p.Description = x
	}
	if x, ok := w[domain.ControlPrice]; ok {
		p.Price = x
	}
	if x, ok := w[domain.ControlChangeNameButton]; ok {
		p.ChangeNameButton = x
	}
	if x, ok := w[domain.ControlChangePriceButton]; ok {
		p.ChangePriceButton = x
	}
	if x, ok := w[domain.ControlSaveButton]; ok {
		p.SaveButton = x
	}
	if x, ok := w[domain.ControlChangeNameField]; ok {
		p.ChangeNameField = x
	}
	if x, ok := w[domain.ControlChangePriceField]; ok {
		p.ChangePriceField = x
	}
	if x, ok := w[domain.ControlFeedbackText]; ok {
		p.FeedbackText = x
	}
	return p
}

// View snapshots the rendered state of a slot panel
func (b *Board) View(slot int) domain.PanelView {
	b.mu.RLock()
	w, ok := b.panels[slot]
	b.mu.RUnlock()
	if !ok {
		return domain.PanelView{}
	}

	view := make(domain.PanelView, len(w))
	for c, x := range w {
		view[c] = x.view()
	}
	return view
}
