package dto

import (
	"github.com/mrops-br/product-showcase-api/internal/domain"
)

// EditRequest represents the request to enter an edit mode
type EditRequest struct {
	Field string `json:"field" validate:"required,field"`
}

// InputRequest represents text typed directly into an input field
type InputRequest struct {
	Field string `json:"field" validate:"required,field"`
	Text  string `json:"text" validate:"max=256"`
}

// KeyboardRequest represents one keyboard session update from the host
type KeyboardRequest struct {
	Text string `json:"text" validate:"max=256"`
	Done bool   `json:"done"`
}

// KeyboardAck acknowledges a queued keyboard update
type KeyboardAck struct {
	Slot     int  `json:"slot"`
	Accepted bool `json:"accepted"`
}

// ProductResponse represents the product bound to a slot
type ProductResponse struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DisplayPrice string  `json:"display_price"`
}

// FeedbackResponse represents the last feedback message of a slot
type FeedbackResponse struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// ModelResponse represents the 3D model placed for a slot
type ModelResponse struct {
	ID       string     `json:"id"`
	Asset    string     `json:"asset"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// KeyboardResponse represents an open keyboard session
type KeyboardResponse struct {
	Kind string `json:"kind"`
}

// ElementResponse represents the rendered state of a panel control
type ElementResponse struct {
	Text    string `json:"text,omitempty"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active,omitempty"`
}

// SlotResponse represents a slot and its rendered panel
type SlotResponse struct {
	Index        int                        `json:"index"`
	CatalogIndex int                        `json:"catalog_index"`
	State        string                     `json:"state"`
	Editable     bool                       `json:"editable"`
	Product      ProductResponse            `json:"product"`
	Feedback     *FeedbackResponse          `json:"feedback,omitempty"`
	Model        *ModelResponse             `json:"model,omitempty"`
	Keyboard     *KeyboardResponse          `json:"keyboard,omitempty"`
	Panel        map[string]ElementResponse `json:"panel"`
}

// SaveResponse represents the outcome of a save
type SaveResponse struct {
	Slot         int             `json:"slot"`
	Message      string          `json:"message"`
	NameChanged  bool            `json:"name_changed"`
	PriceChanged bool            `json:"price_changed"`
	Product      ProductResponse `json:"product"`
}

// LoadResponse summarises a catalog load
type LoadResponse struct {
	SessionID string `json:"session_id"`
	Available int    `json:"available"`
	Assigned  int    `json:"assigned"`
	Models    int    `json:"models"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		DisplayPrice: p.DisplayPrice(),
	}
}

// ToSlotResponse converts a domain Slot and its rendered panel to SlotResponse.
// keyboard is nil when no session is open.
func ToSlotResponse(slot *domain.Slot, view domain.PanelView, keyboard *KeyboardResponse) *SlotResponse {
	e := slot.Editor

	resp := &SlotResponse{
		Index:        slot.Index,
		CatalogIndex: slot.CatalogIndex,
		State:        e.State().String(),
		Editable:     e.Editable(),
		Product:      ToProductResponse(e.Product()),
		Keyboard:     keyboard,
		Panel:        make(map[string]ElementResponse, len(view)),
	}

	if msg, visible := e.Feedback(); msg != "" {
		resp.Feedback = &FeedbackResponse{Message: msg, Visible: visible}
	}

	if m := slot.Model; m != nil {
		pos := m.Transform.Position
		resp.Model = &ModelResponse{
			ID:       m.ID,
			Asset:    m.Asset,
			Position: [3]float64{pos.X, pos.Y, pos.Z},
			Yaw:      m.Yaw(),
		}
	}

	for c, v := range view {
		resp.Panel[string(c)] = ElementResponse{Text: v.Text, Visible: v.Visible, Active: v.Active}
	}

	return resp
}

// ToSaveResponse converts an edit outcome to SaveResponse
func ToSaveResponse(slot int, out domain.EditOutcome, p domain.Product) *SaveResponse {
	return &SaveResponse{
		Slot:         slot,
		Message:      out.Message,
		NameChanged:  out.NameChanged,
		PriceChanged: out.PriceChanged,
		Product:      ToProductResponse(p),
	}
}
