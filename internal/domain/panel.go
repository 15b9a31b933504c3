package domain

// Control names a panel element. The names are the contract with the host UI
// and resolve 1:1 per slot.
type Control string

const (
	ControlCanvas            Control = "Canvas"
	ControlName              Control = "Name"
	ControlDescription       Control = "Description"
	ControlPrice             Control = "Price"
	ControlChangeNameButton  Control = "ChangeNameButton"
	ControlChangePriceButton Control = "ChangePriceButton"
	ControlSaveButton        Control = "SaveButton"
	ControlChangeNameField   Control = "ChangeNameField"
	ControlChangePriceField  Control = "ChangePriceField"
	ControlFeedbackText      Control = "FeedbackText"
)

// Controls lists every control a slot panel may carry, in display order
var Controls = []Control{
	ControlCanvas,
	ControlName,
	ControlDescription,
	ControlPrice,
	ControlChangeNameButton,
	ControlChangePriceButton,
	ControlSaveButton,
	ControlChangeNameField,
	ControlChangePriceField,
	ControlFeedbackText,
}

// Element is anything the editor can show or hide
type Element interface {
	SetVisible(visible bool)
}

// Label is an element displaying text
type Label interface {
	Element
	SetText(text string)
}

// InputField is an editable text element
type InputField interface {
	Element
	Text() string
	SetText(text string)
	Activate()
	Deactivate()
}

// Panel holds the already-resolved UI handles of one slot.
// A nil handle means the host could not wire that control.
type Panel struct {
	Canvas      Element
	Name        Label
	Description Label
	Price       Label

	ChangeNameButton  Element
	ChangePriceButton Element
	SaveButton        Element
	ChangeNameField   InputField
	ChangePriceField  InputField
	FeedbackText      Label
}

// MissingControls lists the editing controls that are not wired
func (p Panel) MissingControls() []Control {
	var missing []Control
	check := func(ok bool, c Control) {
		if !ok {
			missing = append(missing, c)
		}
	}
	check(p.ChangeNameButton != nil, ControlChangeNameButton)
	check(p.ChangePriceButton != nil, ControlChangePriceButton)
	check(p.SaveButton != nil, ControlSaveButton)
	check(p.ChangeNameField != nil, ControlChangeNameField)
	check(p.ChangePriceField != nil, ControlChangePriceField)
	check(p.FeedbackText != nil, ControlFeedbackText)
	return missing
}

// ElementView is the rendered state of a single control
type ElementView struct {
	Text    string
	Visible bool
	Active  bool
}

// PanelView is the rendered state of a slot panel keyed by control name.
// Controls the host never wired are absent.
type PanelView map[Control]ElementView

// Panels gives access to every slot's panel
type Panels interface {
	Panel(slot int) Panel
	View(slot int) PanelView
}
