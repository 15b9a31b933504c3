package domain

// Feedback messages shown after a save
const (
	MessagePriceNotNumber = "Price should be a number"
	MessageChangesUpdated = "Changes updated"
	MessageInvalidFormat  = "Invalid format"
)

// EditOutcome describes what a save did to a product
type EditOutcome struct {
	NameChanged  bool
	PriceChanged bool
	PriceInvalid bool
	Message      string
}

// Committed reports whether any field of the product was rewritten
func (o EditOutcome) Committed() bool {
	return o.NameChanged || o.PriceChanged
}

// ApplyEdit validates the raw name and price inputs and commits the valid ones to p.
// An empty input means no change was requested for that field.
func ApplyEdit(p *Product, nameInput, priceInput string) EditOutcome {
	var out EditOutcome

	if nameInput != "" {
		p.Name = nameInput
		out.NameChanged = true
	}

	if priceInput != "" {
		price, err := ParsePrice(priceInput)
		if err != nil {
			out.PriceInvalid = true
		} else {
			p.Price = price
			out.PriceChanged = true
		}
	}

	switch {
	case out.NameChanged && out.PriceInvalid:
		out.Message = MessagePriceNotNumber
	case out.NameChanged || out.PriceChanged:
		out.Message = MessageChangesUpdated
	default:
		out.Message = MessageInvalidFormat
	}

	return out
}
