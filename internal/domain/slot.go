package domain

import (
	"context"
	"errors"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
)

// Slot is a display position with its bound product
type Slot struct {
	Index        int
	CatalogIndex int
	Editor       *Editor
	Model        *Model
}

// SlotRepository defines the contract for slot storage
type SlotRepository interface {
	Save(ctx context.Context, slot *Slot) error
	FindByIndex(ctx context.Context, index int) (*Slot, error)
	FindAll(ctx context.Context) ([]*Slot, error)
}
