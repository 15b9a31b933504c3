package domain

import "math/rand/v2"

// Binding pairs a slot with the catalog product drawn for it
type Binding struct {
	Slot    int
	Index   int
	Product *Product
}

// Assignment is the one-time binding of distinct catalog products to slots
type Assignment struct {
	Bindings  []Binding
	Available int
}

// ProductAt returns the product bound to slot, or nil when the slot stayed empty
func (a Assignment) ProductAt(slot int) *Product {
	if slot < 0 || slot >= len(a.Bindings) {
		return nil
	}
	return a.Bindings[slot].Product
}

// Assign draws min(len(catalog), slotCount) distinct products and binds them to
// slots 0..n-1 in order. Each draw is uniform over the indices not drawn yet.
// Nil entries in the catalog are never drawn.
func Assign(catalog Catalog, slotCount int, rng *rand.Rand) Assignment {
	available := make([]int, 0, len(catalog))
	for i, p := range catalog {
		if p != nil {
			available = append(available, i)
		}
	}

	a := Assignment{Available: len(available)}
	n := min(len(available), slotCount)
	if n <= 0 {
		return a
	}

	a.Bindings = make([]Binding, 0, n)
	for slot := 0; slot < n; slot++ {
		var index int
		index, available = drawIndex(available, rng)
		a.Bindings = append(a.Bindings, Binding{
			Slot:    slot,
			Index:   index,
			Product: catalog[index],
		})
	}

	return a
}

// drawIndex removes a uniformly chosen entry from available and returns it
// together with the shrunk set.
func drawIndex(available []int, rng *rand.Rand) (int, []int) {
	j := rng.IntN(len(available))
	index := available[j]
	last := len(available) - 1
	available[j] = available[last]
	return index, available[:last]
}
