package domain

import (
	"context"
	"errors"
	"math"
	"sync"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
)

// Vec3 is a point in scene space
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Transform is the placement of a model in the scene
type Transform struct {
	Position Vec3
}

// Model is an instantiated visual asset spinning around its Y axis
type Model struct {
	ID        string
	Asset     string
	Transform Transform

	mu  sync.Mutex
	yaw float64
}

// Rotate turns the model around the Y axis by degrees
func (m *Model) Rotate(degrees float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yaw = math.Mod(m.yaw+degrees, 360)
	if m.yaw < 0 {
		m.yaw += 360
	}
}

// Yaw returns the current Y rotation in degrees, in [0, 360)
func (m *Model) Yaw() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.yaw
}

// Placer resolves a visual asset by name and instantiates it
type Placer interface {
	Place(ctx context.Context, asset string, at Transform) (*Model, error)
}
