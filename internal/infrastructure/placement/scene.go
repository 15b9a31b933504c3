package placement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/product-showcase-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Scene instantiates registered assets and keeps the placed models spinning
type Scene struct {
	mu            sync.RWMutex
	assets        map[string]struct{}
	models        []*domain.Model
	rotationSpeed float64
	tracer        trace.Tracer
	logger        *slog.Logger
}

// NewScene creates a scene that can place the given assets.
// rotationSpeed is in degrees per second.
func NewScene(assets []string, rotationSpeed float64, tracer trace.Tracer, logger *slog.Logger) *Scene {
	s := &Scene{
		assets:        make(map[string]struct{}, len(assets)),
		rotationSpeed: rotationSpeed,
		tracer:        tracer,
		logger:        logger,
	}
	for _, a := range assets {
		if a = strings.TrimSpace(a); a != "" {
			s.assets[a] = struct{}{}
		}
	}
	return s
}

// Place resolves asset by name and instantiates it at the given transform
func (s *Scene) Place(ctx context.Context, asset string, at domain.Transform) (*domain.Model, error) {
	ctx, span := s.tracer.Start(ctx, "Scene.Place")
	defer span.End()

	span.SetAttributes(attribute.String("asset.name", asset))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[asset]; !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAssetNotFound, asset)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Asset not found")
		return nil, err
	}

	model := &domain.Model{
		ID:        uuid.New().String(),
		Asset:     asset,
		Transform: at,
	}
	s.models = append(s.models, model)

	s.logger.DebugContext(ctx, "Model placed",
		slog.String("model_id", model.ID),
		slog.String("asset", asset),
		slog.Float64("x", at.Position.X),
	)

	span.SetAttributes(attribute.String("model.id", model.ID))
	span.SetStatus(codes.Ok, "Model placed")
	return model, nil
}

// Advance rotates every placed model by the distance covered in dt
func (s *Scene) Advance(dt time.Duration) {
	degrees := s.rotationSpeed * dt.Seconds()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.models {
		m.Rotate(degrees)
	}
}

// Animate advances the scene every tick until ctx is done
func (s *Scene) Animate(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Advance(now.Sub(last))
			last = now
		}
	}
}

// Models returns the placed models
func (s *Scene) Models() []*domain.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.Model(nil), s.models...)
}
