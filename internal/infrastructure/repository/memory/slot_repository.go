package memory

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/product-showcase-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SlotRepository is an in-memory implementation of domain.SlotRepository
type SlotRepository struct {
	mu     sync.RWMutex
	slots  map[int]*domain.Slot
	tracer trace.Tracer
	logger *slog.Logger
}

// NewSlotRepository creates a new in-memory slot repository
func NewSlotRepository(tracer trace.Tracer, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{
		slots:  make(map[int]*domain.Slot),
		tracer: tracer,
		logger: logger,
	}
}

// Save stores a slot, replacing any slot with the same index
func (r *SlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	ctx, span := r.tracer.Start(ctx, "SlotRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.Int("slot.index", slot.Index),
		attribute.Int("slot.catalog_index", slot.CatalogIndex),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[slot.Index] = slot

	r.logger.DebugContext(ctx, "Slot stored in repository",
		slog.Int("slot", slot.Index),
		slog.Int("catalog_index", slot.CatalogIndex),
	)

	span.SetStatus(codes.Ok, "Slot stored")
	return nil
}

// FindByIndex retrieves a slot by index
func (r *SlotRepository) FindByIndex(ctx context.Context, index int) (*domain.Slot, error) {
	_, span := r.tracer.Start(ctx, "SlotRepository.FindByIndex")
	defer span.End()

	span.SetAttributes(attribute.Int("slot.index", index))

	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, exists := r.slots[index]
	if !exists {
		span.RecordError(domain.ErrSlotNotFound)
		span.SetStatus(codes.Error, "Slot not found")
		return nil, domain.ErrSlotNotFound
	}

	span.SetStatus(codes.Ok, "Slot found")
	return slot, nil
}

// FindAll retrieves all slots ordered by index
func (r *SlotRepository) FindAll(ctx context.Context) ([]*domain.Slot, error) {
	_, span := r.tracer.Start(ctx, "SlotRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	slots := make([]*domain.Slot, 0, len(r.slots))
	for _, slot := range r.slots {
		slots = append(slots, slot)
	}
	r.mu.RUnlock()

	slices.SortFunc(slots, func(a, b *domain.Slot) int {
		return cmp.Compare(a.Index, b.Index)
	})

	span.SetAttributes(attribute.Int("slot.count", len(slots)))
	span.SetStatus(codes.Ok, "Slots retrieved")
	return slots, nil
}
