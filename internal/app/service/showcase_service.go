package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/product-showcase-api/internal/app/dto"
	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrAlreadyLoaded = errors.New("showcase already loaded")
)

// Collaborators are the external services the showcase drives.
// Keyboards is nil when input fields are activated directly.
type Collaborators struct {
	Catalog   domain.CatalogSource
	Slots     domain.SlotRepository
	Panels    domain.Panels
	Placer    domain.Placer
	Keyboards domain.KeyboardHub
	Scheduler domain.Scheduler
}

// ShowcaseService handles the showcase use cases
type ShowcaseService struct {
	c      Collaborators
	cfg    *config.ShowcaseConfig
	rng    *rand.Rand
	tracer trace.Tracer
	logger *slog.Logger

	loadMu sync.Mutex
	loaded bool

	productsFetched metric.Int64Counter
	slotsAssigned   metric.Int64Counter
	editOperations  metric.Int64Counter
	saves           metric.Int64Counter
}

// NewShowcaseService creates a new showcase service
func NewShowcaseService(
	c Collaborators,
	cfg *config.ShowcaseConfig,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ShowcaseService {
	productsFetched, _ := meter.Int64Counter(
		"showcase.products.fetched",
		metric.WithDescription("Total number of products fetched from the catalog"),
	)

	slotsAssigned, _ := meter.Int64Counter(
		"showcase.slots.assigned",
		metric.WithDescription("Total number of slots bound to a product"),
	)

	editOperations, _ := meter.Int64Counter(
		"showcase.edits",
		metric.WithDescription("Total number of slot edit operations"),
	)

	saves, _ := meter.Int64Counter(
		"showcase.saves",
		metric.WithDescription("Total number of saves by feedback message"),
	)

	return &ShowcaseService{
		c:               c,
		cfg:             cfg,
		rng:             newRand(cfg.Seed),
		tracer:          tracer,
		logger:          logger,
		productsFetched: productsFetched,
		slotsAssigned:   slotsAssigned,
		editOperations:  editOperations,
		saves:           saves,
	}
}

// newRand returns a generator seeded with seed, or a randomly seeded one for 0
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Load fetches the catalog once and binds distinct products to the slots.
// A failed fetch is reported as zero available products.
func (s *ShowcaseService) Load(ctx context.Context) (*dto.LoadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.Load")
	defer span.End()

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded {
		span.SetStatus(codes.Error, "Already loaded")
		return nil, ErrAlreadyLoaded
	}
	s.loaded = true

	result := &dto.LoadResponse{SessionID: uuid.New().String()}
	span.SetAttributes(attribute.String("showcase.session_id", result.SessionID))

	s.logger.InfoContext(ctx, "Loading showcase",
		slog.String("session_id", result.SessionID),
		slog.Int("slot_count", s.cfg.SlotCount),
	)

	catalog, err := s.c.Catalog.Fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Catalog unavailable, treating as empty",
			slog.String("error", err.Error()),
		)
		catalog = nil
	}
	s.productsFetched.Add(ctx, int64(len(catalog)))

	assignment := domain.Assign(catalog, s.cfg.SlotCount, s.rng)
	result.Available = assignment.Available
	span.SetAttributes(attribute.Int("showcase.available", assignment.Available))

	if assignment.Available == 0 {
		s.logger.ErrorContext(ctx, "No products fetched from server")
		span.SetStatus(codes.Ok, "No products available")
		return result, nil
	}

	for _, b := range assignment.Bindings {
		slot, err := s.bind(ctx, b)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to bind slot")
			return nil, err
		}
		result.Assigned++
		if slot.Model != nil {
			result.Models++
		}
	}

	s.slotsAssigned.Add(ctx, int64(result.Assigned))

	s.logger.InfoContext(ctx, "Showcase loaded",
		slog.Int("available", result.Available),
		slog.Int("assigned", result.Assigned),
		slog.Int("models", result.Models),
	)

	span.SetStatus(codes.Ok, "Showcase loaded")
	return result, nil
}

// bind builds the editor and model of one slot and stores it
func (s *ShowcaseService) bind(ctx context.Context, b domain.Binding) (*domain.Slot, error) {
	ctx = telemetry.WithSlot(ctx, b.Slot)

	var kb domain.Keyboard
	if s.c.Keyboards != nil {
		kb = s.c.Keyboards.For(b.Slot)
	}

	editor, err := domain.NewEditor(b.Slot, b.Product, domain.EditorDeps{
		Panel:     s.c.Panels.Panel(b.Slot),
		Keyboard:  kb,
		Scheduler: s.c.Scheduler,
		Cooldown:  s.cfg.FeedbackCooldown,
		Logger:    s.logger.With(slog.Int("slot", b.Slot)),
	})
	if err != nil {
		return nil, err
	}

	model, err := s.c.Placer.Place(ctx, b.Product.Name, s.spawnPoint(b.Slot))
	if err != nil {
		s.logger.ErrorContext(ctx, "Model not placed, showing product without it",
			slog.String("product", b.Product.Name),
			slog.String("error", err.Error()),
		)
		model = nil
	}

	slot := &domain.Slot{
		Index:        b.Slot,
		CatalogIndex: b.Index,
		Editor:       editor,
		Model:        model,
	}
	if err := s.c.Slots.Save(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Slot bound",
		slog.Int("catalog_index", b.Index),
		slog.String("product", b.Product.Name),
	)
	return slot, nil
}

// spawnPoint centres the slots on the origin along the X axis
func (s *ShowcaseService) spawnPoint(slot int) domain.Transform {
	offset := float64(slot) - float64(s.cfg.SlotCount-1)/2
	return domain.Transform{Position: domain.Vec3{X: offset * s.cfg.SlotSpacing}}
}

// ListSlots retrieves all bound slots
func (s *ShowcaseService) ListSlots(ctx context.Context) ([]*dto.SlotResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.ListSlots")
	defer span.End()

	slots, err := s.c.Slots.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve slots")
		return nil, err
	}

	span.SetAttributes(attribute.Int("slot.count", len(slots)))

	responses := make([]*dto.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = s.toResponse(slot)
	}

	span.SetStatus(codes.Ok, "Slots listed")
	return responses, nil
}

// GetSlot retrieves one slot
func (s *ShowcaseService) GetSlot(ctx context.Context, index int) (*dto.SlotResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.GetSlot")
	defer span.End()

	slot, err := s.findSlot(ctx, span, index)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "Slot retrieved")
	return s.toResponse(slot), nil
}

// RequestEdit puts a slot into the edit mode of field
func (s *ShowcaseService) RequestEdit(ctx context.Context, index int, field domain.Field) (*dto.SlotResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.RequestEdit")
	defer span.End()

	span.SetAttributes(attribute.String("edit.field", string(field)))

	slot, err := s.findSlot(ctx, span, index)
	if err != nil {
		return nil, err
	}
	ctx = telemetry.WithSlot(ctx, index)

	// the keyboard session outlives the request that opened it
	if err := slot.Editor.RequestEdit(context.WithoutCancel(ctx), field); err != nil {
		s.recordFailure(ctx, span, "request_edit", err)
		return nil, err
	}

	s.recordSuccess(ctx, "request_edit")
	s.logger.InfoContext(ctx, "Edit requested", slog.String("field", string(field)))

	span.SetStatus(codes.Ok, "Edit requested")
	return s.toResponse(slot), nil
}

// SelectField reopens input on an already revealed field of a slot
func (s *ShowcaseService) SelectField(ctx context.Context, index int, field domain.Field) (*dto.SlotResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.SelectField")
	defer span.End()

	span.SetAttributes(attribute.String("edit.field", string(field)))

	slot, err := s.findSlot(ctx, span, index)
	if err != nil {
		return nil, err
	}
	ctx = telemetry.WithSlot(ctx, index)

	if err := slot.Editor.SelectField(context.WithoutCancel(ctx), field); err != nil {
		s.recordFailure(ctx, span, "select", err)
		return nil, err
	}

	s.recordSuccess(ctx, "select")
	span.SetStatus(codes.Ok, "Field selected")
	return s.toResponse(slot), nil
}

// TypeText writes text straight into one of a slot's input fields
func (s *ShowcaseService) TypeText(ctx context.Context, index int, field domain.Field, text string) (*dto.SlotResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.TypeText")
	defer span.End()

	span.SetAttributes(attribute.String("edit.field", string(field)))

	slot, err := s.findSlot(ctx, span, index)
	if err != nil {
		return nil, err
	}
	ctx = telemetry.WithSlot(ctx, index)

	if err := slot.Editor.TypeText(field, text); err != nil {
		s.recordFailure(ctx, span, "type", err)
		return nil, err
	}

	s.recordSuccess(ctx, "type")
	span.SetStatus(codes.Ok, "Text typed")
	return s.toResponse(slot), nil
}

// PushKeyboard forwards a keyboard update to the slot's open session
func (s *ShowcaseService) PushKeyboard(ctx context.Context, index int, update domain.KeyboardUpdate) error {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.PushKeyboard")
	defer span.End()

	span.SetAttributes(attribute.Bool("keyboard.done", update.Done))

	if _, err := s.findSlot(ctx, span, index); err != nil {
		return err
	}
	ctx = telemetry.WithSlot(ctx, index)

	if s.c.Keyboards == nil {
		s.recordFailure(ctx, span, "keyboard", domain.ErrNoKeyboardSession)
		return domain.ErrNoKeyboardSession
	}

	if err := s.c.Keyboards.Push(index, update); err != nil {
		s.recordFailure(ctx, span, "keyboard", err)
		return err
	}

	s.recordSuccess(ctx, "keyboard")
	span.SetStatus(codes.Ok, "Keyboard update queued")
	return nil
}

// Save commits a slot's pending edits
func (s *ShowcaseService) Save(ctx context.Context, index int) (*dto.SaveResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShowcaseService.Save")
	defer span.End()

	slot, err := s.findSlot(ctx, span, index)
	if err != nil {
		return nil, err
	}
	ctx = telemetry.WithSlot(ctx, index)

	out, err := slot.Editor.Save()
	if err != nil {
		s.recordFailure(ctx, span, "save", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("edit.name_changed", out.NameChanged),
		attribute.Bool("edit.price_changed", out.PriceChanged),
		attribute.String("edit.feedback", out.Message),
	)

	s.recordSuccess(ctx, "save")
	s.saves.Add(ctx, 1, metric.WithAttributes(attribute.String("feedback", out.Message)))

	s.logger.InfoContext(ctx, "Slot saved",
		slog.Bool("name_changed", out.NameChanged),
		slog.Bool("price_changed", out.PriceChanged),
		slog.String("feedback", out.Message),
	)

	span.SetStatus(codes.Ok, "Slot saved")
	return dto.ToSaveResponse(index, out, slot.Editor.Product()), nil
}

func (s *ShowcaseService) findSlot(ctx context.Context, span trace.Span, index int) (*domain.Slot, error) {
	span.SetAttributes(attribute.Int("slot.index", index))

	slot, err := s.c.Slots.FindByIndex(ctx, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Slot not found")
		s.logger.WarnContext(ctx, "Slot not found", slog.Int("slot", index))
		return nil, err
	}
	return slot, nil
}

func (s *ShowcaseService) toResponse(slot *domain.Slot) *dto.SlotResponse {
	var kb *dto.KeyboardResponse
	if s.c.Keyboards != nil {
		if kind, open := s.c.Keyboards.Session(slot.Index); open {
			kb = &dto.KeyboardResponse{Kind: kind.String()}
		}
	}
	return dto.ToSlotResponse(slot, s.c.Panels.View(slot.Index), kb)
}

func (s *ShowcaseService) recordSuccess(ctx context.Context, operation string) {
	s.editOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "success"),
		),
	)
}

func (s *ShowcaseService) recordFailure(ctx context.Context, span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.WarnContext(ctx, "Slot operation rejected",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.editOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "failure"),
		),
	)
}
