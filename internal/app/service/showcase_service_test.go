package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/input"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/placement"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/ui"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type catalogFunc func(ctx context.Context) (domain.Catalog, error)

func (f catalogFunc) Fetch(ctx context.Context) (domain.Catalog, error) { return f(ctx) }

func staticCatalog(n int) catalogFunc {
	return func(context.Context) (domain.Catalog, error) {
		c := make(domain.Catalog, n)
		for i := range c {
			c[i] = &domain.Product{
				Name:        fmt.Sprintf("Product%d", i),
				Description: fmt.Sprintf("Description %d", i),
				Price:       decimal.NewFromInt(int64(i + 1)),
			}
		}
		return c, nil
	}
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// manualScheduler never fires, keeping feedback visible for assertions
type manualScheduler struct{}

func (manualScheduler) AfterFunc(time.Duration, func()) domain.Timer { return manualTimer{} }

type fixture struct {
	svc   *ShowcaseService
	board *ui.Board
	hub   *input.Hub
	scene *placement.Scene
}

func newFixture(t *testing.T, source domain.CatalogSource, mode string, assets ...string) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")

	cfg := &config.ShowcaseConfig{
		SlotCount:        3,
		Seed:             7,
		FeedbackCooldown: 2 * time.Second,
		InputMode:        mode,
		RotationSpeed:    10,
		SlotSpacing:      1.5,
	}

	f := &fixture{
		board: ui.NewBoard(),
		scene: placement.NewScene(assets, cfg.RotationSpeed, tracer, logger),
	}

	c := Collaborators{
		Catalog:   source,
		Slots:     memory.NewSlotRepository(tracer, logger),
		Panels:    f.board,
		Placer:    f.scene,
		Scheduler: manualScheduler{},
	}
	if mode == config.InputModeKeyboard {
		f.hub = input.NewHub(logger)
		c.Keyboards = f.hub
	}

	f.svc = NewShowcaseService(c, cfg, tracer, meter, logger)
	return f
}

func TestLoadAssignsDistinctProducts(t *testing.T) {
	f := newFixture(t, staticCatalog(5), config.InputModeDirect, "Product0", "Product1", "Product2", "Product3", "Product4")
	ctx := context.Background()

	res, err := f.svc.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 5, res.Available)
	assert.Equal(t, 3, res.Assigned)
	assert.Equal(t, 3, res.Models)

	slots, err := f.svc.ListSlots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	seen := make(map[int]bool)
	for i, s := range slots {
		assert.Equal(t, i, s.Index)
		assert.False(t, seen[s.CatalogIndex])
		seen[s.CatalogIndex] = true

		assert.Equal(t, fmt.Sprintf("Product%d", s.CatalogIndex), s.Product.Name)
		assert.Equal(t, s.Product.Name, s.Panel[string(domain.ControlName)].Text)
		assert.Equal(t, s.Product.DisplayPrice, s.Panel[string(domain.ControlPrice)].Text)
		assert.True(t, s.Panel[string(domain.ControlCanvas)].Visible)
		assert.Equal(t, "idle", s.State)
		require.NotNil(t, s.Model)
		assert.Equal(t, s.Product.Name, s.Model.Asset)
	}

	assert.Equal(t, [3]float64{-1.5, 0, 0}, slots[0].Model.Position)
	assert.Equal(t, [3]float64{1.5, 0, 0}, slots[2].Model.Position)
}

func TestLoadIsDeterministicForSeed(t *testing.T) {
	indices := func() []int {
		f := newFixture(t, staticCatalog(10), config.InputModeDirect)
		_, err := f.svc.Load(context.Background())
		require.NoError(t, err)
		slots, err := f.svc.ListSlots(context.Background())
		require.NoError(t, err)
		out := make([]int, len(slots))
		for i, s := range slots {
			out[i] = s.CatalogIndex
		}
		return out
	}

	assert.Equal(t, indices(), indices())
}

func TestLoadFewerProductsThanSlots(t *testing.T) {
	f := newFixture(t, staticCatalog(2), config.InputModeDirect)

	res, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assigned)

	_, err = f.svc.GetSlot(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestLoadFetchFailureIsNotFatal(t *testing.T) {
	failing := catalogFunc(func(context.Context) (domain.Catalog, error) {
		return nil, fmt.Errorf("%w: boom", domain.ErrCatalogUnavailable)
	})
	f := newFixture(t, failing, config.InputModeDirect)

	res, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Available)
	assert.Zero(t, res.Assigned)

	slots, err := f.svc.ListSlots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestLoadOnlyOnce(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeDirect)

	_, err := f.svc.Load(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Load(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestLoadMissingAssetKeepsSlot(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeDirect)

	res, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assigned)
	assert.Zero(t, res.Models)

	slot, err := f.svc.GetSlot(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, slot.Model)
	assert.NotEmpty(t, slot.Panel[string(domain.ControlName)].Text)
}

func TestDirectEditAndSave(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeDirect)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	slot, err := f.svc.RequestEdit(ctx, 1, domain.FieldName)
	require.NoError(t, err)
	assert.Equal(t, "editing_name", slot.State)
	assert.True(t, slot.Panel[string(domain.ControlSaveButton)].Visible)
	assert.True(t, slot.Panel[string(domain.ControlChangeNameField)].Active)
	assert.Nil(t, slot.Keyboard)

	_, err = f.svc.TypeText(ctx, 1, domain.FieldName, "Widget")
	require.NoError(t, err)
	_, err = f.svc.TypeText(ctx, 1, domain.FieldPrice, "9.5")
	require.NoError(t, err)

	saved, err := f.svc.Save(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageChangesUpdated, saved.Message)
	assert.True(t, saved.NameChanged)
	assert.True(t, saved.PriceChanged)
	assert.Equal(t, "Widget", saved.Product.Name)
	assert.Equal(t, "$ 9.50", saved.Product.DisplayPrice)

	slot, err = f.svc.GetSlot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "idle", slot.State)
	assert.Equal(t, "Widget", slot.Panel[string(domain.ControlName)].Text)
	assert.Equal(t, "$ 9.50", slot.Panel[string(domain.ControlPrice)].Text)
	require.NotNil(t, slot.Feedback)
	assert.Equal(t, domain.MessageChangesUpdated, slot.Feedback.Message)
	assert.True(t, slot.Feedback.Visible)
}

func TestSaveWithoutEdit(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeDirect)
	_, err := f.svc.Load(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Save(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrNotEditing)
}

func TestKeyboardEditAndSave(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeKeyboard)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	reqCtx, cancel := context.WithCancel(ctx)
	slot, err := f.svc.RequestEdit(reqCtx, 0, domain.FieldPrice)
	cancel()
	require.NoError(t, err)
	require.NotNil(t, slot.Keyboard)
	assert.Equal(t, "number_pad", slot.Keyboard.Kind)

	require.NoError(t, f.svc.PushKeyboard(ctx, 0, domain.KeyboardUpdate{Text: "9"}))
	require.NoError(t, f.svc.PushKeyboard(ctx, 0, domain.KeyboardUpdate{Text: "9.5", Done: true}))

	assert.Eventually(t, func() bool {
		v := f.board.View(0)[domain.ControlChangePriceField]
		return v.Text == "9.5" && !v.Active
	}, time.Second, 5*time.Millisecond)

	saved, err := f.svc.Save(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageChangesUpdated, saved.Message)
	assert.Equal(t, "$ 9.50", saved.Product.DisplayPrice)
}

func TestPushKeyboardErrors(t *testing.T) {
	t.Run("direct mode", func(t *testing.T) {
		f := newFixture(t, staticCatalog(3), config.InputModeDirect)
		_, err := f.svc.Load(context.Background())
		require.NoError(t, err)

		err = f.svc.PushKeyboard(context.Background(), 0, domain.KeyboardUpdate{Text: "x"})
		assert.ErrorIs(t, err, domain.ErrNoKeyboardSession)
	})

	t.Run("no open session", func(t *testing.T) {
		f := newFixture(t, staticCatalog(3), config.InputModeKeyboard)
		_, err := f.svc.Load(context.Background())
		require.NoError(t, err)

		err = f.svc.PushKeyboard(context.Background(), 0, domain.KeyboardUpdate{Text: "x"})
		assert.ErrorIs(t, err, domain.ErrNoKeyboardSession)
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t, staticCatalog(3), config.InputModeKeyboard)
		err := f.svc.PushKeyboard(context.Background(), 5, domain.KeyboardUpdate{})
		assert.True(t, errors.Is(err, domain.ErrSlotNotFound))
	})
}

func TestKeyboardDoneThenImmediateSave(t *testing.T) {
	f := newFixture(t, staticCatalog(3), config.InputModeKeyboard)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		_, err := f.svc.RequestEdit(ctx, 0, domain.FieldName)
		require.NoError(t, err)

		name := fmt.Sprintf("Widget %d", i)
		require.NoError(t, f.svc.PushKeyboard(ctx, 0, domain.KeyboardUpdate{Text: name, Done: true}))

		saved, err := f.svc.Save(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, domain.MessageChangesUpdated, saved.Message, "iteration %d", i)
		assert.Equal(t, name, saved.Product.Name)
	}
}
