package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository() *SlotRepository {
	return NewSlotRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSlotRepositorySaveAndFind(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	slot := &domain.Slot{Index: 1, CatalogIndex: 4}
	require.NoError(t, repo.Save(ctx, slot))

	got, err := repo.FindByIndex(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, slot, got)
}

func TestSlotRepositoryNotFound(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.FindByIndex(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestSlotRepositoryFindAllOrdered(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	for _, i := range []int{2, 0, 1} {
		require.NoError(t, repo.Save(ctx, &domain.Slot{Index: i}))
	}

	slots, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, i, s.Index)
	}
}
