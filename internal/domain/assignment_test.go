package domain

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) Catalog {
	c := make(Catalog, n)
	for i := range c {
		c[i] = &Product{Name: fmt.Sprintf("p%d", i), Price: decimal.NewFromInt(int64(i))}
	}
	return c
}

func TestAssignSizesAndDistinctness(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for n := 0; n <= 6; n++ {
		for k := 0; k <= 5; k++ {
			t.Run(fmt.Sprintf("n=%d k=%d", n, k), func(t *testing.T) {
				catalog := testCatalog(n)
				a := Assign(catalog, k, rng)

				want := min(n, k)
				require.Len(t, a.Bindings, want)
				assert.Equal(t, n, a.Available)

				seen := make(map[int]bool)
				products := make(map[*Product]bool)
				for i, b := range a.Bindings {
					assert.Equal(t, i, b.Slot)
					assert.False(t, seen[b.Index], "index %d drawn twice", b.Index)
					assert.False(t, products[b.Product], "product drawn twice")
					seen[b.Index] = true
					products[b.Product] = true
					assert.Same(t, catalog[b.Index], b.Product)
				}
			})
		}
	}
}

func TestAssignDeterministicWithSeed(t *testing.T) {
	catalog := testCatalog(10)

	first := Assign(catalog, 3, rand.New(rand.NewPCG(42, 7)))
	second := Assign(catalog, 3, rand.New(rand.NewPCG(42, 7)))

	assert.Equal(t, first.Bindings, second.Bindings)
}

func TestAssignEmptyInputs(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	t.Run("empty catalog", func(t *testing.T) {
		a := Assign(Catalog{}, 3, rng)
		assert.Empty(t, a.Bindings)
		assert.Zero(t, a.Available)
	})

	t.Run("zero slots", func(t *testing.T) {
		a := Assign(testCatalog(4), 0, rng)
		assert.Empty(t, a.Bindings)
		assert.Equal(t, 4, a.Available)
	})

	t.Run("negative slots", func(t *testing.T) {
		a := Assign(testCatalog(4), -1, rng)
		assert.Empty(t, a.Bindings)
	})

	t.Run("failed fetch", func(t *testing.T) {
		a := Assign(nil, 3, rng)
		assert.Empty(t, a.Bindings)
		assert.Zero(t, a.Available)
		assert.Nil(t, a.ProductAt(0))
	})
}

func TestAssignSkipsNilProducts(t *testing.T) {
	catalog := Catalog{nil, &Product{Name: "a"}, nil, &Product{Name: "b"}}

	a := Assign(catalog, 3, rand.New(rand.NewPCG(3, 3)))

	require.Len(t, a.Bindings, 2)
	assert.Equal(t, 2, a.Available)
	for _, b := range a.Bindings {
		assert.NotNil(t, b.Product)
	}
}

func TestAssignDrawsEveryIndex(t *testing.T) {
	catalog := testCatalog(3)
	rng := rand.New(rand.NewPCG(9, 9))
	counts := make([]int, len(catalog))

	const rounds = 3000
	for i := 0; i < rounds; i++ {
		a := Assign(catalog, 1, rng)
		counts[a.Bindings[0].Index]++
	}

	for i, c := range counts {
		assert.Greater(t, c, rounds/3-200, "index %d drawn %d times", i, c)
	}
}
