package usecase

import (
	"testing"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartUsecase(t *testing.T) *DefaultCartUsecase {
	t.Helper()
	store := memstore.NewStore()
	require.NoError(t, store.SaveProduct(&domain.Product{ID: "p1", Name: "Widget", PriceCents: 1000, Stock: 10}))
	return NewDefaultCartUsecase(store, store)
}

func TestCartUsecase(t *testing.T) {
	t.Run("add merges identical lines", func(t *testing.T) {
		uc := newCartUsecase(t)

		_, err := uc.AddItem("s1", "p1", 1, "red")
		require.NoError(t, err)
		cart, err := uc.AddItem("s1", "p1", 2, "red")
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(3), cart.Items[0].Quantity)
	})

	t.Run("different variants are separate lines", func(t *testing.T) {
		uc := newCartUsecase(t)

		_, err := uc.AddItem("s1", "p1", 1, "red")
		require.NoError(t, err)
		cart, err := uc.AddItem("s1", "p1", 1, "blue")
		require.NoError(t, err)

		assert.Len(t, cart.Items, 2)
	})

	t.Run("add rejects unknown product", func(t *testing.T) {
		uc := newCartUsecase(t)
		_, err := uc.AddItem("s1", "missing", 1, "")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("add rejects non-positive quantity", func(t *testing.T) {
		uc := newCartUsecase(t)
		_, err := uc.AddItem("s1", "p1", 0, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("update sets quantity and zero removes", func(t *testing.T) {
		uc := newCartUsecase(t)
		_, err := uc.AddItem("s1", "p1", 3, "")
		require.NoError(t, err)

		cart, err := uc.UpdateItem("s1", "p1", 1, "")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(1), cart.Items[0].Quantity)

		cart, err = uc.UpdateItem("s1", "p1", 0, "")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("carts are session scoped", func(t *testing.T) {
		uc := newCartUsecase(t)
		_, err := uc.AddItem("s1", "p1", 1, "")
		require.NoError(t, err)

		other, err := uc.GetCart("s2")
		require.NoError(t, err)
		assert.Empty(t, other.Items)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		uc := newCartUsecase(t)
		_, err := uc.AddItem("s1", "p1", 1, "")
		require.NoError(t, err)
		require.NoError(t, uc.Clear("s1"))

		cart, err := uc.GetCart("s1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}
