// Package storetest checks registry.Store implementations against the
// behavior the registry relies on.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/registry"
)

// RunStoreContract runs a suite of tests against ``store``, which must be
// empty.
func RunStoreContract(t *testing.T, store registry.Store) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		a := automaton.MustCompile("(a+b)*aba(a+b)*").Automaton()
		require.NoError(t, store.Save(ctx, "contains_aba", a))

		loaded, err := store.Load(ctx, "contains_aba")
		require.NoError(t, err)
		assert.Equal(t, automaton.Format(a), automaton.Format(loaded))
		assert.True(t, loaded.AcceptsWord("bbbababbb"))
		assert.False(t, loaded.AcceptsWord("ab"))
	})

	t.Run("Isolation", func(t *testing.T) {
		a := automaton.ByLetter("a")
		require.NoError(t, store.Save(ctx, "letter", a))
		a.MakeStateFinal("0")

		loaded, err := store.Load(ctx, "letter")
		require.NoError(t, err)
		assert.False(t, loaded.AcceptsWord(""), "stored automaton changed with the original")

		loaded.MakeStateFinal("0")
		again, err := store.Load(ctx, "letter")
		require.NoError(t, err)
		assert.False(t, again.AcceptsWord(""), "stored automaton changed with a loaded copy")
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "over", automaton.ByLetter("a")))
		require.NoError(t, store.Save(ctx, "over", automaton.ByLetter("b")))

		loaded, err := store.Load(ctx, "over")
		require.NoError(t, err)
		assert.True(t, loaded.AcceptsWord("b"))
		assert.False(t, loaded.AcceptsWord("a"))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "doomed", automaton.SingletonEpsilon()))
		require.NoError(t, store.Delete(ctx, "doomed"))

		_, err := store.Load(ctx, "doomed")
		assert.ErrorIs(t, err, registry.ErrNotFound)
		assert.NoError(t, store.Delete(ctx, "doomed"), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "listed-1", automaton.ByLetter("x")))
		require.NoError(t, store.Save(ctx, "listed-2", automaton.ByLetter("y")))
		defer func() {
			_ = store.Delete(ctx, "listed-1")
			_ = store.Delete(ctx, "listed-2")
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "listed-1")
		assert.Contains(t, names, "listed-2")
		assert.NotContains(t, names, "doomed")
	})
}
