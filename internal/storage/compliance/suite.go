package compliance

import (
	"context"
	"testing"

	"github.com/aglmct/tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStorageComplianceTest runs a standard set of tests against a Storage implementation.
// setup is a function that returns a fresh (clean) Storage instance for the test.
// cleanup is called after the test to clean up resources (if any).
func RunStorageComplianceTest(t *testing.T, setup func() (core.Storage, func())) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		payload := []byte(`[{"id":"a","description":"PPM for Edge Light at Taxiway A"}]`)
		require.NoError(t, store.Save(ctx, "agl_ppm_tasks", payload))

		fetched, err := store.Load(ctx, "agl_ppm_tasks")
		require.NoError(t, err)
		assert.Equal(t, payload, fetched)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "agl_cm_tasks", []byte(`[{"id":"1"},{"id":"2"}]`)))
		require.NoError(t, store.Save(ctx, "agl_cm_tasks", []byte(`[]`)))

		fetched, err := store.Load(ctx, "agl_cm_tasks")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(fetched))
	})

	t.Run("SlotsAreIndependent", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "slot_a", []byte(`"a"`)))
		require.NoError(t, store.Save(ctx, "slot_b", []byte(`"b"`)))

		a, err := store.Load(ctx, "slot_a")
		require.NoError(t, err)
		b, err := store.Load(ctx, "slot_b")
		require.NoError(t, err)
		assert.Equal(t, `"a"`, string(a))
		assert.Equal(t, `"b"`, string(b))
	})

	t.Run("Keys", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)

		require.NoError(t, store.Save(ctx, "zulu", []byte(`[]`)))
		require.NoError(t, store.Save(ctx, "alpha", []byte(`[]`)))
		require.NoError(t, store.Save(ctx, "alpha", []byte(`[1]`)))

		keys, err = store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "zulu"}, keys)
	})

	t.Run("LoadMissingSlot", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.Load(ctx, "never_written")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrSlotNotFound)
	})

	t.Run("RejectsInvalidKeys", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		for _, key := range []string{"", "../escape", "with space", "a/b"} {
			assert.ErrorIs(t, store.Save(ctx, key, []byte(`[]`)), core.ErrInvalidKey, "key=%q", key)
			_, err := store.Load(ctx, key)
			assert.ErrorIs(t, err, core.ErrInvalidKey, "key=%q", key)
		}
	})
}
