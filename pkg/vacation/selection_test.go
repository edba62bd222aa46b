package vacation_test

import (
	"context"
	"testing"

	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/illmade-knight/go-vacario/pkg/vacation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewInMemoryStore()
	selection := vacation.NewSelection(store)

	t.Run("Nothing selected", func(t *testing.T) {
		_, err := selection.SelectedVacation(ctx)
		assert.ErrorIs(t, err, vacation.ErrNoSelection)
		_, err = selection.SelectedActivity(ctx)
		assert.ErrorIs(t, err, vacation.ErrNoSelection)
	})

	t.Run("Select and read back", func(t *testing.T) {
		require.NoError(t, selection.SelectVacation(ctx, "v9"))
		require.NoError(t, selection.SelectActivity(ctx, "a3"))

		vacationID, err := selection.SelectedVacation(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v9", vacationID)

		activityID, err := selection.SelectedActivity(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a3", activityID)

		raw, err := store.Get(ctx, "selectedVacationId")
		require.NoError(t, err)
		assert.Equal(t, "v9", string(raw))
	})

	t.Run("Empty id is rejected", func(t *testing.T) {
		assert.Error(t, selection.SelectVacation(ctx, ""))
	})
}
