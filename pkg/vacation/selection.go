package vacation

import (
	"context"
	"errors"
	"fmt"

	"github.com/illmade-knight/go-vacario/pkg/kvstore"
)

const (
	selectedVacationKey = "selectedVacationId"
	selectedActivityKey = "selectedActivityId"
)

// ErrNoSelection is returned when nothing has been selected yet.
var ErrNoSelection = errors.New("no selection")

// Selection remembers the last vacation and activity the user opened, so a
// restarted client can return to them. Values live in the same store as the caches.
type Selection struct {
	store kvstore.Store
}

func NewSelection(store kvstore.Store) *Selection {
	return &Selection{store: store}
}

func (s *Selection) SelectVacation(ctx context.Context, vacationID string) error {
	return s.set(ctx, selectedVacationKey, vacationID)
}

func (s *Selection) SelectedVacation(ctx context.Context) (string, error) {
	return s.get(ctx, selectedVacationKey)
}

func (s *Selection) SelectActivity(ctx context.Context, activityID string) error {
	return s.set(ctx, selectedActivityKey, activityID)
}

func (s *Selection) SelectedActivity(ctx context.Context) (string, error) {
	return s.get(ctx, selectedActivityKey)
}

func (s *Selection) set(ctx context.Context, key, id string) error {
	if id == "" {
		return fmt.Errorf("%s: id must not be empty", key)
	}
	if err := s.store.Set(ctx, key, []byte(id)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Selection) get(ctx context.Context, key string) (string, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", key, ErrNoSelection)
		}
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", key, ErrNoSelection)
	}
	return string(data), nil
}
