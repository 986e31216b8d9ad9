package store

import (
	"context"

	"github.com/balkashynov/taskman/internal/models"
)

// AuthSource notifies about sign-in and sign-out
type AuthSource interface {
	Subscribe(fn func(models.AuthState)) (unsubscribe func())
}

// BindAuth clears the store when the user signs out and reloads it when a
// user signs in. The returned func stops listening.
func (s *Store) BindAuth(ctx context.Context, auth AuthSource) func() {
	return auth.Subscribe(func(state models.AuthState) {
		if !state.IsAuthenticated {
			s.Load(nil)
			s.SetSelectedTask(nil)
			return
		}
		if err := s.Reload(ctx); err != nil {
			s.logger.Errorw("Failed to reload tasks after login", "error", err)
		}
	})
}
