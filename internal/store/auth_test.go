package store

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/models"
)

// fakeAuth lets tests fire auth transitions by hand
type fakeAuth struct {
	mu   sync.Mutex
	subs []func(models.AuthState)
}

func (f *fakeAuth) Subscribe(fn func(models.AuthState)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[idx] = nil
	}
}

func (f *fakeAuth) emit(state models.AuthState) {
	f.mu.Lock()
	subs := slices.Clone(f.subs)
	f.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(state)
		}
	}
}

func TestBindAuth(t *testing.T) {
	adapter := &fakeAdapter{tasks: []models.Task{{ID: "remote-1"}, {ID: "remote-2"}}}
	s := New(adapter, WithVariant(MultiUser))
	auth := &fakeAuth{}
	ctx := context.Background()

	unsubscribe := s.BindAuth(ctx, auth)

	auth.emit(models.AuthState{IsAuthenticated: true, User: &models.User{ID: "user-1"}})
	require.Len(t, s.Tasks(), 2)

	sel := models.Task{ID: "remote-1"}
	s.SetSelectedTask(&sel)

	auth.emit(models.AuthState{})
	assert.Empty(t, s.Tasks())
	assert.Nil(t, s.SelectedTask())

	unsubscribe()
	auth.emit(models.AuthState{IsAuthenticated: true})
	assert.Empty(t, s.Tasks(), "no reload after unsubscribing")
}
