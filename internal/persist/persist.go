// Package persist holds the adapters the task store writes through.
package persist

import (
	"context"

	"github.com/balkashynov/taskman/internal/models"
)

// Adapter persists the task collection one record at a time
type Adapter interface {
	Load(ctx context.Context) ([]models.Task, error)
	Add(ctx context.Context, task models.Task) error
	Update(ctx context.Context, task models.Task) error
	Delete(ctx context.Context, id string) error
}
