package persist

import (
	"context"
	"errors"

	"github.com/balkashynov/taskman/internal/models"
)

// ErrNoUser is returned when a remote load happens while signed out
var ErrNoUser = errors.New("user not logged in")

// TaskAPI is the slice of the backend task service the remote adapter needs
type TaskAPI interface {
	Tasks(ctx context.Context, userID, teamID string) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// Remote forwards every call to the team backend
type Remote struct {
	api    TaskAPI
	user   func() *models.User
	teamID string
}

// NewRemote creates the multi-user adapter. Loads are scoped to the user
// returned by currentUser and, when teamID is set, to that team.
func NewRemote(api TaskAPI, currentUser func() *models.User, teamID string) *Remote {
	return &Remote{api: api, user: currentUser, teamID: teamID}
}

func (r *Remote) Load(ctx context.Context) ([]models.Task, error) {
	user := r.user()
	if user == nil {
		return nil, ErrNoUser
	}
	return r.api.Tasks(ctx, user.ID, r.teamID)
}

func (r *Remote) Add(ctx context.Context, task models.Task) error {
	_, err := r.api.CreateTask(ctx, task)
	return err
}

func (r *Remote) Update(ctx context.Context, task models.Task) error {
	_, err := r.api.UpdateTask(ctx, task)
	return err
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.api.DeleteTask(ctx, id)
}
