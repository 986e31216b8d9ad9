package mockapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/taskman/internal/models"
)

// TeamService serves the team table
type TeamService struct {
	mu    sync.RWMutex
	teams []models.Team

	auth    *AuthService
	latency time.Duration
	now     func() time.Time
}

// NewTeamService creates a team service seeded with the demo team
func NewTeamService(auth *AuthService, latency time.Duration, now func() time.Time) *TeamService {
	if now == nil {
		now = time.Now
	}
	return &TeamService{
		teams:   seedTeams(auth.Users(), now()),
		auth:    auth,
		latency: latency,
		now:     now,
	}
}

// UserTeams returns the teams userID is a member of
func (s *TeamService) UserTeams(ctx context.Context, userID string) ([]models.Team, error) {
	if err := delay(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var teams []models.Team
	for _, team := range s.teams {
		if team.HasMember(userID) {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (s *TeamService) TeamByID(ctx context.Context, teamID string) (*models.Team, error) {
	if err := delay(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, team := range s.teams {
		if team.ID == teamID {
			t := team
			return &t, nil
		}
	}
	return nil, ErrTeamNotFound
}

// CreateTeam creates a team owned by the signed-in user
func (s *TeamService) CreateTeam(ctx context.Context, name, description string) (models.Team, error) {
	if err := delay(ctx, s.latency); err != nil {
		return models.Team{}, err
	}

	user := s.auth.CurrentUser()
	if user == nil || !s.auth.IsAuthenticated() {
		return models.Team{}, ErrUnauthenticated
	}
	if name == "" {
		name = "New team"
	}

	now := s.now()
	team := models.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedBy:   user.ID,
		Members: []models.TeamMember{
			{
				UserID:      user.ID,
				User:        *user,
				Role:        models.TeamRoleOwner,
				JoinedAt:    now,
				Permissions: models.OwnerPermissions,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
		Settings:  defaultTeamSettings(),
	}

	s.mu.Lock()
	s.teams = append(s.teams, team)
	s.mu.Unlock()

	return team, nil
}
