package mockapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/balkashynov/taskman/internal/models"
)

const tokenTTL = 30 * 24 * time.Hour

// AuthService holds the user table and the signed-in session
type AuthService struct {
	mu      sync.RWMutex
	users   []models.User
	current *models.User
	token   string

	secret  []byte
	latency time.Duration
	now     func() time.Time
}

// NewAuthService creates an auth service seeded with the demo accounts
func NewAuthService(secret string, latency time.Duration, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:   seedUsers(now()),
		secret:  []byte(secret),
		latency: latency,
		now:     now,
	}
}

// Login signs a seeded or registered user in
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.AuthState, error) {
	if err := delay(ctx, s.latency); err != nil {
		return models.AuthState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByUsername(creds.Username)
	if idx < 0 || creds.Password != Password {
		return models.AuthState{}, ErrInvalidCredentials
	}

	now := s.now()
	s.users[idx].LastLoginAt = &now
	s.users[idx].UpdatedAt = now

	return s.signIn(s.users[idx])
}

// Register creates a member account and signs it in
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (models.AuthState, error) {
	if err := delay(ctx, s.latency); err != nil {
		return models.AuthState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByUsername(reg.Username) >= 0 {
		return models.AuthState{}, ErrUsernameTaken
	}
	for _, u := range s.users {
		if u.Email == reg.Email {
			return models.AuthState{}, ErrEmailTaken
		}
	}

	now := s.now()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    reg.Username,
		Email:       reg.Email,
		DisplayName: reg.DisplayName,
		Role:        models.RoleMember,
		Status:      models.UserActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.users = append(s.users, user)

	return s.signIn(user)
}

// Resume restores a session from a previously issued token
func (s *AuthService) Resume(ctx context.Context, token string) (models.AuthState, error) {
	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return models.AuthState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = user
	s.token = token
	return s.stateLocked(), nil
}

// Logout drops the current session
func (s *AuthService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.token = ""
}

// CurrentUser returns a copy of the signed-in user, nil when signed out
func (s *AuthService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.token != ""
}

// Users lists every known account
func (s *AuthService) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

// UserByUsername looks an account up by its login name
func (s *AuthService) UserByUsername(username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexByUsername(username)
	if idx < 0 {
		return nil, false
	}
	u := s.users[idx]
	return &u, true
}

// VerifyToken checks the signature and expiry of a token and returns its user
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if err := delay(ctx, s.latency); err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == claims.Subject {
			user := u
			return &user, nil
		}
	}
	return nil, ErrInvalidToken
}

// signIn must be called with mu held
func (s *AuthService) signIn(user models.User) (models.AuthState, error) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		return models.AuthState{}, err
	}
	s.current = &user
	s.token = token
	return s.stateLocked(), nil
}

func (s *AuthService) stateLocked() models.AuthState {
	u := *s.current
	return models.AuthState{
		User:            &u,
		Token:           s.token,
		IsAuthenticated: true,
	}
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) indexByUsername(username string) int {
	for i, u := range s.users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
