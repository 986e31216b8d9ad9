package store

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/balkashynov/taskman/internal/models"
)

// Variant selects how adapter failures are handled
type Variant int

const (
	// SingleUser applies changes in memory first. Persistence is best effort.
	SingleUser Variant = iota
	// MultiUser persists first and leaves state untouched when that fails.
	MultiUser
)

func (v Variant) String() string {
	switch v {
	case SingleUser:
		return "single"
	case MultiUser:
		return "multi"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "single" or "multi"
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "single-user":
		return SingleUser, nil
	case "multi", "multi-user", "team":
		return MultiUser, nil
	}
	return SingleUser, fmt.Errorf("invalid variant %q. Use: single, multi", s)
}

// FilterPolicy decides how the filter dimensions combine
type FilterPolicy int

const (
	// FirstMatch checks status and priority, then lets the first set one of
	// search, date range and tags decide on its own.
	FirstMatch FilterPolicy = iota
	// AllDimensions requires every set dimension to match.
	AllDimensions
)

func (p FilterPolicy) String() string {
	switch p {
	case FirstMatch:
		return "first-match"
	case AllDimensions:
		return "all"
	}
	return fmt.Sprintf("FilterPolicy(%d)", int(p))
}

// ParseFilterPolicy accepts "first-match" or "all"
func ParseFilterPolicy(s string) (FilterPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-match", "first", "firstmatch":
		return FirstMatch, nil
	case "all", "all-dimensions", "and":
		return AllDimensions, nil
	}
	return FirstMatch, fmt.Errorf("invalid filter policy %q. Use: first-match, all", s)
}

// Option configures a Store
type Option func(*Store)

func WithVariant(v Variant) Option {
	return func(s *Store) { s.variant = v }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) { s.logger = l }
}

func WithFilterPolicy(p FilterPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithUserProvider tells the store who is signed in
func WithUserProvider(current func() *models.User) Option {
	return func(s *Store) { s.currentUser = current }
}

// WithSerializedWrites makes writes to the same task id run one at a time.
// Writes to one id never overlap; waiting writers are not queued in any
// particular order.
func WithSerializedWrites() Option {
	return func(s *Store) { s.locks = newKeyedMutex() }
}
