// Package session tracks the two durable client flags: whether the user is
// logged in and whether onboarding has been completed. Both are stored as the
// literal string "true"; any other value, or an absent key, reads as false.
package session

import (
	"context"
	"errors"
)

const (
	keyLoggedIn   = "isLoggedIn"
	keyOnboarding = "onboardingSeen"
	trueValue     = "true"
)

// KV is the slice of the durable store the session needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// State is the current session snapshot.
type State struct {
	LoggedIn       bool `json:"isLoggedIn"`
	OnboardingSeen bool `json:"onboardingSeen"`
}

// Service reads and writes the session flags.
type Service struct {
	Store KV
}

// NewService wires the session service over the given store.
func NewService(kv KV) *Service {
	return &Service{Store: kv}
}

func (s *Service) flag(ctx context.Context, key string) (bool, error) {
	raw, ok, err := s.Store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && raw == trueValue, nil
}

// State returns both flags.
func (s *Service) State(ctx context.Context) (State, error) {
	if s == nil || s.Store == nil {
		return State{}, errors.New("session service not configured")
	}
	loggedIn, err := s.flag(ctx, keyLoggedIn)
	if err != nil {
		return State{}, err
	}
	seen, err := s.flag(ctx, keyOnboarding)
	if err != nil {
		return State{}, err
	}
	return State{LoggedIn: loggedIn, OnboardingSeen: seen}, nil
}

// Login marks the user as logged in.
func (s *Service) Login(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return errors.New("session service not configured")
	}
	return s.Store.Set(ctx, keyLoggedIn, trueValue)
}

// Logout clears the login flag. The onboarding flag survives logout.
func (s *Service) Logout(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return errors.New("session service not configured")
	}
	return s.Store.Remove(ctx, keyLoggedIn)
}

// FinishOnboarding records that the onboarding flow has been seen.
func (s *Service) FinishOnboarding(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return errors.New("session service not configured")
	}
	return s.Store.Set(ctx, keyOnboarding, trueValue)
}
