package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/temcen/popcornpick/pkg/models"
)

// Keys the household state is stored under.
const (
	KeyProfiles         = "profiles"
	KeySelectedProfiles = "selectedProfiles"
	KeyWatchedMovies    = "watchedMovies"
)

// ErrProfileNotFound is returned for an unknown profile id.
var ErrProfileNotFound = errors.New("profile not found")

// State is the whole household state.
type State struct {
	Profiles         []models.Profile
	SelectedProfiles []uuid.UUID
	WatchedMovies    []models.WatchedMovie
}

// FindProfile returns the index of the profile with id, or -1.
func (s *State) FindProfile(id uuid.UUID) int {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// Store reads and writes State through a KV. Updates are serialized.
type Store struct {
	kv KV
	mu sync.Mutex
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the current state. Missing keys load as empty lists.
func (s *Store) Load(ctx context.Context) (*State, error) {
	state, _, err := s.load(ctx)
	return state, err
}

// Update loads the state, applies fn and writes back every key whose
// encoding changed. Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, raw, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}

	encoded, err := encode(state)
	if err != nil {
		return err
	}
	for _, key := range []string{KeyProfiles, KeySelectedProfiles, KeyWatchedMovies} {
		if bytes.Equal(raw[key], encoded[key]) {
			continue
		}
		if err := s.kv.Put(ctx, key, encoded[key]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*State, map[string][]byte, error) {
	state := &State{
		Profiles:         []models.Profile{},
		SelectedProfiles: []uuid.UUID{},
		WatchedMovies:    []models.WatchedMovie{},
	}
	raw := make(map[string][]byte, 3)

	targets := map[string]interface{}{
		KeyProfiles:         &state.Profiles,
		KeySelectedProfiles: &state.SelectedProfiles,
		KeyWatchedMovies:    &state.WatchedMovies,
	}
	for key, target := range targets {
		value, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				continue
			}
			return nil, nil, err
		}
		if err := json.Unmarshal(value, target); err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		// Re-encode so unchanged keys compare equal regardless of the
		// stored formatting.
		normalized, err := json.Marshal(target)
		if err != nil {
			return nil, nil, err
		}
		raw[key] = normalized
	}

	if state.Profiles == nil {
		state.Profiles = []models.Profile{}
	}
	if state.SelectedProfiles == nil {
		state.SelectedProfiles = []uuid.UUID{}
	}
	if state.WatchedMovies == nil {
		state.WatchedMovies = []models.WatchedMovie{}
	}
	return state, raw, nil
}

func encode(state *State) (map[string][]byte, error) {
	out := make(map[string][]byte, 3)
	values := map[string]interface{}{
		KeyProfiles:         &state.Profiles,
		KeySelectedProfiles: &state.SelectedProfiles,
		KeyWatchedMovies:    &state.WatchedMovies,
	}
	for key, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}
