package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/temcen/popcornpick/internal/store"
	"github.com/temcen/popcornpick/pkg/models"
)

const (
	defaultProfileAge      = 10
	defaultProfileLanguage = "en"
)

// ProfileService manages household profiles and the current selection.
type ProfileService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewProfileService(s *store.Store, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		store:     s,
		validator: validator.New(),
		logger:    logger,
	}
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := state.FindProfile(id)
	if i < 0 {
		return nil, store.ErrProfileNotFound
	}
	return &state.Profiles[i], nil
}

// Create adds a profile. Unset fields get the defaults: age 10, language
// "en" and moderate sensitivity.
func (s *ProfileService) Create(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	profile := models.Profile{
		ID:                uuid.New(),
		Age:               defaultProfileAge,
		Language:          defaultProfileLanguage,
		SensitivityLevels: models.Uniform(models.DefaultSensitivity),
	}
	if err := s.apply(&profile, req); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, func(state *store.State) error {
		state.Profiles = append(state.Profiles, profile)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"name":       profile.Name,
	}).Info("Profile created")
	return &profile, nil
}

// Update replaces the editable fields. Age and sensitivity keep their
// current values when omitted.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req *models.ProfileRequest) (*models.Profile, error) {
	var updated models.Profile
	err := s.store.Update(ctx, func(state *store.State) error {
		i := state.FindProfile(id)
		if i < 0 {
			return store.ErrProfileNotFound
		}
		profile := state.Profiles[i]
		if err := s.apply(&profile, req); err != nil {
			return err
		}
		state.Profiles[i] = profile
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("profile_id", id).Info("Profile updated")
	return &updated, nil
}

// Delete removes the profile and drops it from the selection.
func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Update(ctx, func(state *store.State) error {
		i := state.FindProfile(id)
		if i < 0 {
			return store.ErrProfileNotFound
		}
		state.Profiles = append(state.Profiles[:i], state.Profiles[i+1:]...)
		state.SelectedProfiles = removeID(state.SelectedProfiles, id)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithField("profile_id", id).Info("Profile deleted")
	return nil
}

// SetGenrePreference marks a genre favorite, disliked or neither.
func (s *ProfileService) SetGenrePreference(ctx context.Context, id uuid.UUID, genreID string, pref models.GenrePreference) (*models.Profile, error) {
	genreID = strings.TrimSpace(genreID)
	if genreID == "" {
		return nil, fmt.Errorf("%w: genre id is required", ErrInvalidProfile)
	}
	switch pref {
	case models.GenreFavorite, models.GenreDisliked, models.GenreNeutral:
	default:
		return nil, fmt.Errorf("%w: unknown genre preference %q", ErrInvalidProfile, pref)
	}

	var updated models.Profile
	err := s.store.Update(ctx, func(state *store.State) error {
		i := state.FindProfile(id)
		if i < 0 {
			return store.ErrProfileNotFound
		}
		state.Profiles[i].SetGenrePreference(genreID, pref)
		updated = state.Profiles[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileService) apply(profile *models.Profile, req *models.ProfileRequest) error {
	profile.Name = strings.TrimSpace(req.Name)
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.SensitivityLevels != nil {
		profile.SensitivityLevels = *req.SensitivityLevels
	}
	if req.Language != "" {
		tag, err := language.Parse(req.Language)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, req.Language)
		}
		profile.Language = tag.String()
	}
	profile.FavoriteGenres = dedupe(req.FavoriteGenres)
	profile.DislikedGenres = dedupe(req.DislikedGenres)
	profile.LikedMovies = dedupe(req.LikedMovies)
	profile.DislikedMovies = dedupe(req.DislikedMovies)
	profile.Avatar = req.Avatar

	if conflicts := profile.ConflictingGenres(); len(conflicts) > 0 {
		return fmt.Errorf("%w: %s", ErrGenreConflict, strings.Join(conflicts, ", "))
	}
	if err := s.validator.Struct(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// ---- Selection ----

func (s *ProfileService) Selection(ctx context.Context) ([]uuid.UUID, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.SelectedProfiles, nil
}

// ReplaceSelection sets the selection. Every id must name a profile;
// duplicates are dropped.
func (s *ProfileService) ReplaceSelection(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var selection []uuid.UUID
	err := s.store.Update(ctx, func(state *store.State) error {
		selection = make([]uuid.UUID, 0, len(ids))
		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if state.FindProfile(id) < 0 {
				return fmt.Errorf("%w: %s", store.ErrProfileNotFound, id)
			}
			if !seen[id] {
				seen[id] = true
				selection = append(selection, id)
			}
		}
		state.SelectedProfiles = selection
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}

// ToggleSelection adds the profile to the selection or removes it.
func (s *ProfileService) ToggleSelection(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var selection []uuid.UUID
	err := s.store.Update(ctx, func(state *store.State) error {
		if state.FindProfile(id) < 0 {
			return store.ErrProfileNotFound
		}
		if containsID(state.SelectedProfiles, id) {
			state.SelectedProfiles = removeID(state.SelectedProfiles, id)
		} else {
			state.SelectedProfiles = append(state.SelectedProfiles, id)
		}
		selection = state.SelectedProfiles
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}

func (s *ProfileService) ClearSelection(ctx context.Context) error {
	return s.store.Update(ctx, func(state *store.State) error {
		state.SelectedProfiles = []uuid.UUID{}
		return nil
	})
}

// SelectedProfiles resolves the current selection in selection order.
func (s *ProfileService) SelectedProfiles(ctx context.Context) ([]models.Profile, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return resolveProfiles(state, state.SelectedProfiles, false)
}

// ProfilesByID resolves ids; unknown ids are an error.
func (s *ProfileService) ProfilesByID(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return resolveProfiles(state, ids, true)
}

func resolveProfiles(state *store.State, ids []uuid.UUID, strict bool) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		i := state.FindProfile(id)
		if i < 0 {
			if strict {
				return nil, fmt.Errorf("%w: %s", store.ErrProfileNotFound, id)
			}
			continue
		}
		profiles = append(profiles, state.Profiles[i])
	}
	return profiles, nil
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
