package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/popcornpick/pkg/models"
)

// countingKV records writes per key.
type countingKV struct {
	*MemoryKV
	puts map[string]int
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryKV: NewMemoryKV(), puts: make(map[string]int)}
}

func (c *countingKV) Put(ctx context.Context, key string, value []byte) error {
	c.puts[key]++
	return c.MemoryKV.Put(ctx, key, value)
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte(`["a"]`)
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'X'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))
}

func TestStore_LoadEmpty(t *testing.T) {
	s := New(NewMemoryKV())

	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state.Profiles)
	assert.Empty(t, state.Profiles)
	assert.Empty(t, state.SelectedProfiles)
	assert.Empty(t, state.WatchedMovies)
}

func TestStore_UpdateWritesOnlyChangedKeys(t *testing.T) {
	kv := newCountingKV()
	s := New(kv)
	ctx := context.Background()

	profile := models.Profile{ID: uuid.New(), Name: "Ada", Age: 9, Language: "en", SensitivityLevels: models.Uniform(2)}
	require.NoError(t, s.Update(ctx, func(state *State) error {
		state.Profiles = append(state.Profiles, profile)
		return nil
	}))

	require.NoError(t, s.Update(ctx, func(state *State) error {
		state.SelectedProfiles = append(state.SelectedProfiles, profile.ID)
		return nil
	}))

	assert.Equal(t, 1, kv.puts[KeyProfiles])
	assert.Equal(t, 2, kv.puts[KeySelectedProfiles])

	state, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Profiles, 1)
	assert.Equal(t, profile, state.Profiles[0])
	assert.Equal(t, []uuid.UUID{profile.ID}, state.SelectedProfiles)
	assert.Equal(t, 0, state.FindProfile(profile.ID))
	assert.Equal(t, -1, state.FindProfile(uuid.New()))
}

func TestStore_UpdateErrorWritesNothing(t *testing.T) {
	kv := newCountingKV()
	s := New(kv)

	err := s.Update(context.Background(), func(state *State) error {
		state.Profiles = append(state.Profiles, models.Profile{ID: uuid.New()})
		return ErrProfileNotFound
	})
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Empty(t, kv.puts)
}

func TestStore_CorruptValue(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), KeyProfiles, []byte(`{not json`)))

	_, err := New(kv).Load(context.Background())
	assert.Error(t, err)
}

func TestPostgresKV_Get(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	kv := NewPostgresKV(mockDB)
	ctx := context.Background()

	t.Run("existing key", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"value"}).AddRow([]byte(`["x"]`))
		mockDB.ExpectQuery("SELECT value FROM kv_store").
			WithArgs(KeyProfiles).
			WillReturnRows(rows)

		value, err := kv.Get(ctx, KeyProfiles)
		require.NoError(t, err)
		assert.Equal(t, `["x"]`, string(value))
	})

	t.Run("missing key", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT value FROM kv_store").
			WithArgs(KeyWatchedMovies).
			WillReturnError(pgx.ErrNoRows)

		_, err := kv.Get(ctx, KeyWatchedMovies)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT value FROM kv_store").
			WithArgs(KeySelectedProfiles).
			WillReturnError(errors.New("connection reset"))

		_, err := kv.Get(ctx, KeySelectedProfiles)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrKeyNotFound)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresKV_PutAndSchema(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	kv := NewPostgresKV(mockDB)
	ctx := context.Background()

	mockDB.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mockDB.ExpectExec("INSERT INTO kv_store").
		WithArgs(KeyProfiles, []byte(`[]`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, kv.EnsureSchema(ctx))
	require.NoError(t, kv.Put(ctx, KeyProfiles, []byte(`[]`)))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
