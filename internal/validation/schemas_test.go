package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_LoadsEmbeddedSchemas(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.Equal(t, []string{"genre-preference", "profile", "recommendation", "selection", "watch"}, sv.SchemaNames())
}

func TestSchemaValidator_Validate(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		schema string
		body   string
		valid  bool
		field  string
	}{
		{"minimal profile", SchemaProfile, `{"name":"Ada"}`, true, ""},
		{"profile without name", SchemaProfile, `{"age":9}`, false, "(root)"},
		{"negative age", SchemaProfile, `{"name":"Ada","age":-1}`, false, "age"},
		{"sensitivity out of range", SchemaProfile,
			`{"name":"Ada","sensitivity_levels":{"violence":6,"language":1,"sexual_content":1,"frightening":1}}`, false, "sensitivity_levels.violence"},
		{"non-numeric genre id", SchemaProfile, `{"name":"Ada","favorite_genres":["comedy"]}`, false, "favorite_genres.0"},
		{"empty questionnaire", SchemaRecommendation, `{}`, true, ""},
		{"rating above ten", SchemaRecommendation, `{"min_rating":11}`, false, "min_rating"},
		{"unknown certification", SchemaRecommendation, `{"certification":"X"}`, false, "certification"},
		{"bad profile id", SchemaRecommendation, `{"profile_ids":["nope"]}`, false, "profile_ids.0"},
		{"watch", SchemaWatch, `{"movie":{"id":862,"title":"Toy Story"},"rating":4}`, true, ""},
		{"watch rating too high", SchemaWatch, `{"movie":{"id":862,"title":"Toy Story"},"rating":6}`, false, "rating"},
		{"selection", SchemaSelection, `{"profile_ids":[]}`, true, ""},
		{"genre preference", SchemaGenrePreference, `{"preference":"loved"}`, false, "preference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.Validate(tt.schema, tt.body)
			assert.Equal(t, tt.valid, result.Valid, "%+v", result.Errors)
			if !tt.valid {
				assert.Contains(t, result.FieldErrors(), tt.field)
			}
		})
	}
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	result := sv.Validate("missing", `{}`)
	assert.False(t, result.Valid)
	assert.Equal(t, "SCHEMA_NOT_FOUND", result.Errors[0].Code)
}

func TestSchemaValidator_InvalidJSON(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	result := sv.Validate(SchemaProfile, `{"name":`)
	assert.False(t, result.Valid)
	assert.Equal(t, "INVALID_JSON", result.Errors[0].Code)
}
