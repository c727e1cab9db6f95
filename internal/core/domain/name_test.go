package domain_test

import (
	"testing"

	"github.com/Voyago/voyago_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNameParts_FullNameSplit(t *testing.T) {
	first, last := domain.NameParts(map[string]any{"full_name": "Jane Mary Doe"}, "jane@example.com")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Mary Doe", last)
}

func TestNameParts_StructuredFieldsWinOverFullName(t *testing.T) {
	meta := map[string]any{
		"given_name":  "Jane",
		"family_name": "Doe",
		"full_name":   "Completely Different Name",
	}
	first, last := domain.NameParts(meta, "jane@example.com")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)
}

func TestNameParts_PartialStructuredFields(t *testing.T) {
	// A lone given_name must not fall through to the full-name split.
	first, last := domain.NameParts(map[string]any{"given_name": "Jane", "full_name": "Other Person"}, "jane@example.com")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "", last)
}

func TestNameParts_EmailLocalPartFallback(t *testing.T) {
	first, last := domain.NameParts(nil, "jane.doe@example.com")
	assert.Equal(t, "jane.doe", first)
	assert.Equal(t, "", last)
}

func TestNameParts_SingleWordFullName(t *testing.T) {
	first, last := domain.NameParts(map[string]any{"name": "Cher"}, "cher@example.com")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)
}

func TestNameParts_NothingAvailable(t *testing.T) {
	first, last := domain.NameParts(map[string]any{}, "")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}

func TestIdentity_HasCompletedOnboardingMetadata(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]any
		want bool
	}{
		{"bool true", map[string]any{domain.MetadataKeyOnboardingComplete: true}, true},
		{"string true", map[string]any{domain.MetadataKeyOnboardingComplete: "true"}, true},
		{"string false", map[string]any{domain.MetadataKeyOnboardingComplete: "false"}, false},
		{"absent", map[string]any{}, false},
		{"nil map", nil, false},
		{"wrong type", map[string]any{domain.MetadataKeyOnboardingComplete: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ident := domain.Identity{UserMetadata: tc.meta}
			assert.Equal(t, tc.want, ident.HasCompletedOnboardingMetadata())
		})
	}
}
