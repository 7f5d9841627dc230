package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"": "en", " ES ": "es", "zh": "zh"} {
		got, err := ParseLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLanguage("klingon")
	assert.Error(t, err)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, NormalizeCategory("  Climate Change ").Valid())
	assert.False(t, Category("").Valid())
	assert.False(t, Category(" padded").Valid())
	long := make([]byte, MaxCategoryLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, Category(long).Valid())
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, ActivityRecycling.Valid())
	assert.False(t, ActivityType("flying").Valid())
	assert.True(t, ResourceGuide.Valid())
	assert.False(t, ResourceType("podcast").Valid())
}

func TestLanguage_UnmarshalJSONNormalizes(t *testing.T) {
	var body struct {
		Language Language `json:"language"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"language":" ES "}`), &body))
	assert.Equal(t, Language("es"), body.Language)
	assert.True(t, body.Language.Valid())

	require.NoError(t, json.Unmarshal([]byte(`{"language":"TLH"}`), &body))
	assert.False(t, body.Language.Valid())
}

func TestTags(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
	if diff := cmp.Diff(Tags{"a", "b"}, NormalizeTags([]string{" a", "", "b ", "  "})); diff != "" {
		t.Errorf("NormalizeTags mismatch (-want +got):\n%s", diff)
	}

	v, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var got Tags
	require.NoError(t, got.Scan([]byte(`["solar","wind"]`)))
	assert.Equal(t, Tags{"solar", "wind"}, got)

	require.NoError(t, got.Scan("null"))
	assert.Equal(t, Tags{}, got)

	assert.Error(t, got.Scan(42))
}

func TestAccessibilitySettingsScan(t *testing.T) {
	var a AccessibilitySettings
	require.NoError(t, a.Scan(nil))
	assert.Equal(t, DefaultAccessibilitySettings(), a)

	// missing keys keep their defaults
	require.NoError(t, a.Scan(`{"screenReader":true}`))
	assert.Equal(t, AccessibilitySettings{TextSize: 1, Contrast: 1, ScreenReader: true}, a)

	assert.Error(t, a.Scan(`{not json`))
}

func TestUserJSON_OmitsPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Username: "alicia", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
