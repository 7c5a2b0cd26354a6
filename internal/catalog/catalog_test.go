package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	return c
}

func TestResolvePlatformSubstitution(t *testing.T) {
	c := newCatalog(t)

	ios, err := c.Resolve("get_reviews", PlatformIOS)
	require.NoError(t, err)
	android, err := c.Resolve("get_reviews", PlatformAndroid)
	require.NoError(t, err)

	assert.Equal(t, "/ios/applications/reviews.json", ios)
	assert.Equal(t, "/android/applications/reviews.json", android)
	assert.NotEqual(t, ios, android)
}

func TestResolveUnknownTool(t *testing.T) {
	c := newCatalog(t)

	_, err := c.Resolve("does_not_exist", PlatformIOS)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestResolveUnsupportedPlatform(t *testing.T) {
	c := newCatalog(t)

	_, err := c.Resolve("get_reviews", "windows")
	assert.Error(t, err)
}

func TestRoutingForKnownAndUnknown(t *testing.T) {
	c := newCatalog(t)

	r := c.RoutingFor("get_reviews")
	require.NotNil(t, r)
	assert.Equal(t, "reviews", r.TabID)
	assert.Equal(t, "recent-reviews", r.SectionID)
	assert.True(t, r.Highlight)

	assert.Nil(t, c.RoutingFor("does_not_exist"))
}

func TestEveryEntryHasDefaultsAndRouting(t *testing.T) {
	c := newCatalog(t)

	for _, e := range c.Entries() {
		assert.NotEmpty(t, e.Defaults["platform"], "entry %s must default platform", e.Name)
		assert.NotNil(t, e.Routing, "entry %s must have routing metadata", e.Name)
		assert.Contains(t, e.PathTemplate, "/ios/", "templates are authored for ios")
	}
}

func TestValidateRejectsBadArguments(t *testing.T) {
	c := newCatalog(t)

	e, ok := c.Get("analyze_top_keywords")
	require.True(t, ok)

	assert.Error(t, e.Validate(map[string]any{"appIds": []any{}}))
	assert.Error(t, e.Validate(map[string]any{}))
	assert.NoError(t, e.Validate(map[string]any{"appIds": []any{"389801252"}}))
}
