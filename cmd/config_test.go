package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/evaczone-cli/internal/config"
)

func TestRenderConfigRedactsAPIKey(t *testing.T) {
	c := &config.Config{}
	c.Feed.URL = config.DefaultFeedURL
	c.Geocode.Provider = "google"
	c.Geocode.GoogleKey = "super-secret"

	data, err := renderConfig(c)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "super-secret")

	var parsed config.Config
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "[redacted]", parsed.Geocode.GoogleKey)
	assert.Equal(t, config.DefaultFeedURL, parsed.Feed.URL)
	assert.Equal(t, "google", parsed.Geocode.Provider)
}

func TestRenderConfigLeavesEmptyKeyAlone(t *testing.T) {
	c := &config.Config{}
	data, err := renderConfig(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "redacted")
}
