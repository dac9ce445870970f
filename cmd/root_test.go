package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		APIBase: "http://localhost:8000",
		Search:  &SearchConfig{TopK: 10, SortBy: "score"},
		Upload:  &UploadConfig{ProgressInterval: 300 * time.Millisecond},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "api base is not a url", mutate: func(c *Config) { c.APIBase = "localhost" }, wantErr: true},
		{name: "empty api base", mutate: func(c *Config) { c.APIBase = "" }, wantErr: true},
		{name: "top-k too large", mutate: func(c *Config) { c.Search.TopK = 101 }, wantErr: true},
		{name: "top-k zero", mutate: func(c *Config) { c.Search.TopK = 0 }, wantErr: true},
		{name: "unknown sort", mutate: func(c *Config) { c.Search.SortBy = "popularity" }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.MaxRequestsPerSecond = -1 }, wantErr: true},
		{name: "ai without gemini", mutate: func(c *Config) { c.AI = &AIConfig{Enabled: true} }, wantErr: true},
		{name: "ai disabled", mutate: func(c *Config) { c.AI = &AIConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaults()
	viper.Set("search.sort-by", "salary")

	cfg, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBase)
	assert.Equal(t, 10, cfg.Search.TopK)
	assert.Equal(t, "salary", cfg.Search.SortBy)
	assert.Equal(t, 300*time.Millisecond, cfg.Upload.ProgressInterval)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestAPIBaseFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CVMATCH_API_BASE", "https://match.example.com")
	require.NoError(t, viper.BindEnv("api-base", "CVMATCH_API_BASE"))
	setDefaults()

	cfg, err := getConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://match.example.com", cfg.APIBase)
}
