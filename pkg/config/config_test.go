package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 1536, cfg.OpenAI.EmbeddingDimension)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.MaxMedicineRecords)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 15432, cfg.Database.Port)
	assert.Equal(t, 0.2, cfg.OpenAI.Temperature)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidateOpenAI(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateOpenAI())

	cfg.OpenAI.APIKey = "sk-test"
	assert.NoError(t, cfg.ValidateOpenAI())
}
