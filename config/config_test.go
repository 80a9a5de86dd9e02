package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "shop", cfg.DBName)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "disk", cfg.ImageStorage)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.MailConfigured())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Configuration{CORSOrigins: " http://a.test ,, http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())

	cfg.CORSOrigins = ""
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestMaskMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://admin:***@db:27017/?authSource=admin",
		maskMongoURI("mongodb://admin:s3cret@db:27017/?authSource=admin"))
	assert.Equal(t, "mongodb://localhost:27017", maskMongoURI("mongodb://localhost:27017"))
}
