package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9191")
	t.Setenv("APP_ANSWER_KEY_PROVIDER", "OpenAI")
	t.Setenv("APP_GENERATION_SEED", "42")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "openai", cfg.AnswerKey.Provider)
	assert.Equal(t, uint64(42), cfg.Generation.Seed)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 3, cfg.Generation.Versions)
	assert.Equal(t, int64(64<<20), cfg.Server.MaxDocumentSize)
	assert.Equal(t, 100, cfg.Generation.EasyPercent+cfg.Generation.MediumPercent+cfg.Generation.HardPercent)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{Driver: "oracle", Host: "db", Port: 1521, User: "exam", Password: "secret", DBName: "XEPDB1"}}
	assert.Equal(t, "oracle://exam:secret@db:1521/XEPDB1", cfg.GetDSN())

	cfg.DB.DSN = "oracle://override"
	assert.Equal(t, "oracle://override", cfg.GetDSN())

	sqlite := &Config{DB: DBConfig{Driver: "sqlite", DSN: ":memory:"}}
	assert.Equal(t, ":memory:", sqlite.GetDSN())

	sqlite.DB.DSN = ""
	assert.Equal(t, DefaultSQLiteDSN, sqlite.GetDSN())
}

func TestParseTTLStringOrDefault(t *testing.T) {
	cfg := &Config{}
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", time.Minute},
		{"45s", 45 * time.Second},
		{"2h", 2 * time.Hour},
		{"soon", time.Minute},
		{"-5m", time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ParseTTLStringOrDefault(tt.in, time.Minute), tt.in)
	}
}
