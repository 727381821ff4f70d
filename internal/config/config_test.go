package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir 切换工作目录并在测试结束时恢复（等价于 Go 1.24 的 t.Chdir）
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))

	return fs
}

func TestInitConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 3060, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 4, cfg.MinPlayers)
	assert.Equal(t, 0, cfg.BlankCount)
	assert.Equal(t, 5*time.Second, cfg.WordFetchTimeout)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "undercover_rounds", cfg.Redis.Queue)
	assert.Equal(t, "0.0.0.0:3060", cfg.Addr())
}

func TestInitConfig_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `{
		"port": 4000,
		"log_level": "debug",
		"room_ttl": "30m",
		"blank_count": 1,
		"word_pairs": [{"primary": "猫", "secondary": "狗"}],
		"redis": {"addr": "localhost:6379", "db": 2}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app_config.json"), []byte(content), 0o644))

	t.Setenv("UNDERCOVER_MIN_PLAYERS", "5")
	t.Setenv("UNDERCOVER_LOG_LEVEL", "warn")

	cfg, err := InitConfig(newFlagSet(t, "--port", "5000"))
	require.NoError(t, err)

	// 参数优先于配置文件
	assert.Equal(t, 5000, cfg.Port)
	// 环境变量优先于配置文件
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MinPlayers)

	assert.Equal(t, 30*time.Minute, cfg.RoomTTL)
	assert.Equal(t, 1, cfg.BlankCount)
	assert.Equal(t, []WordPairConfig{{Primary: "猫", Secondary: "狗"}}, cfg.WordPairs)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestInitConfig_ExplicitFileMustExist(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := InitConfig(newFlagSet(t, "--config", "missing.yaml"))
	assert.Error(t, err)
}

func TestInitConfig_RejectsInvalid(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := InitConfig(newFlagSet(t, "--min-players", "3"))
	assert.ErrorContains(t, err, "min_players")
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			Port:             3060,
			RoomTTL:          time.Hour,
			MinPlayers:       4,
			WordFetchTimeout: time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *AppConfig)
	}{
		{"port", func(c *AppConfig) { c.Port = 70000 }},
		{"ttl", func(c *AppConfig) { c.RoomTTL = 0 }},
		{"min players", func(c *AppConfig) { c.MinPlayers = 1 }},
		{"three players", func(c *AppConfig) { c.MinPlayers = 3 }},
		{"blank count", func(c *AppConfig) { c.BlankCount = -1 }},
		{"fetch timeout", func(c *AppConfig) { c.WordFetchTimeout = 0 }},
		{"same words", func(c *AppConfig) {
			c.WordPairs = []WordPairConfig{{Primary: "猫", Secondary: "猫"}}
		}},
		{"empty word", func(c *AppConfig) {
			c.WordPairs = []WordPairConfig{{Primary: "猫"}}
		}},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
