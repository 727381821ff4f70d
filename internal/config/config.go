package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "UNDERCOVER"

type WordPairConfig struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
}

// 未配置 Addr 时不记录投票历史
type RedisConfig struct {
	Addr  string `mapstructure:"addr"`
	DB    int    `mapstructure:"db"`
	Queue string `mapstructure:"queue"`
}

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	RoomTTL          time.Duration    `mapstructure:"room_ttl"`
	MinPlayers       int              `mapstructure:"min_players"`
	BlankCount       int              `mapstructure:"blank_count"`
	WordFetchTimeout time.Duration    `mapstructure:"word_fetch_timeout"`
	WordPairs        []WordPairConfig `mapstructure:"word_pairs"`

	// 用于生成房间二维码的前端地址
	PublicURL string `mapstructure:"public_url"`
	StaticDir string `mapstructure:"static_dir"`

	Redis RedisConfig `mapstructure:"redis"`
}

func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.RoomTTL <= 0 {
		return errors.New("room_ttl must be positive")
	}
	if c.MinPlayers < 4 {
		return fmt.Errorf("min_players must be at least 4: %d", c.MinPlayers)
	}
	if c.BlankCount < 0 {
		return fmt.Errorf("blank_count must not be negative: %d", c.BlankCount)
	}
	if c.WordFetchTimeout <= 0 {
		return errors.New("word_fetch_timeout must be positive")
	}
	for i, pair := range c.WordPairs {
		if pair.Primary == "" || pair.Secondary == "" || pair.Primary == pair.Secondary {
			return fmt.Errorf("word_pairs[%d] must hold two different words", i)
		}
	}

	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3060)
	v.SetDefault("log_level", "info")
	v.SetDefault("room_ttl", 2*time.Hour)
	v.SetDefault("min_players", 4)
	v.SetDefault("blank_count", 0)
	v.SetDefault("word_fetch_timeout", 5*time.Second)
	v.SetDefault("word_pairs", []map[string]string{})
	v.SetDefault("public_url", "http://localhost:3060")
	v.SetDefault("static_dir", "./who-is-spy-fe")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.queue", "undercover_rounds")
}

// 命令行参数名与配置键的对应关系
var flagKeys = map[string]string{
	"host":               "host",
	"port":               "port",
	"log-level":          "log_level",
	"room-ttl":           "room_ttl",
	"min-players":        "min_players",
	"blank-count":        "blank_count",
	"word-fetch-timeout": "word_fetch_timeout",
	"public-url":         "public_url",
	"static-dir":         "static_dir",
	"redis-addr":         "redis.addr",
	"redis-db":           "redis.db",
	"redis-queue":        "redis.queue",
}

// RegisterFlags 注册命令行参数，帮助信息中的默认值与配置默认值保持一致
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default: ./app_config.json if present)")
	fs.String("host", "0.0.0.0", "address to bind to (env: UNDERCOVER_HOST)")
	fs.IntP("port", "p", 3060, "port to listen on (env: UNDERCOVER_PORT)")
	fs.String("log-level", "info", "debug, info, warn or error (env: UNDERCOVER_LOG_LEVEL)")
	fs.Duration("room-ttl", 2*time.Hour, "time before a room is destroyed (env: UNDERCOVER_ROOM_TTL)")
	fs.Int("min-players", 4, "players required to start a game (env: UNDERCOVER_MIN_PLAYERS)")
	fs.Int("blank-count", 0, "blank players per game (env: UNDERCOVER_BLANK_COUNT)")
	fs.Duration("word-fetch-timeout", 5*time.Second, "time allowed to fetch a word pair (env: UNDERCOVER_WORD_FETCH_TIMEOUT)")
	fs.String("public-url", "http://localhost:3060", "frontend URL used in room QR codes (env: UNDERCOVER_PUBLIC_URL)")
	fs.String("static-dir", "./who-is-spy-fe", "frontend directory to serve (env: UNDERCOVER_STATIC_DIR)")
	fs.String("redis-addr", "", "redis address for round history, empty disables it (env: UNDERCOVER_REDIS_ADDR)")
	fs.Int("redis-db", 0, "redis database index (env: UNDERCOVER_REDIS_DB)")
	fs.String("redis-queue", "undercover_rounds", "redis list receiving round history (env: UNDERCOVER_REDIS_QUEUE)")
}

// InitConfig 按 参数 > 环境变量 > 配置文件 > 默认值 的优先级加载配置，
// fs 可以为 nil
func InitConfig(fs *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}

		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("绑定参数 %s 失败: %w", name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("app_config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("加载配置失败: %w", err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
