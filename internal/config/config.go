package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Tabletop/internal/adapters/upstream"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	LogLevel   string        `mapstructure:"log_level"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`

	RoomCodeLength int    `mapstructure:"room_code_length"`
	MaxRoomMembers int    `mapstructure:"max_room_members"`
	SlowPeerPolicy string `mapstructure:"slow_peer_policy"`

	JoinRateLimit  int           `mapstructure:"join_rate_limit"`
	JoinRateWindow time.Duration `mapstructure:"join_rate_window"`

	Upstream upstream.Config `mapstructure:"upstream"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults when
// the file is missing.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	setDefaults(v)

	v.SetEnvPrefix("TABLETOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("upstream.api_key", "TABLETOP_UPSTREAM_API_KEY", "VENICE_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Bool("upstream_key", cfg.Upstream.APIKey != "").
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "tabletop-dev-secret-change-me")

	v.SetDefault("room_code_length", 6)
	v.SetDefault("max_room_members", 0)
	v.SetDefault("slow_peer_policy", "drop")
	v.SetDefault("join_rate_limit", 10)
	v.SetDefault("join_rate_window", "1m")

	v.SetDefault("upstream.base_url", "https://api.venice.ai/api/v1")
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.chat_model", "mistral-31-24b")
	v.SetDefault("upstream.image_model", "venice-sd35")
	v.SetDefault("upstream.temperature", 0.8)
	v.SetDefault("upstream.max_tokens", 8096)
	v.SetDefault("upstream.timeout", "120s")
}
