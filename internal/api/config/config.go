package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局配置，由 LoadConfig 设置
var Cfg *Config

// LoadConfig 读取 ./configs/config.yaml 并应用 DEVFLOW_ 环境变量
func LoadConfig() error {
	cfg, err := Load("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 从给定目录读取 config.yaml，不修改 Cfg
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("DEVFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5)
	v.SetDefault("store.driver", "mongo")
	v.SetDefault("mongo.url", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "devflow")
	v.SetDefault("mongo.connect_timeout", 10)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("mongo.slow_threshold", 200)
	v.SetDefault("redis.ttl", 300)
	v.SetDefault("redis.slow_threshold", 100)
	v.SetDefault("kafka.interaction_topic", "devflow.interactions")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("vote.reverse_on_flip", false)
	v.SetDefault("tag.match_mode", "exact")
	v.SetDefault("recommend.default_page_size", 20)
	v.SetDefault("cron.popular_tags", "0 */10 * * * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
