package providers

import (
	"benchstore/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "BenchStore"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("store.defaultCategory", "Go Benchmark")
	v.SetDefault("store.tool", "go")
	v.SetDefault("persistence.filePath", "dev/bench/data.js")
	v.SetDefault("persistence.saveInterval", "30s")
	v.SetDefault("persistence.lockTimeout", "10s")
	v.SetDefault("alert.threshold", 2.0)
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("metrics.enabled", true)
}

// NewConfigProvider reads the YAML file named by flags.ConfigPath (optional),
// then environment overrides, then validates the result.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setConfigDefaults(v)

	v.BindEnv("logger.level", "BENCHSTORE_LOG_LEVEL")
	v.BindEnv("logger.dir", "BENCHSTORE_LOG_DIR")
	v.BindEnv("store.repoUrl", "BENCHSTORE_REPO_URL")
	v.BindEnv("persistence.filePath", "BENCHSTORE_DATA_FILE")
	v.BindEnv("persistence.saveInterval", "BENCHSTORE_SAVE_INTERVAL")
	v.BindEnv("persistence.archiveDir", "BENCHSTORE_ARCHIVE_DIR")
	v.BindEnv("alert.threshold", "BENCHSTORE_ALERT_THRESHOLD")
	v.BindEnv("alert.slackWebhook", "BENCHSTORE_SLACK_WEBHOOK")
	v.BindEnv("cache.enabled", "BENCHSTORE_CACHE_ENABLED")
	v.BindEnv("cache.size", "BENCHSTORE_CACHE_SIZE")

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", flags.ConfigPath, err)
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
