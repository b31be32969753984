package structures

import "time"

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" mapstructure:"filePath" validate:"required"`
	SaveInterval time.Duration `yaml:"saveInterval" mapstructure:"saveInterval" validate:"required|min:1"`
	LockTimeout  time.Duration `yaml:"lockTimeout" mapstructure:"lockTimeout"`
	ArchiveDir   string        `yaml:"archiveDir" mapstructure:"archiveDir"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir" validate:"required"`
}

type StoreConfig struct {
	RepoURL         string `yaml:"repoUrl" mapstructure:"repoUrl"`
	DefaultCategory string `yaml:"defaultCategory" mapstructure:"defaultCategory" validate:"required"`
	Tool            string `yaml:"tool" mapstructure:"tool" validate:"required"`
}

type AlertConfig struct {
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold" validate:"required"`
	FailOnAlert  bool    `yaml:"failOnAlert" mapstructure:"failOnAlert"`
	SlackWebhook string  `yaml:"slackWebhook" mapstructure:"slackWebhook"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Size    int  `yaml:"size" mapstructure:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Store       StoreConfig   `yaml:"store" mapstructure:"store"`
	WebServer   Server        `yaml:"webServer" mapstructure:"webServer"`
	Persistence Persistence   `yaml:"persistence" mapstructure:"persistence"`
	Alert       AlertConfig   `yaml:"alert" mapstructure:"alert"`
	Logger      LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Cache       CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Metrics     MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}
