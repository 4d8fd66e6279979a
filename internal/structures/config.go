package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,sqlite"`
	Dir          string        `yaml:"dir" validate:"required"`
	Key          string        `yaml:"key" validate:"required"`
	QuotaBytes   int64         `yaml:"quotaBytes" validate:"required"`
	Compress     bool          `yaml:"compress"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type GatewayConfig struct {
	ApiKey             string        `yaml:"apiKey"`
	BaseURL            string        `yaml:"baseUrl"`
	TextModel          string        `yaml:"textModel" validate:"required"`
	ImageModel         string        `yaml:"imageModel" validate:"required"`
	FallbackImageModel string        `yaml:"fallbackImageModel" validate:"required"`
	VideoModel         string        `yaml:"videoModel" validate:"required"`
	Timeout            time.Duration `yaml:"timeout" validate:"required"`
	VideoTimeout       time.Duration `yaml:"videoTimeout" validate:"required"`
	PollInterval       time.Duration `yaml:"pollInterval" validate:"required"`
	MediaDir           string        `yaml:"mediaDir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Gateway     GatewayConfig `yaml:"gateway"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
