package providers

import (
	"adforge/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "AdForge"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.dir", "./data")
	v.SetDefault("persistence.key", "viral_ad_sessions_v2")
	v.SetDefault("persistence.quotaBytes", 5*1024*1024)
	v.SetDefault("persistence.compress", true)
	v.SetDefault("persistence.saveInterval", 30*time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("gateway.textModel", "gemini-2.5-flash")
	v.SetDefault("gateway.imageModel", "imagen-4.0-generate-001")
	v.SetDefault("gateway.fallbackImageModel", "gemini-2.5-flash-image")
	v.SetDefault("gateway.videoModel", "veo-3.1-fast-generate-preview")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.videoTimeout", 10*time.Minute)
	v.SetDefault("gateway.pollInterval", 5*time.Second)
	v.SetDefault("gateway.mediaDir", "./data/media")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 60)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "ADFORGE_LOG_LEVEL")
	v.BindEnv("persistence.driver", "ADFORGE_STORAGE_DRIVER")
	v.BindEnv("persistence.dir", "ADFORGE_STORAGE_DIR")
	v.BindEnv("persistence.quotaBytes", "ADFORGE_STORAGE_QUOTA")
	v.BindEnv("gateway.apiKey", "ADFORGE_API_KEY", "GEMINI_API_KEY", "API_KEY")
	v.BindEnv("cache.enabled", "ADFORGE_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "ADFORGE_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
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

// ReloadApiKey re-reads only the gateway credential from the config file and
// the environment. Used when the backend rejects the current key.
func ReloadApiKey(conf *structures.Config) (string, error) {
	v := viper.New()
	v.SetConfigFile(conf.Path)
	v.SetConfigType("yaml")
	v.BindEnv("gateway.apiKey", "ADFORGE_API_KEY", "GEMINI_API_KEY", "API_KEY")
	if conf.Path != "" {
		if err := v.ReadInConfig(); err != nil {
			return "", err
		}
	}
	key := v.GetString("gateway.apiKey")
	if key == "" {
		return "", fmt.Errorf("no gateway api key configured")
	}
	return key, nil
}
