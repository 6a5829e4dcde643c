package config

import (
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	DatabasePath string

	LogFilename   string
	LogLevel      string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// Load reads pong.properties from the working directory. Every key has a
// default, so a missing config file is fine. PORT from the environment wins
// over the file, matching how the server is deployed.
func Load() *Config {
	viper.SetConfigName("pong")
	viper.SetConfigType("properties")
	viper.AddConfigPath("./")

	viper.SetDefault("port", "8080")
	viper.SetDefault("databasePath", "pong.db")
	viper.SetDefault("logFilename", "pong.log")
	viper.SetDefault("logLevel", "Info")
	viper.SetDefault("logMaxSize", 10)
	viper.SetDefault("logMaxBackups", 3)
	viper.SetDefault("logMaxAge", 28)
	viper.SetDefault("logCompress", true)

	_ = viper.ReadInConfig()

	cfg := &Config{
		Port:          cast.ToString(viper.Get("port")),
		DatabasePath:  cast.ToString(viper.Get("databasePath")),
		LogFilename:   cast.ToString(viper.Get("logFilename")),
		LogLevel:      cast.ToString(viper.Get("logLevel")),
		LogMaxSize:    cast.ToInt(viper.Get("logMaxSize")),
		LogMaxBackups: cast.ToInt(viper.Get("logMaxBackups")),
		LogMaxAge:     cast.ToInt(viper.Get("logMaxAge")),
		LogCompress:   cast.ToBool(viper.Get("logCompress")),
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	return cfg
}
