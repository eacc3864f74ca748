package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	DB     DBConfig
	Server ServerConfig
	Logger LoggerConfig
}

type DBConfig struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type ServerConfig struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type LoggerConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad загружает конфигурацию сервера из .env и переменных окружения
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("RUN_ADDRESS", "localhost:8080")
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", EnvLocal)

	config := Config{
		Env: viper.GetString("APP_ENV"),
		DB: DBConfig{
			DatabaseURI: viper.GetString("DATABASE_URI"),
			Migrations:  viper.GetString("MIGRATIONS_PATH"),
		},
		Server: ServerConfig{RunAddress: viper.GetString("RUN_ADDRESS")},
		Logger: LoggerConfig{LogLevel: viper.GetString("LOG_LEVEL")},
	}

	return &config
}
