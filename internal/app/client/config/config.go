package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".tabelkeeper"
	defaultSyncInterval  = 30
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	ServerAddress string `mapstructure:"server_address"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	DataPath      string `mapstructure:"data_path"`
	DeviceID      string `mapstructure:"device_id"`
	PINPath       string `mapstructure:"pin_path"`
	SessionPath   string `mapstructure:"session_path"`
	SyncInterval  int    `mapstructure:"sync_interval_seconds"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Пробуем найти .env в родительской директории
		envPath = "../.env"
	}

	// Загружаем .env файл если существует
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", defaultSyncInterval)
	viper.SetDefault("ENABLE_TLS", false)

	// Получаем домашнюю директорию пользователя
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Вычисляем пути для хранения данных
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	// Создаем директории если их нет
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	config := &Config{
		Env:           viper.GetString("APP_ENV"),
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		ConfigDir:     configDir,
		DataPath:      filepath.Join(configDir, "attendance.db"),
		DeviceID:      loadDeviceID(configDir),
		PINPath:       filepath.Join(configDir, "admin.pin"),
		SessionPath:   filepath.Join(configDir, "admin.session"),
		SyncInterval:  viper.GetInt("SYNC_INTERVAL_SECONDS"),
		EnableTLS:     viper.GetBool("ENABLE_TLS"),
	}

	// Валидация конфигурации
	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	return config
}

// loadDeviceID читает идентификатор устройства из директории конфигурации.
// При первом запуске идентификатор генерируется и сохраняется: у каждого
// киоска он свой и не меняется между запусками.
func loadDeviceID(configDir string) string {
	idPath := filepath.Join(configDir, "device_id")

	if data, err := os.ReadFile(idPath); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "kiosk-unknown"
	}
	id := "kiosk-" + hex.EncodeToString(buf)

	if err := os.WriteFile(idPath, []byte(id+"\n"), 0600); err != nil {
		fmt.Printf("Ошибка сохранения идентификатора устройства: %v\n", err)
	}

	return id
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.DeviceID == "" {
		return fmt.Errorf("device_id не может быть пустым")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
