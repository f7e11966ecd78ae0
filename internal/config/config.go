package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера мира
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Events    EventsConfig    `yaml:"events"`
}

// WorldConfig описывает генерацию мира
type WorldConfig struct {
	Generator string   `yaml:"generator"` // layers | noise
	Seed      int64    `yaml:"seed"`
	Layers    []string `yaml:"layers"` // имена блоков снизу вверх
	Noise     string   `yaml:"noise"`  // perlin | simplex
}

// StorageConfig описывает хранилище мира
type StorageConfig struct {
	Backend  string `yaml:"backend"` // file | badger | redis
	Path     string `yaml:"path"`
	AutoLoad bool   `yaml:"autoload"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
}

// EventsConfig описывает шину событий мира
type EventsConfig struct {
	Backend   string        `yaml:"backend"` // none | memory | jetstream
	URL       string        `yaml:"url"`
	Stream    string        `yaml:"stream"`
	Retention time.Duration `yaml:"retention"`
	Buffer    int           `yaml:"buffer"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Generator: "layers",
			Seed:      1,
			Layers:    []string{"bedrock", "stone", "stone", "stone", "dirt", "grass"},
			Noise:     "perlin",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data/world.dat",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-world",
		},
		Events: EventsConfig{
			Backend:   "memory",
			URL:       "nats://127.0.0.1:4222",
			Stream:    "WORLD",
			Retention: 24 * time.Hour,
			Buffer:    1024,
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "VOXEL_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG; если он не задан,
// возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	return cfg, nil
}
