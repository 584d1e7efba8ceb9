package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/map-editor/internal/pkg/validator"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Log     LogConfig
	Events  EventsConfig
	Editor  EditorConfig
	Catalog CatalogConfig
	Session SessionConfig
}

type ServerConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`
	Env  string

	// CORSOrigins - разрешённые origin через запятую
	CORSOrigins string `validate:"required"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int `validate:"min=0"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// EventsConfig - публикация событий редактора в Redis Stream
type EventsConfig struct {
	StreamEnabled  bool
	StreamName     string `validate:"required"`
	ConsumerGroup  string `validate:"required"`
	BufferSize     int    `validate:"min=1"`
	PublishTimeout time.Duration
}

// EditorConfig - параметры редактора геометрии
type EditorConfig struct {
	MinZoom             float64 `validate:"min=0,max=24"`
	MinEditZoom         float64 `validate:"min=0,max=24"`
	InitialZoom         float64 `validate:"min=0,max=24"`
	InitialCenterLon    float64 `validate:"min=-180,max=180"`
	InitialCenterLat    float64 `validate:"min=-90,max=90"`
	SnapDistancePx      float64 `validate:"gt=0"`
	VertexPriorityKm    float64 `validate:"gt=0"`
	MinVertexSeparation int     `validate:"min=1"`
	HoverRadiusPx       float64 `validate:"gt=0"`
}

// SessionConfig - время жизни неактивных сессий редактора
type SessionConfig struct {
	TTL          time.Duration `validate:"gt=0"`
	ReapInterval time.Duration `validate:"gt=0"`
	MaxSessions  int           `validate:"min=1"`
}

type CatalogConfig struct {
	// Path - YAML каталог типов; пусто - встроенный
	Path string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return build(v)
}

// LoadFromFile читает конфигурацию из указанного env-файла
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("EVENTS_STREAM_ENABLED", false)
	v.SetDefault("EVENTS_STREAM_NAME", "stream:editor:events")
	v.SetDefault("EVENTS_CONSUMER_GROUP", "editor-audit")
	v.SetDefault("EVENTS_BUFFER_SIZE", 256)
	v.SetDefault("EVENTS_PUBLISH_TIMEOUT", 2000)

	v.SetDefault("EDITOR_MIN_ZOOM", 2)
	v.SetDefault("EDITOR_MIN_EDIT_ZOOM", 15)
	v.SetDefault("EDITOR_INITIAL_ZOOM", 16)
	v.SetDefault("EDITOR_INITIAL_CENTER_LON", 0)
	v.SetDefault("EDITOR_INITIAL_CENTER_LAT", 0)
	v.SetDefault("EDITOR_SNAP_DISTANCE_PX", 5)
	v.SetDefault("EDITOR_VERTEX_PRIORITY_KM", 0.0025)
	v.SetDefault("EDITOR_MIN_VERTEX_SEPARATION", 2)
	v.SetDefault("EDITOR_HOVER_RADIUS_PX", 5)

	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_REAP_INTERVAL", "1m")
	v.SetDefault("SESSION_MAX", 1000)
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Events: EventsConfig{
			StreamEnabled:  v.GetBool("EVENTS_STREAM_ENABLED"),
			StreamName:     v.GetString("EVENTS_STREAM_NAME"),
			ConsumerGroup:  v.GetString("EVENTS_CONSUMER_GROUP"),
			BufferSize:     v.GetInt("EVENTS_BUFFER_SIZE"),
			PublishTimeout: time.Duration(v.GetInt("EVENTS_PUBLISH_TIMEOUT")) * time.Millisecond,
		},
		Editor: EditorConfig{
			MinZoom:             v.GetFloat64("EDITOR_MIN_ZOOM"),
			MinEditZoom:         v.GetFloat64("EDITOR_MIN_EDIT_ZOOM"),
			InitialZoom:         v.GetFloat64("EDITOR_INITIAL_ZOOM"),
			InitialCenterLon:    v.GetFloat64("EDITOR_INITIAL_CENTER_LON"),
			InitialCenterLat:    v.GetFloat64("EDITOR_INITIAL_CENTER_LAT"),
			SnapDistancePx:      v.GetFloat64("EDITOR_SNAP_DISTANCE_PX"),
			VertexPriorityKm:    v.GetFloat64("EDITOR_VERTEX_PRIORITY_KM"),
			MinVertexSeparation: v.GetInt("EDITOR_MIN_VERTEX_SEPARATION"),
			HoverRadiusPx:       v.GetFloat64("EDITOR_HOVER_RADIUS_PX"),
		},
		Catalog: CatalogConfig{
			Path: v.GetString("CATALOG_PATH"),
		},
		Session: SessionConfig{
			TTL:          v.GetDuration("SESSION_TTL"),
			ReapInterval: v.GetDuration("SESSION_REAP_INTERVAL"),
			MaxSessions:  v.GetInt("SESSION_MAX"),
		},
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
