package config

import (
	"fmt"
	"time"
)

// HTTPConfig содержит настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"AUTH_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"AUTH_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"AUTH_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"AUTH_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"AUTH_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	BodyLimit    int           `yaml:"body_limit" env:"AUTH_HTTP_BODY_LIMIT" env-default:"65536"`

	// CORSAllowOrigins - список через запятую, "*" разрешает любой источник.
	CORSAllowOrigins []string `yaml:"cors_allow_origins" env:"AUTH_HTTP_CORS_ALLOW_ORIGINS" env-default:"*" env-separator:","`
}

// GetAddress возвращает адрес для HTTP сервера.
func (h *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
