package config

import (
	"net"
	"strconv"
	"time"

	"authgate/pkg/db/redis"
)

// RedisConfig содержит настройки Redis. Используется только при AUTH_SESSION_BACKEND=redis.
type RedisConfig struct {
	Host        string        `yaml:"host" env:"AUTH_REDIS_HOST" env-default:"localhost"`
	Port        int           `yaml:"port" env:"AUTH_REDIS_PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"AUTH_REDIS_PASSWORD" env-default:""`
	DB          int           `yaml:"db" env:"AUTH_REDIS_DB" env-default:"0"`
	PoolSize    int           `yaml:"pool_size" env:"AUTH_REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"AUTH_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	IOTimeout   time.Duration `yaml:"io_timeout" env:"AUTH_REDIS_IO_TIMEOUT" env-default:"3s"`
	KeyPrefix   string        `yaml:"key_prefix" env:"AUTH_REDIS_KEY_PREFIX" env-default:"authgate:session"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientConfig возвращает параметры клиента.
func (c *RedisConfig) ClientConfig() redis.Config {
	return redis.Config{
		Addr:        c.GetAddress(),
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
		IOTimeout:   c.IOTimeout,
	}
}
