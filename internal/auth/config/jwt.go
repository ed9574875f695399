package config

import "time"

// JWTConfig содержит ключи, сроки жизни токенов и параметры хэширования паролей.
// Ключи обязательны и должны различаться.
type JWTConfig struct {
	AccessSecret    string        `yaml:"access_secret" env:"AUTH_JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret   string        `yaml:"refresh_secret" env:"AUTH_JWT_REFRESH_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"AUTH_JWT_ACCESS_TOKEN_TTL" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_JWT_REFRESH_TOKEN_TTL" env-default:"168h"`
	BCryptCost      int           `yaml:"bcrypt_cost" env:"AUTH_JWT_BCRYPT_COST" env-default:"10"`
	HashConcurrency int           `yaml:"hash_concurrency" env:"AUTH_JWT_HASH_CONCURRENCY" env-default:"0"`
}
