// Package migrations встраивает SQL-миграции в бинарник.
package migrations

import "embed"

// Auth содержит миграции схемы сервиса аутентификации в каталоге "auth".
//
//go:embed auth/*.sql
var Auth embed.FS

// AuthDir - каталог миграций внутри Auth.
const AuthDir = "auth"
