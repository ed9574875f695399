// Package session содержит реализации хранилища состояния сессии.
package session

import (
	"crypto/sha256"
	"encoding/hex"
)

// digest - ключ отозванного токена. Сами токены в хранилище не попадают.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
