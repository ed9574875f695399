package services

import "errors"

// ErrHashingFailed - bcrypt не смог построить хэш.
var ErrHashingFailed = errors.New("failed to hash password")

// ErrEmptyPassword - попытка хэшировать пустой пароль.
var ErrEmptyPassword = errors.New("password cannot be empty")

// DefaultBCryptCost - рабочий фактор по умолчанию.
const DefaultBCryptCost = 10
