package repo

import "errors"

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД. Для конвейера это
	// несмертельная, привязанная к сущности ситуация (DataMissing).
	ErrNotFound = errors.New("not found")
)
