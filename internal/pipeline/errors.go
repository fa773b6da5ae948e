package pipeline

import "errors"

var (
	// ErrStoreUnreachable — хранилище недоступно на границе стадии.
	// Фатальная ошибка, прогон останавливается.
	ErrStoreUnreachable = errors.New("store unreachable")

	// ErrNoEntities — после discovery не осталось ни одной сущности.
	// Фатальная ошибка, прогон останавливается.
	ErrNoEntities = errors.New("no eligible entities")
)
