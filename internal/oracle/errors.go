package oracle

import "errors"

// Ошибки советников.
var (
	// ErrOracleUnavailable — советник недоступен или вернул ошибку.
	// Вызывающий деградирует к нейтральному значению правила.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)
