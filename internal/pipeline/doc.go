// Package pipeline прогоняет пакетный цикл принятия решений по запасам.
//
// Стадии выполняются строго последовательно над одним агрегатным
// состоянием: discover → forecast → classify → replenish → price →
// resolve → commit. Стадия не начинается, пока предыдущая не прошла
// по всем сущностям.
//
// Фатальных условий два: хранилище недоступно на границе стадии и
// пустой список сущностей после discovery. Всё остальное — ошибки
// уровня сущности: они накапливаются в состоянии, прогон продолжается.
package pipeline
