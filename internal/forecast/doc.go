// Package forecast строит дневные прогнозы спроса по истории продаж.
//
// Базовая стратегия — среднее за скользящее окно; интерфейс Strategy
// оставлен точкой расширения для обученных моделей. Поверх базового
// прогноза опционально применяется мультипликативная поправка тренда
// от текстового советника; его недоступность деградирует к NONE.
package forecast
