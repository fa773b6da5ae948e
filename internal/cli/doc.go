// Package cli реализует инструмент командной строки Shelfwise.
//
// # Обзор
//
// CLI запускает конвейер принятия решений и инспектирует его
// результаты. Работает с PostgreSQL напрямую: отдельного API-сервера
// в системе нет.
//
// # Ключевые компоненты
//
// ## App
//
// Собранный набор зависимостей: пул соединений, репозитории и фабрика
// конвейера. App создаётся лениво, после парсинга PersistentFlags.
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: shelfwise run list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - run: start, list, show
//   - orders: list
//   - forecast: show
//
// Каждая группа создаётся через фабричную функцию (NewRunCmd и т.д.),
// принимающую appFn и outputFn — замыкания для ленивого создания
// App и Output после парсинга PersistentFlags.
package cli
