// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//
// Типы сообщений:
//   - order.placed — конвейер разместил заказ на пополнение
//
// Потребителей внутри системы нет: очередь orders.placed читают
// внешние интеграции с поставщиками. Без настроенного брокера
// конвейер работает, публикация просто отключена.
package mq
