package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeOrders Exchange = "shelfwise.orders"
)

// Queues — имена очередей.
const (
	QueueOrdersPlaced Queue = "orders.placed"
)

// Routing keys.
const (
	RoutingKeyPlaced RoutingKey = "placed"
)

// SetupTopology объявляет обменники, очереди и привязки.
// Идемпотентна: повторный вызов на существующей топологии безвреден.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeOrders), // name
			"direct",               // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeOrders, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueOrdersPlaced), // name
			true,                      // durable
			false,                     // delete when unused
			false,                     // exclusive
			false,                     // no-wait
			nil,                       // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueOrdersPlaced, err)
		}

		err = ch.QueueBind(
			string(QueueOrdersPlaced), // queue name
			string(RoutingKeyPlaced),  // routing key
			string(ExchangeOrders),    // exchange
			false,                     // no-wait
			nil,                       // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueueOrdersPlaced, ExchangeOrders, err)
		}

		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Shelfwise RabbitMQ Topology:

    shelfwise.orders (direct)
    └── orders.placed [routing: placed]
            Consumer: supplier integration (external)
  `
}
