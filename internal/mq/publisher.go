package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeOrderPlaced MessageType = "order.placed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedPayload — payload события о размещённом заказе.
// Потребитель: внешняя интеграция с поставщиками.
type OrderPlacedPayload struct {
	OrderID              uuid.UUID `json:"order_id"`
	ProductID            int64     `json:"product_id"`
	StoreID              int64     `json:"store_id"`
	QuantityOrdered      int       `json:"quantity_ordered"`
	OrderDate            time.Time `json:"order_date"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishOrderPlaced публикует событие о размещённом заказе.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeOrderPlaced,
		Payload: OrderPlacedPayload{
			OrderID:              order.ID,
			ProductID:            order.Key.ProductID,
			StoreID:              order.Key.StoreID,
			QuantityOrdered:      order.QuantityOrdered,
			OrderDate:            order.OrderDate,
			ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeOrders, RoutingKeyPlaced, msg)
}
