package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus — статус заказа на пополнение.
//
// Жизненный цикл:
//
//	Proposed → Placed → Confirmed → Shipped → Delivered
//	                  ↘ Cancelled (из любого нефинального)
//
// Конвейер создаёт заказы сразу в статусе Placed; Proposed оставлен
// в перечислении для внешних процессов, заводящих заказы вручную.
type OrderStatus string

const (
	OrderStatusProposed  OrderStatus = "Proposed"
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsTerminal возвращает true, если статус финальный.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order — персистентный заказ на пополнение.
//
// Таблица orders append-only: стадия фиксации только добавляет строки,
// обновление статусов — забота внешних процессов.
type Order struct {
	// ID — идентификатор, назначается при создании.
	ID uuid.UUID `json:"id"`

	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// QuantityOrdered — заказанное количество, > 0.
	QuantityOrdered int `json:"quantity_ordered"`

	// OrderDate — время размещения заказа.
	OrderDate time.Time `json:"order_date"`

	// ExpectedDeliveryDate — OrderDate + срок поставки.
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`

	// Status — текущий статус заказа.
	Status OrderStatus `json:"status"`
}
