package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange — общий exchange уведомлений клуба.
const Exchange = "notifications"

// Маршруты сообщений.
const (
	RouteReceipt  = "receipt"  // квитанции об оплате
	RouteReminder = "reminder" // напоминания об истечении членства
)

// Очереди уведомлений.
const (
	QueueReceipts  = "payment_receipts"
	QueueReminders = "membership_reminders"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// DefaultQueues — очереди, которые разворачиваются при старте.
func DefaultQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueReceipts, RoutingKey: RouteReceipt},
		{QueueName: QueueReminders, RoutingKey: RouteReminder},
	}
}

// SetupChannel открывает канал, объявляет exchange и связывает очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
