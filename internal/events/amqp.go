package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationsExchange = "pos.notifications"
	OrdersExchange        = "pos.orders"
	KitchenQueue          = "kitchen.tickets"
)

// AMQPClient wraps a RabbitMQ connection + channel. Order events are
// published to a topic exchange so the kitchen worker can bind a queue
// to order.* keys; every event also goes to a fanout exchange for the
// notification subscribers.
type AMQPClient struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func DialAMQP(url string) (*AMQPClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &AMQPClient{conn: conn, ch: ch}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *AMQPClient) declare() error {
	if err := c.ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(KitchenQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(KitchenQueue, "order.*", OrdersExchange, false, nil)
}

func (c *AMQPClient) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *AMQPClient) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	}

	if strings.HasPrefix(e.Name, "order.") {
		if err := c.ch.PublishWithContext(ctx, OrdersExchange, e.Name, false, false, msg); err != nil {
			return err
		}
	}
	return c.ch.PublishWithContext(ctx, NotificationsExchange, "", false, false, msg)
}

// Consume delivers kitchen-bound order events. Used by the kitchen
// worker; prefetch bounds unacked deliveries.
func (c *AMQPClient) Consume(consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(KitchenQueue, consumer, false, false, false, false, nil)
}
