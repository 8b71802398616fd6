package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const POST_LIFECYCLE_QUEUE = "post.lifecycle"

type MQConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	mu       sync.Mutex
	declared map[string]struct{}
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &MQConn{
		conn:     conn,
		ch:       ch,
		declared: make(map[string]struct{}),
	}, nil
}

func (m *MQConn) declare(queue string) error {
	if _, ok := m.declared[queue]; ok {
		return nil
	}
	if _, err := m.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	m.declared[queue] = struct{}{}
	return nil
}

// Publish sends body to queue as a persistent message. Channels are not
// safe for concurrent use, so publishes are serialized.
func (m *MQConn) Publish(ctx context.Context, queue string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.declare(queue); err != nil {
		return err
	}

	return m.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (m *MQConn) PublishJSON(ctx context.Context, queue string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.Publish(ctx, queue, body)
}

func (m *MQConn) Close() error {
	if err := m.ch.Close(); err != nil {
		m.conn.Close()
		return err
	}
	return m.conn.Close()
}
