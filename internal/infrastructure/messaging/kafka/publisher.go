// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order lifecycle events to a Kafka topic, keyed by
// order id so the events of one order stay in one partition.
type OrderPublisher struct {
	writer  messageWriter
	timeout time.Duration
	log     logrus.FieldLogger
	closed  atomic.Bool
}

// NewOrderPublisher returns a Kafka publisher, or order.NopPublisher when no
// brokers are configured.
func NewOrderPublisher(cfg *config.Config, log logrus.FieldLogger) (order.EventPublisher, func() error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("kafka brokers not configured, order events are disabled")
		return order.NopPublisher{}, func() error { return nil }
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.Kafka.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  cfg.Kafka.MaxAttempts,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Errorf("kafka writer: "+msg, args...)
		}),
	}

	p := newOrderPublisher(writer, cfg.Kafka.WriteTimeout, log)
	log.WithFields(logrus.Fields{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic}).Info("kafka order publisher ready")
	return p, p.Close
}

func newOrderPublisher(w messageWriter, timeout time.Duration, log logrus.FieldLogger) *OrderPublisher {
	return &OrderPublisher{writer: w, timeout: timeout, log: log}
}

// Publish implements order.EventPublisher
func (p *OrderPublisher) Publish(ctx context.Context, event order.Event) error {
	if p.closed.Load() {
		return fmt.Errorf("order publisher is closed")
	}

	msg, err := toMessage(event)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.log.WithFields(logrus.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
	}).Debug("order event published")
	return nil
}

// Close flushes pending messages and closes the writer
func (p *OrderPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func toMessage(event order.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode order event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}
