package broker

import (
	"log"

	"notebin-app/notebin/config"

	"github.com/nats-io/nats.go"
)

// Consumer subscribes to a set of subjects and exposes their messages on a
// single channel.
type Consumer struct {
	conn     *nats.Conn
	subs     []*nats.Subscription
	messages chan *nats.Msg
}

func InitConsumer(cfg config.Config, subjects []string) (*Consumer, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("notebin-consumer"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	consumer := &Consumer{
		conn:     conn,
		messages: make(chan *nats.Msg, 64),
	}

	for _, subject := range subjects {
		sub, err := conn.ChanSubscribe(subject, consumer.messages)
		if err != nil {
			consumer.Close()
			return nil, err
		}
		consumer.subs = append(consumer.subs, sub)
	}

	log.Printf("NATS consumer subscribed to %v", subjects)
	return consumer, nil
}

// GetMessageChannel returns the channel carrying messages from all
// subscribed subjects.
func (c *Consumer) GetMessageChannel() chan *nats.Msg {
	return c.messages
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe: %v", err)
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
