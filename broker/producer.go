package broker

import (
	"log"

	"notebin-app/notebin/config"

	"github.com/nats-io/nats.go"
)

// Producer publishes lifecycle events to NATS. A nil Producer is valid and
// drops all publishes, so the server keeps working when NATS is unreachable.
type Producer struct {
	conn *nats.Conn
}

func InitProducer(cfg config.Config) (*Producer, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("notebin-server"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("NATS producer connected to %s", cfg.NatsURL)
	return &Producer{conn: conn}, nil
}

// Publish sends an event on the given subject. Errors are logged, not
// returned: event delivery is best-effort and never fails a request.
func (p *Producer) Publish(subject string, event Event) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Printf("Failed to encode event for subject %s: %v", subject, err)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("Failed to publish event to subject %s: %v", subject, err)
	}
}

func (p *Producer) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
