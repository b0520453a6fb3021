package messaging

import (
	"fmt"
)

// ErrorSubject receives a message for every request that failed.
const ErrorSubject = "piles.errors"

// NatsPublisher publishes pile events to per-holder NATS subjects.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-holder event delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// EventSubject is the subject events about the holder with key are sent on.
func EventSubject(key string) string {
	return fmt.Sprintf("pile-%s", key)
}

// Publish sends data to every holder key. All keys are attempted; the
// first error is returned.
func (p *NatsPublisher) Publish(keys []string, data []byte) error {
	var firstErr error
	for _, key := range keys {
		if err := p.server.Publish(EventSubject(key), data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("publishing to %s: %w", key, err)
		}
	}
	return firstErr
}

// PublishError sends data to ErrorSubject.
func (p *NatsPublisher) PublishError(data []byte) error {
	return p.server.Publish(ErrorSubject, data)
}
