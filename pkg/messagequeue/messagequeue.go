package messagequeue

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Close() error
}

// Noop is a MessageQueue that drops every message. It is used when no broker
// is configured.
type Noop struct{}

// Publish discards body.
func (Noop) Publish(string, []byte) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
