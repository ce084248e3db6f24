package interfaces

import (
	"context"
	"time"
)

// PubSubClientInterface wraps the Pub/Sub client so consumers can be built
// against a mock in tests.
type PubSubClientInterface interface {
	Subscription(subscription string) SubscriberInterface
	Close() error
}

type SubscriberInterface interface {
	Receive(ctx context.Context, f func(ctx context.Context, msg MessageInterface)) error
	SetMaxExtension(d time.Duration)
}

type MessageInterface interface {
	Data() []byte
	Ack()
	Nack()
}
