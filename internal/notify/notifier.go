package notify

import "context"

// Message is one rendered notification.
type Message struct {
	Subject     string
	Body        string
	Attachments []string
}

// Notifier delivers a message to one recipient. Send either succeeds or
// returns an error; the caller decides what a failed send means for its
// bookkeeping.
type Notifier interface {
	Name() string
	Send(ctx context.Context, to string, msg Message) error
}
