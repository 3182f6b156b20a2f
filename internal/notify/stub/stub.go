package stub

import (
	"context"
	"log"

	"skikurs-sync/internal/notify"
)

// Notifier only logs what would have been sent. Used for dry runs against
// live spreadsheets.
type Notifier struct{}

func New() *Notifier { return &Notifier{} }

func (n *Notifier) Name() string { return "stub" }

func (n *Notifier) Send(ctx context.Context, to string, msg notify.Message) error {
	log.Printf("stub mail to %s: %s (%d bytes)", to, msg.Subject, len(msg.Body))
	return nil
}
