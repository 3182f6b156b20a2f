package tgalert

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerter pushes run summaries to the configured admin chats. Optional: a
// nil Alerter is a no-op, so the service runs fine without a bot token.
type Alerter struct {
	bot      *tgbotapi.BotAPI
	adminIDs map[int64]bool
}

func New(token string, adminIDs map[int64]bool) (*Alerter, error) {
	if token == "" || len(adminIDs) == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Alerter{bot: bot, adminIDs: adminIDs}, nil
}

// Notify sends text to every admin. Delivery failures are logged, not
// propagated: the run result never depends on the alert channel.
func (a *Alerter) Notify(text string) {
	if a == nil {
		return
	}
	for id := range a.adminIDs {
		msg := tgbotapi.NewMessage(id, text)
		if _, err := a.bot.Send(msg); err != nil {
			log.Printf("tgalert: send to %d: %v", id, err)
		}
	}
}
