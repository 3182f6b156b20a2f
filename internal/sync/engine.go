package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"skikurs-sync/internal/mapper"
	"skikurs-sync/internal/models"
	"skikurs-sync/internal/notify"
	"skikurs-sync/internal/sheets"
)

// Store is the tabular store the engine reconciles against.
type Store interface {
	ListTabs(ctx context.Context, key string) ([]string, error)
	ReadAll(ctx context.Context, key, tab string) ([][]interface{}, error)
	BatchUpdate(ctx context.Context, key, tab string, updates []sheets.Update) error
	ClearRange(ctx context.Context, key, tab, a1 string) error
}

// Renderer produces the notification bodies.
type Renderer interface {
	Registration(models.Registration) (notify.Message, error)
	Paid(models.Registration) (notify.Message, error)
}

// Pause between successive view writes, to stay under the store's rate
// limit.
const viewPause = 300 * time.Millisecond

// Engine runs one reconciliation pass: load and map the sources, dispatch
// due notifications, and write all derived state back. Registrations are
// never mutated; flag changes are collected in an update map and applied in
// one pass before sync-back.
type Engine struct {
	store    Store
	notifier notify.Notifier
	renderer Renderer

	now   func() time.Time
	sleep func(time.Duration)
}

func New(store Store, notifier notify.Notifier, renderer Renderer) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		renderer: renderer,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Summary is what one run did.
type Summary struct {
	Registrations     int
	Participants      int
	RegistrationMails int
	PaymentMails      int
	FailedMails       int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d registrations, %d participants, %d registration mails, %d payment mails, %d failed",
		s.Registrations, s.Participants, s.RegistrationMails, s.PaymentMails, s.FailedMails)
}

// FlagUpdate records flags that became true during a run. Flags are
// monotonic: there is no way to express a downgrade.
type FlagUpdate struct {
	RegistrationMailSent bool
	PaymentMailSent      bool
}

// Run executes one full reconciliation. A failed run is safe to re-invoke:
// mail flags only advance after a confirmed send, and the store reflects
// only the batched writes that completed.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	tables, err := mapper.Load(ctx, e.store)
	if err != nil {
		return Summary{}, fmt.Errorf("load sources: %w", err)
	}
	it, err := mapper.NewIter(tables)
	if err != nil {
		return Summary{}, fmt.Errorf("map sources: %w", err)
	}
	regs, err := mapper.Collect(it)
	if err != nil {
		return Summary{}, fmt.Errorf("map sources: %w", err)
	}

	updates, summary := e.Notify(ctx, regs)
	regs = Apply(regs, updates)

	summary.Registrations = len(regs)
	for _, r := range regs {
		summary.Participants += len(r.Participants)
	}

	if err := e.syncBack(ctx, regs); err != nil {
		return summary, err
	}
	return summary, nil
}

// Notify dispatches the notifications that are due and returns the flag
// updates for confirmed sends. A registration confirmation is due while its
// flag is unset; a payment confirmation additionally requires the payment to
// be marked paid. One registration's failure never blocks the others: the
// error is logged, its flag stays unset, and a later run retries.
func (e *Engine) Notify(ctx context.Context, regs []models.Registration) (map[int]FlagUpdate, Summary) {
	updates := map[int]FlagUpdate{}
	var s Summary

	for _, r := range regs {
		var u FlagUpdate
		if !r.RegistrationMailSent {
			if err := e.send(ctx, r, e.renderer.Registration); err != nil {
				log.Printf("registration %d: registration mail: %v", r.ID, err)
				s.FailedMails++
			} else {
				u.RegistrationMailSent = true
				s.RegistrationMails++
			}
		}
		if !r.PaymentMailSent && r.Payment.Paid {
			if err := e.send(ctx, r, e.renderer.Paid); err != nil {
				log.Printf("registration %d: payment mail: %v", r.ID, err)
				s.FailedMails++
			} else {
				u.PaymentMailSent = true
				s.PaymentMails++
			}
		}
		if u != (FlagUpdate{}) {
			updates[r.ID] = u
		}
	}
	return updates, s
}

func (e *Engine) send(ctx context.Context, r models.Registration, render func(models.Registration) (notify.Message, error)) error {
	msg, err := render(r)
	if err != nil {
		return err
	}
	return e.notifier.Send(ctx, r.Contact.Mail, msg)
}

// Apply merges flag updates into a fresh registration slice. Updates only
// set flags, so an already-true flag can never be cleared.
func Apply(regs []models.Registration, updates map[int]FlagUpdate) []models.Registration {
	out := make([]models.Registration, len(regs))
	for i, r := range regs {
		if u, ok := updates[r.ID]; ok {
			if u.RegistrationMailSent {
				r.RegistrationMailSent = true
			}
			if u.PaymentMailSent {
				r.PaymentMailSent = true
			}
		}
		out[i] = r
	}
	return out
}

// syncBack writes every derived view, pausing between writes. A failing view
// aborts the remaining ones; views already written stay written (there is no
// cross-view transactionality).
func (e *Engine) syncBack(ctx context.Context, regs []models.Registration) error {
	steps := []struct {
		name string
		fn   func(context.Context, []models.Registration) error
	}{
		{"overview view", e.dumpOverview},
		{"paid view", e.dumpPaid},
		{"member view", e.dumpMembers},
		{"zwergel view", e.dumpZwergel},
		{"course view", e.dumpCourses},
		{"mail flags", e.flushFlags},
	}
	for i, step := range steps {
		if i > 0 {
			e.sleep(viewPause)
		}
		if err := step.fn(ctx, regs); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
