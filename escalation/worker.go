package escalation

import (
	"context"
	"fmt"
	"log"
	"time"

	"resolveit/mail"
)

const DefaultInterval = time.Hour

// Worker runs the escalation sweep on a fixed cadence until its context is
// cancelled. A nil mailer disables email delivery.
type Worker struct {
	store    Store
	interval time.Duration
	mailer   mail.Sender
	now      func() time.Time
}

func NewWorker(store Store, interval time.Duration, mailer mail.Sender) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{store: store, interval: interval, mailer: mailer, now: time.Now}
}

// Run sweeps once immediately, then on every tick. Blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	if _, err := w.Sweep(ctx); err != nil {
		log.Printf("escalation sweep: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				log.Printf("escalation sweep: %v", err)
			}
		}
	}
}

// Sweep escalates every overdue candidate and returns how many it escalated.
// A failure on one candidate does not stop the rest.
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	candidates, err := w.store.Candidates(ctx)
	if err != nil {
		return 0, err
	}

	now := w.now()
	escalated := 0
	var firstErr error
	for _, c := range candidates {
		if !Due(c.Priority, c.CreatedAt, now) {
			continue
		}
		msg := fmt.Sprintf("Your complaint '%s' (%s) has been escalated due to exceeding the %d-day response target",
			c.Title, c.Number, ThresholdDays(c.Priority))
		ok, err := w.store.EscalateOne(ctx, c, msg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.Printf("escalate %s: %v", c.Number, err)
			continue
		}
		if ok {
			escalated++
			log.Printf("escalated complaint %s (priority %s)", c.Number, c.Priority)
			w.emailCreator(ctx, c)
		}
	}
	return escalated, firstErr
}

// emailCreator sends the escalation email after the database write committed.
// A failed send is logged and does not count against the sweep.
func (w *Worker) emailCreator(ctx context.Context, c Candidate) {
	if w.mailer == nil || c.Anonymous || c.CreatorEmail == "" {
		return
	}
	subject, body := mail.EscalationMessage(c.Number, c.Title, c.Priority)
	if err := w.mailer.Send(ctx, c.CreatorEmail, subject, body); err != nil {
		log.Printf("escalation email for %s: %v", c.Number, err)
	}
}
