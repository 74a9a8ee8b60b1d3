package escalation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestThresholdDays(t *testing.T) {
	tests := []struct {
		priority string
		want     int
	}{
		{"Critical", 3},
		{"High", 7},
		{"Medium", 10},
		{"Low", 15},
		{"CRITICAL", 3},
		{"unknown", 15},
		{"", 15},
	}

	for _, tt := range tests {
		if got := ThresholdDays(tt.priority); got != tt.want {
			t.Errorf("ThresholdDays(%q) = %d, want %d", tt.priority, got, tt.want)
		}
	}
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority string
		age      time.Duration
		want     bool
	}{
		{"critical at threshold", "Critical", 3 * 24 * time.Hour, true},
		{"critical just under", "Critical", 3*24*time.Hour - time.Hour, false},
		{"high overdue", "High", 8 * 24 * time.Hour, true},
		{"medium fresh", "Medium", 24 * time.Hour, false},
		{"low at threshold", "Low", 15 * 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Due(tt.priority, now.Add(-tt.age), now); got != tt.want {
				t.Errorf("Due = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeEscStore{candidates: []Candidate{
		{ID: "c-1", Number: "CMP-00001", Title: "Old critical", Priority: "Critical",
			CreatorID: "u-1", CreatedAt: now.Add(-4 * 24 * time.Hour)},
		{ID: "c-2", Number: "CMP-00002", Title: "Fresh critical", Priority: "Critical",
			CreatorID: "u-2", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "c-3", Number: "CMP-00003", Title: "Old low", Priority: "Low",
			CreatorID: "u-3", CreatedAt: now.Add(-20 * 24 * time.Hour)},
	}}
	w := NewWorker(store, time.Hour, nil)
	w.now = func() time.Time { return now }

	n, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 escalations, got %d", n)
	}
	if len(store.escalated) != 2 {
		t.Fatalf("expected 2 store calls, got %d", len(store.escalated))
	}
	if store.escalated[0].ID != "c-1" || store.escalated[1].ID != "c-3" {
		t.Errorf("unexpected escalation set %+v", store.escalated)
	}
	if !strings.Contains(store.messages[0], "3-day") {
		t.Errorf("expected threshold in message, got %q", store.messages[0])
	}
}

func TestSweep_EmailsCreatorOfEscalatedComplaint(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeEscStore{candidates: []Candidate{
		{ID: "c-1", Number: "CMP-00001", Title: "Old critical", Priority: "Critical",
			CreatorID: "u-1", CreatorEmail: "sam@example.com", CreatedAt: now.Add(-4 * 24 * time.Hour)},
		{ID: "c-2", Number: "CMP-00002", Title: "Hidden", Priority: "Critical",
			CreatorID: "u-2", CreatorEmail: "vic@example.com", Anonymous: true, CreatedAt: now.Add(-4 * 24 * time.Hour)},
	}}
	mailer := &fakeMailer{}
	w := NewWorker(store, time.Hour, mailer)
	w.now = func() time.Time { return now }

	if _, err := w.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	m := mailer.sent[0]
	if m.to != "sam@example.com" {
		t.Errorf("expected email to creator, got %q", m.to)
	}
	if !strings.Contains(m.subject, "CMP-00001") || !strings.Contains(m.body, "Priority: Critical") {
		t.Errorf("unexpected email content: subject %q body %q", m.subject, m.body)
	}
}

func TestSweep_EmailFailureDoesNotFailSweep(t *testing.T) {
	now := time.Now()
	store := &fakeEscStore{candidates: []Candidate{
		{ID: "c-1", Priority: "Critical", CreatorID: "u-1", CreatorEmail: "sam@example.com",
			CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}}
	mailer := &fakeMailer{err: errors.New("connection refused")}
	w := NewWorker(store, time.Hour, mailer)

	n, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("expected send failure absorbed, got %v", err)
	}
	if n != 1 {
		t.Errorf("expected escalation counted despite email failure, got %d", n)
	}
}

func TestSweep_SkipsConcurrentlyEscalated(t *testing.T) {
	now := time.Now()
	store := &fakeEscStore{
		candidates: []Candidate{
			{ID: "c-1", Priority: "Critical", CreatedAt: now.Add(-10 * 24 * time.Hour)},
		},
		lost: true,
	}
	w := NewWorker(store, time.Hour, nil)

	n, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 escalations when the row was taken, got %d", n)
	}
}

func TestSweep_ContinuesPastFailure(t *testing.T) {
	now := time.Now()
	store := &fakeEscStore{
		candidates: []Candidate{
			{ID: "c-1", Priority: "Critical", CreatedAt: now.Add(-10 * 24 * time.Hour)},
			{ID: "c-2", Priority: "Critical", CreatedAt: now.Add(-10 * 24 * time.Hour)},
		},
		failIDs: map[string]bool{"c-1": true},
	}
	w := NewWorker(store, time.Hour, nil)

	n, err := w.Sweep(context.Background())
	if err == nil {
		t.Fatalf("expected error surfaced")
	}
	if n != 1 {
		t.Errorf("expected the second candidate escalated, got %d", n)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := &fakeEscStore{}
	w := NewWorker(store, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeEscStore struct {
	candidates []Candidate
	escalated  []Candidate
	messages   []string
	lost       bool
	failIDs    map[string]bool
}

func (f *fakeEscStore) Candidates(ctx context.Context) ([]Candidate, error) {
	return f.candidates, nil
}

func (f *fakeEscStore) EscalateOne(ctx context.Context, c Candidate, message string) (bool, error) {
	if f.failIDs[c.ID] {
		return false, errors.New("db down")
	}
	if f.lost {
		return false, nil
	}
	f.escalated = append(f.escalated, c)
	f.messages = append(f.messages, message)
	return true, nil
}
