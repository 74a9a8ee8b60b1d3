// Package escalation ages complaints. A background sweep escalates any
// complaint that sat unresolved past its priority's threshold and tells the
// creator.
package escalation

import (
	"context"
	"strings"
	"time"
)

// Days a complaint may sit in NEW or UNDER_REVIEW before auto-escalation.
var thresholds = map[string]int{
	"Critical": 3,
	"High":     7,
	"Medium":   10,
	"Low":      15,
}

const defaultThresholdDays = 15

// ThresholdDays returns the escalation threshold for a priority. Unknown
// priorities get the most lenient threshold.
func ThresholdDays(priority string) int {
	for p, days := range thresholds {
		if strings.EqualFold(p, priority) {
			return days
		}
	}
	return defaultThresholdDays
}

// Due reports whether a complaint created at the given time has exceeded its
// priority's threshold.
func Due(priority string, createdAt, now time.Time) bool {
	days := int(now.Sub(createdAt).Hours() / 24)
	return days >= ThresholdDays(priority)
}

// Candidate is one complaint eligible for auto-escalation.
type Candidate struct {
	ID           string
	Number       string
	Title        string
	Priority     string
	CreatorID    string
	CreatorEmail string
	Anonymous    bool
	CreatedAt    time.Time
}

// Store is the persistence surface of the sweep. EscalateOne marks the
// complaint and writes the creator-facing notification atomically; it
// reports false when a concurrent writer got there first.
type Store interface {
	Candidates(ctx context.Context) ([]Candidate, error)
	EscalateOne(ctx context.Context, c Candidate, message string) (bool, error)
}
