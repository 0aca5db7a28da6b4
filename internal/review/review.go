// Package review owns the customer-review collection and its state
// transitions: pending on creation, replied after approval, pending again
// after a reopen.
package review

import "fmt"

// Source identifies where a review was written.
type Source string

const (
	SourceGoogle      Source = "Google"
	SourceTripAdvisor Source = "TripAdvisor"
	SourceTheFork     Source = "TheFork"
	SourceManual      Source = "Manual"
)

// ValidSource reports whether s is one of the four known platforms.
func ValidSource(s Source) bool {
	switch s {
	case SourceGoogle, SourceTripAdvisor, SourceTheFork, SourceManual:
		return true
	}
	return false
}

// Status is the lifecycle state of a review.
type Status string

const (
	StatusPending Status = "pending"
	StatusReplied Status = "replied"
)

// Review is one unit of customer feedback, owned exclusively by its tenant's
// workspace. The collection is append-only; mutations are in-place status and
// field edits, never hard deletes.
type Review struct {
	ID     string `json:"id"`
	Source Source `json:"source"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	Status Status `json:"status"`
	Reply  string `json:"reply,omitempty"`
}

func validate(author, text string, rating int) error {
	if author == "" {
		return fmt.Errorf("review author must not be empty")
	}
	if text == "" {
		return fmt.Errorf("review text must not be empty")
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("review rating %d out of range 1-5", rating)
	}
	return nil
}
