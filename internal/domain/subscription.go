package domain

import "time"

// SubscriptionStatus enumerates ledger lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is the day-based service credit ledger for a client.
// At most one subscription exists per client. The ledger keeps
// DaysUsed + DaysRemaining == TotalDays after every operation; there
// is no automated decrement, only manual pause/resume bookkeeping.
type Subscription struct {
	ID                 string
	ClientID           string
	Status             SubscriptionStatus
	TotalDays          int
	DaysUsed           int
	DaysRemaining      int
	CurrentPeriodStart time.Time
	PausedAt           *time.Time
	ResumedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanPause reports whether a pause transition is permitted.
func (s *Subscription) CanPause() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// CanResume reports whether a resume transition is permitted.
func (s *Subscription) CanResume() bool {
	return s != nil && s.Status == SubscriptionStatusPaused
}

// Balanced reports whether the day ledger is internally consistent.
func (s *Subscription) Balanced() bool {
	if s == nil {
		return false
	}
	return s.DaysUsed >= 0 && s.DaysRemaining >= 0 && s.DaysUsed+s.DaysRemaining == s.TotalDays
}

// LowCredit reports whether the remaining balance is low enough for
// the UI to surface a warning. Display data only; nothing gates on it.
func (s *Subscription) LowCredit() bool {
	return s != nil && s.DaysRemaining <= 5
}
