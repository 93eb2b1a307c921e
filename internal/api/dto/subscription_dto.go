package dto

import (
	"time"

	"github.com/ghostflow/agency-service/internal/domain"
)

// SubscriptionResponse is the ledger view returned to clients.
// LowCredit is display data; no operation gates on it.
type SubscriptionResponse struct {
	ID                 string                    `json:"id"`
	ClientID           string                    `json:"client_id"`
	Status             domain.SubscriptionStatus `json:"status"`
	TotalDays          int                       `json:"total_days"`
	DaysUsed           int                       `json:"days_used"`
	DaysRemaining      int                       `json:"days_remaining"`
	LowCredit          bool                      `json:"low_credit"`
	CurrentPeriodStart time.Time                 `json:"current_period_start"`
	PausedAt           *time.Time                `json:"paused_at,omitempty"`
	ResumedAt          *time.Time                `json:"resumed_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// NewSubscriptionResponse maps a domain subscription.
func NewSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 sub.ID,
		ClientID:           sub.ClientID,
		Status:             sub.Status,
		TotalDays:          sub.TotalDays,
		DaysUsed:           sub.DaysUsed,
		DaysRemaining:      sub.DaysRemaining,
		LowCredit:          sub.LowCredit(),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		PausedAt:           sub.PausedAt,
		ResumedAt:          sub.ResumedAt,
		CreatedAt:          sub.CreatedAt,
		UpdatedAt:          sub.UpdatedAt,
	}
}
