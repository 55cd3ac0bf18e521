package model

import "time"

// Notification kind constants, used as dedupe ledger keys.
const (
	NotifKindDeadline       = "deadline"
	NotifKindBudgetWeekly   = "budget_weekly"
	NotifKindBudgetExceeded = "budget_exceeded"
	NotifKindBudgetHalf     = "budget_half"
)

type PushSubscription struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationPreference is one row per user. A user without a row gets
// both notification classes (default opt-in).
type NotificationPreference struct {
	UserID         string    `json:"user_id"`
	NotifyDeadline bool      `json:"notify_deadline"`
	NotifyBudget   bool      `json:"notify_budget"`
	UpdatedAt      time.Time `json:"updated_at"`
}
