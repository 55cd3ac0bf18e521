package model

import "time"

// BudgetLimit is the monthly spending cap for one user, at most one row
// per (user, month).
type BudgetLimit struct {
	UserID    string    `json:"user_id"`
	Month     string    `json:"month"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
