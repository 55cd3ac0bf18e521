package store

import (
	"database/sql"
	"fmt"

	"github.com/tmori/wishnote/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// SetLimit upserts the spending cap for a (user, month) pair.
func (s *BudgetStore) SetLimit(userID, month string, amount float64) error {
	_, err := s.db.Exec(
		`INSERT INTO budget_limits (user_id, month, amount)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, month) DO UPDATE SET amount = excluded.amount`,
		userID, month, amount,
	)
	if err != nil {
		return fmt.Errorf("set budget limit: %w", err)
	}
	return nil
}

func (s *BudgetStore) GetLimit(userID, month string) (*model.BudgetLimit, error) {
	var limit model.BudgetLimit
	err := s.db.QueryRow(
		`SELECT user_id, month, amount, created_at FROM budget_limits WHERE user_id = ? AND month = ?`,
		userID, month,
	).Scan(&limit.UserID, &limit.Month, &limit.Amount, &limit.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget limit: %w", err)
	}
	return &limit, nil
}

// ListByMonth returns every user's budget limit for the given month.
func (s *BudgetStore) ListByMonth(month string) ([]model.BudgetLimit, error) {
	rows, err := s.db.Query(
		`SELECT user_id, month, amount, created_at FROM budget_limits WHERE month = ? ORDER BY user_id`,
		month,
	)
	if err != nil {
		return nil, fmt.Errorf("list budget limits: %w", err)
	}
	defer rows.Close()

	var limits []model.BudgetLimit
	for rows.Next() {
		var l model.BudgetLimit
		if err := rows.Scan(&l.UserID, &l.Month, &l.Amount, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget limit: %w", err)
		}
		limits = append(limits, l)
	}
	return limits, rows.Err()
}
