package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmori/wishnote/internal/model"
)

const itemColumns = `id, user_id, name, url, image_url, comment, price, priority, month, is_someday,
	 deadline, is_purchased, purchased_at, deleted, deleted_at, created_at, updated_at`

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Create inserts a new wishlist item, assigning its ID and timestamps.
func (s *ItemStore) Create(item *model.Item) error {
	item.ID = uuid.NewString()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO wishlist_items (id, user_id, name, url, image_url, comment, price, priority, month, is_someday,
		  deadline, is_purchased, purchased_at, deleted, deleted_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Name, item.URL, item.ImageURL, item.Comment,
		item.Price, item.Priority, item.Month, boolToInt(item.IsSomeday),
		item.Deadline, boolToInt(item.IsPurchased), item.PurchasedAt,
		boolToInt(item.Deleted), item.DeletedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *ItemStore) GetByID(id string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM wishlist_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// MarkPurchased flags the item purchased at the given time.
func (s *ItemStore) MarkPurchased(id string, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE wishlist_items SET is_purchased = 1, purchased_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark item purchased: %w", err)
	}
	return nil
}

// SoftDelete moves the item to the trash. The item stays in storage until
// PurgeDeletedBefore removes it.
func (s *ItemStore) SoftDelete(id string, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE wishlist_items SET deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	return nil
}

// Restore brings a trashed item back.
func (s *ItemStore) Restore(id string) error {
	_, err := s.db.Exec(
		`UPDATE wishlist_items SET deleted = 0, deleted_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("restore item: %w", err)
	}
	return nil
}

// ListDueBetween returns non-purchased, non-deleted items whose deadline
// falls within [from, to] inclusive.
func (s *ItemStore) ListDueBetween(from, to time.Time) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemColumns+` FROM wishlist_items
		 WHERE deadline IS NOT NULL AND deadline >= ? AND deadline <= ?
		   AND is_purchased = 0 AND deleted = 0
		 ORDER BY deadline ASC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListByMonth returns all non-deleted items assigned to the given
// "YYYY-MM" month, purchased or not.
func (s *ItemStore) ListByMonth(month string) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemColumns+` FROM wishlist_items
		 WHERE month = ? AND deleted = 0
		 ORDER BY created_at ASC`,
		month,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by month: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// MonthlySpending sums item prices per user for the given month over
// non-deleted items. NULL prices count as zero.
func (s *ItemStore) MonthlySpending(month string) (map[string]float64, error) {
	rows, err := s.db.Query(
		`SELECT user_id, COALESCE(SUM(COALESCE(price, 0)), 0)
		 FROM wishlist_items
		 WHERE month = ? AND deleted = 0
		 GROUP BY user_id`,
		month,
	)
	if err != nil {
		return nil, fmt.Errorf("monthly spending: %w", err)
	}
	defer rows.Close()

	spending := make(map[string]float64)
	for rows.Next() {
		var userID string
		var total float64
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("scan spending row: %w", err)
		}
		spending[userID] = total
	}
	return spending, rows.Err()
}

// PurgeDeletedBefore permanently removes trashed items deleted at or
// before the cutoff. Returns the number of rows removed.
func (s *ItemStore) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM wishlist_items WHERE deleted = 1 AND deleted_at IS NOT NULL AND deleted_at <= ?`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge deleted items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var item model.Item
	var isSomeday, isPurchased, deleted int
	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.URL, &item.ImageURL, &item.Comment,
		&item.Price, &item.Priority, &item.Month, &isSomeday,
		&item.Deadline, &isPurchased, &item.PurchasedAt,
		&deleted, &item.DeletedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.IsSomeday = isSomeday != 0
	item.IsPurchased = isPurchased != 0
	item.Deleted = deleted != 0
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
