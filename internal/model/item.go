package model

import "time"

// Item is a single wishlist entry. Price and Deadline are optional;
// Month is the "YYYY-MM" billing month the item counts against, empty
// for items parked on the someday list.
type Item struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	URL         string     `json:"url,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	Price       *float64   `json:"price"`
	Priority    int        `json:"priority"`
	Month       string     `json:"month,omitempty"`
	IsSomeday   bool       `json:"is_someday"`
	Deadline    *time.Time `json:"deadline"`
	IsPurchased bool       `json:"is_purchased"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
