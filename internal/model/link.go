package model

import "time"

// Link is a single tracking link. The slug is the short public
// identifier embedded in tracking URLs; it is immutable after creation.
type Link struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
