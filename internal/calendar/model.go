// Package calendar stores free-text notes attached to calendar dates.
package calendar

import "time"

// Note is the text kept for one date. At most one note exists per date.
type Note struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch lists the fields an update changes.
type Patch struct {
	Date *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Text *string `json:"text,omitempty"`
}
