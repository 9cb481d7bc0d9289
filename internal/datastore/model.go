// model.go: defines the persisted data model for journal entries
package datastore

import "time"

// Entry represents a single journaled record. The user supplied fields are
// immutable after creation; only the weather enrichment fields may be filled
// in later by the backfill process.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EntryDate string    `gorm:"index:idx_entries_date" json:"entry_date"` // calendar date, format 2006-01-02
	Event     string    `gorm:"type:text;not null" json:"event"`
	Emotion   string    `gorm:"index:idx_entries_emotion" json:"emotion"`
	Intensity int       `json:"intensity"` // 0..10 inclusive

	Interpretation string `gorm:"type:text" json:"interpretation,omitempty"`
	Desire         string `gorm:"type:text" json:"desire,omitempty"`
	NextAction     string `gorm:"type:text" json:"next_action,omitempty"`

	// Weather enrichment for the entry's date, nil when lookup failed or
	// was unavailable at save time.
	WeatherCode *int     `json:"weather_code,omitempty"`
	TempMax     *float64 `json:"temp_max,omitempty"`
	TempMin     *float64 `json:"temp_min,omitempty"`
}
