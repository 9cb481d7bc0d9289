// Package journal defines the diary entry domain: the fixed emotion set,
// validation of new entries and the thought-flow rendering.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/errors"
)

// DateFormat is the calendar date format used throughout the application.
const DateFormat = "2006-01-02"

// Intensity bounds for an entry, inclusive.
const (
	MinIntensity = 0
	MaxIntensity = 10
)

// EmotionOther is the catch-all label of the emotion set.
const EmotionOther = "other"

// Emotions is the closed set of emotion labels an entry may carry.
var Emotions = []string{
	"joy",
	"relief",
	"anger",
	"anxiety",
	"sadness",
	"fatigue",
	"impatience",
	"excitement",
	"numbness",
	EmotionOther,
}

// IsValidEmotion reports whether label is a member of the emotion set.
func IsValidEmotion(label string) bool {
	for _, e := range Emotions {
		if e == label {
			return true
		}
	}
	return false
}

// NewEntry is the user supplied payload for creating an entry.
type NewEntry struct {
	EntryDate      string `json:"entry_date"`
	Event          string `json:"event"`
	Emotion        string `json:"emotion"`
	Intensity      int    `json:"intensity"`
	Interpretation string `json:"interpretation"`
	Desire         string `json:"desire"`
	NextAction     string `json:"next_action"`
}

// Validate checks a new entry payload and converts it into a persistable
// record. All free text is trimmed; empty string and absent are equivalent
// for the optional fields. Validation failures are user-correctable and are
// rejected before any store call.
func Validate(in *NewEntry) (*datastore.Entry, error) {
	event := strings.TrimSpace(in.Event)
	if event == "" {
		return nil, errors.Newf("event must not be empty").
			Component("journal").
			Category(errors.CategoryValidation).
			Build()
	}

	if !IsValidEmotion(in.Emotion) {
		return nil, errors.Newf("unknown emotion label: %q", in.Emotion).
			Component("journal").
			Category(errors.CategoryValidation).
			Context("emotion", in.Emotion).
			Build()
	}

	if in.Intensity < MinIntensity || in.Intensity > MaxIntensity {
		return nil, errors.Newf("intensity %d out of range [%d, %d]", in.Intensity, MinIntensity, MaxIntensity).
			Component("journal").
			Category(errors.CategoryValidation).
			Context("intensity", in.Intensity).
			Build()
	}

	entryDate := strings.TrimSpace(in.EntryDate)
	if entryDate == "" {
		return nil, errors.Newf("entry date must not be empty").
			Component("journal").
			Category(errors.CategoryValidation).
			Build()
	}
	if _, err := time.Parse(DateFormat, entryDate); err != nil {
		return nil, errors.New(fmt.Errorf("invalid entry date %q: %w", entryDate, err)).
			Component("journal").
			Category(errors.CategoryValidation).
			Context("entry_date", entryDate).
			Build()
	}

	return &datastore.Entry{
		EntryDate:      entryDate,
		Event:          event,
		Emotion:        in.Emotion,
		Intensity:      in.Intensity,
		Interpretation: strings.TrimSpace(in.Interpretation),
		Desire:         strings.TrimSpace(in.Desire),
		NextAction:     strings.TrimSpace(in.NextAction),
	}, nil
}

// flowSeparator joins the steps of the thought flow rendering.
const flowSeparator = "\n↓\n"

// FlowText renders an entry as its thought flow: event, emotion with
// intensity, interpretation, desire and next action, joined with a downward
// arrow. Parts with no value are skipped.
func FlowText(entry *datastore.Entry) string {
	type part struct {
		label string
		value string
	}
	parts := []part{
		{"Event", entry.Event},
		{"Emotion", fmt.Sprintf("%s (intensity %d/10)", entry.Emotion, entry.Intensity)},
		{"Interpretation", entry.Interpretation},
		{"Desire", entry.Desire},
		{"Next action", entry.NextAction},
	}
	if entry.Emotion == "" {
		parts[1].value = ""
	}

	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p.value) == "" {
			continue
		}
		rendered = append(rendered, fmt.Sprintf("%s: %s", p.label, p.value))
	}
	return strings.Join(rendered, flowSeparator)
}
