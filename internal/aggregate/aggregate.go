// Package aggregate implements the read-side reporting engine: the weekly
// review rollup, next-action extraction, chart series preparation and weather
// bucketing. Every function is pure: it takes a snapshot of entries already
// loaded into memory plus an explicit reference date, reads its input and
// allocates new output. Rows that fail date coercion are dropped from the
// affected computation instead of aborting it.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/tomohiko/kokorolog/internal/datastore"
)

const dateFormat = "2006-01-02"

// Review is the rollup summary of a trailing window of entries.
// TopEmotion and AvgIntensity are nil when the window holds no entries,
// distinguishing "no data" from "zero intensity".
type Review struct {
	Since        string   `json:"since"`
	WindowDays   int      `json:"window_days"`
	DistinctDays int      `json:"distinct_days"`
	TopEmotion   *string  `json:"top_emotion"`
	AvgIntensity *float64 `json:"avg_intensity"`
}

// ActionItem is one pending next action surfaced from an entry.
type ActionItem struct {
	ID         uint   `json:"id"`
	EntryDate  string `json:"entry_date"`
	Emotion    string `json:"emotion"`
	Intensity  int    `json:"intensity"`
	Event      string `json:"event"`
	NextAction string `json:"next_action"`
}

// IntensityPoint is one point of the intensity-over-time chart series.
type IntensityPoint struct {
	Date      string `json:"date"`
	Intensity int    `json:"intensity"`
}

// EmotionCount is the occurrence count of one emotion label.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// WeatherBucket is the intensity statistics of one weather group.
type WeatherBucket struct {
	Group         string  `json:"group"`
	Count         int     `json:"count"`
	MeanIntensity float64 `json:"mean_intensity"`
}

// TempIntensityPoint pairs an entry's daily mean temperature with its
// intensity for scatter analysis.
type TempIntensityPoint struct {
	TempMean  float64 `json:"temp_mean"`
	Intensity int     `json:"intensity"`
}

// WeeklyReview computes the rollup summary for the trailing window of the
// given size ending at today. The window covers days calendar days, so
// since = today - (days - 1). Entries with an unparsable date are excluded.
func WeeklyReview(entries []datastore.Entry, days int, today time.Time) Review {
	since := today.AddDate(0, 0, -(days - 1)).Format(dateFormat)
	review := Review{
		Since:      since,
		WindowDays: days,
	}

	var filtered []datastore.Entry
	for i := range entries {
		if _, ok := parseDate(entries[i].EntryDate); !ok {
			continue
		}
		// ISO dates compare correctly as strings
		if entries[i].EntryDate >= since {
			filtered = append(filtered, entries[i])
		}
	}
	if len(filtered) == 0 {
		return review
	}

	daysSeen := make(map[string]struct{})
	counts := make(map[string]int)
	intensitySum := 0
	for i := range filtered {
		daysSeen[filtered[i].EntryDate] = struct{}{}
		counts[filtered[i].Emotion]++
		intensitySum += filtered[i].Intensity
	}

	review.DistinctDays = len(daysSeen)

	// Mode of the emotion labels; ties broken by the lexicographically
	// smallest label so the result does not depend on map iteration order.
	top := ""
	topCount := -1
	for emotion, count := range counts {
		if count > topCount || (count == topCount && emotion < top) {
			top = emotion
			topCount = count
		}
	}
	review.TopEmotion = &top

	avg := float64(intensitySum) / float64(len(filtered))
	review.AvgIntensity = &avg

	return review
}

// NextActions returns up to maxItems entries with a pending next action,
// preserving the caller's ordering (the store contract delivers newest
// first). Entries whose trimmed next action is empty are skipped. The input
// is never mutated; an empty result means "nothing pending", not an error.
func NextActions(entries []datastore.Entry, maxItems int) []ActionItem {
	items := []ActionItem{}
	if maxItems <= 0 {
		return items
	}
	for i := range entries {
		action := trimmed(entries[i].NextAction)
		if action == "" {
			continue
		}
		items = append(items, ActionItem{
			ID:         entries[i].ID,
			EntryDate:  entries[i].EntryDate,
			Emotion:    entries[i].Emotion,
			Intensity:  entries[i].Intensity,
			Event:      entries[i].Event,
			NextAction: action,
		})
		if len(items) == maxItems {
			break
		}
	}
	return items
}

// IntensitySeries prepares the intensity-over-time chart series: entries
// with an unparsable date are dropped, the remainder is sorted ascending by
// date with ties kept in input order.
func IntensitySeries(entries []datastore.Entry) []IntensityPoint {
	points := []IntensityPoint{}
	for i := range entries {
		if _, ok := parseDate(entries[i].EntryDate); !ok {
			continue
		}
		points = append(points, IntensityPoint{
			Date:      entries[i].EntryDate,
			Intensity: entries[i].Intensity,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// EmotionCounts groups entries by emotion and counts occurrences. A missing
// emotion is counted under the literal label "unknown". Counts are returned
// ascending so the largest bucket renders last on a horizontal chart; equal
// counts keep their first-appearance order.
func EmotionCounts(entries []datastore.Entry) []EmotionCount {
	counts := make(map[string]int)
	order := []string{}
	for i := range entries {
		emotion := entries[i].Emotion
		if trimmed(emotion) == "" {
			emotion = "unknown"
		}
		if _, seen := counts[emotion]; !seen {
			order = append(order, emotion)
		}
		counts[emotion]++
	}

	result := make([]EmotionCount, 0, len(order))
	for _, emotion := range order {
		result = append(result, EmotionCount{Emotion: emotion, Count: counts[emotion]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count < result[j].Count
	})
	return result
}

// WeatherBuckets groups entries by weather group and computes the mean
// intensity per group, sorted descending by mean for display.
func WeatherBuckets(entries []datastore.Entry) []WeatherBucket {
	type acc struct {
		count int
		sum   int
	}
	groups := make(map[string]*acc)
	order := []string{}
	for i := range entries {
		group := WeatherGroup(entries[i].WeatherCode)
		a, seen := groups[group]
		if !seen {
			a = &acc{}
			groups[group] = a
			order = append(order, group)
		}
		a.count++
		a.sum += entries[i].Intensity
	}

	result := make([]WeatherBucket, 0, len(order))
	for _, group := range order {
		a := groups[group]
		result = append(result, WeatherBucket{
			Group:         group,
			Count:         a.count,
			MeanIntensity: float64(a.sum) / float64(a.count),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MeanIntensity > result[j].MeanIntensity
	})
	return result
}

// TempIntensityPairs prepares the temperature/intensity scatter series:
// tempMean = (tempMax + tempMin) / 2 per entry, dropping entries missing
// either temperature. No statistical test is performed, only the paired
// series is returned.
func TempIntensityPairs(entries []datastore.Entry) []TempIntensityPoint {
	points := []TempIntensityPoint{}
	for i := range entries {
		if entries[i].TempMax == nil || entries[i].TempMin == nil {
			continue
		}
		points = append(points, TempIntensityPoint{
			TempMean:  (*entries[i].TempMax + *entries[i].TempMin) / 2,
			Intensity: entries[i].Intensity,
		})
	}
	return points
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
