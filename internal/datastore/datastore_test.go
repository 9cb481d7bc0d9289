package datastore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/errors"
)

// newTestStore opens a SQLite store backed by a temp file and closes it when
// the test finishes.
func newTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := New(settings, nil)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testEntry(date, emotion string, intensity int) *Entry {
	return &Entry{
		EntryDate: date,
		Event:     fmt.Sprintf("event on %s", date),
		Emotion:   emotion,
		Intensity: intensity,
	}
}

func TestNewReturnsNilWithoutBackend(t *testing.T) {
	settings := &conf.Settings{}
	assert.Nil(t, New(settings, nil))
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	entry := testEntry("2024-06-01", "joy", 7)
	entry.Interpretation = "went better than expected"
	entry.NextAction = "write a thank-you note"
	require.NoError(t, store.Save(entry))
	require.NotZero(t, entry.ID)

	got, err := store.Get(fmt.Sprint(entry.ID))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", got.EntryDate)
	assert.Equal(t, "joy", got.Emotion)
	assert.Equal(t, 7, got.Intensity)
	assert.Equal(t, "write a thank-you note", got.NextAction)
	assert.Nil(t, got.WeatherCode)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("42")
	require.Error(t, err)

	var enhanced *errors.EnhancedError
	require.True(t, errors.As(err, &enhanced))
	assert.Equal(t, errors.CategoryNotFound, enhanced.Category)
}

func TestGetRejectsNonNumericID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("abc")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	entry := testEntry("2024-06-01", "anger", 5)
	require.NoError(t, store.Save(entry))

	id := fmt.Sprint(entry.ID)
	require.NoError(t, store.Delete(id))

	_, err := store.Get(id)
	assert.Error(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete("99")
	require.Error(t, err)

	var enhanced *errors.EnhancedError
	require.True(t, errors.As(err, &enhanced))
	assert.Equal(t, errors.CategoryNotFound, enhanced.Category)
}

func TestEntriesSinceOrdering(t *testing.T) {
	store := newTestStore(t)

	// Inserted out of date order, plus two on the same day
	require.NoError(t, store.Save(testEntry("2024-06-02", "joy", 6)))
	require.NoError(t, store.Save(testEntry("2024-05-30", "sadness", 3)))
	first := testEntry("2024-06-03", "anxiety", 8)
	require.NoError(t, store.Save(first))
	second := testEntry("2024-06-03", "relief", 4)
	require.NoError(t, store.Save(second))

	entries, err := store.EntriesSince("2024-06-01")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest date first, later insert first within the same date
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "2024-06-02", entries[2].EntryDate)
}

func TestEntriesSinceIncludesBoundaryDate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(testEntry("2024-06-01", "joy", 5)))

	entries, err := store.EntriesSince("2024-06-01")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLatestEntriesLimit(t *testing.T) {
	store := newTestStore(t)

	for day := 1; day <= 5; day++ {
		require.NoError(t, store.Save(testEntry(fmt.Sprintf("2024-06-0%d", day), "joy", day)))
	}

	entries, err := store.LatestEntries(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-06-05", entries[0].EntryDate)
}

func TestUpdateWeatherAndMissingWeather(t *testing.T) {
	store := newTestStore(t)

	older := testEntry("2024-06-01", "joy", 5)
	newer := testEntry("2024-06-02", "fatigue", 2)
	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	missing, err := store.EntriesMissingWeather()
	require.NoError(t, err)
	require.Len(t, missing, 2)
	// Backfill order is oldest first
	assert.Equal(t, older.ID, missing[0].ID)

	code := 61
	tempMax := 24.3
	tempMin := 17.8
	require.NoError(t, store.UpdateWeather(older.ID, &code, &tempMax, &tempMin))

	missing, err = store.EntriesMissingWeather()
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, newer.ID, missing[0].ID)

	got, err := store.Get(fmt.Sprint(older.ID))
	require.NoError(t, err)
	require.NotNil(t, got.WeatherCode)
	assert.Equal(t, 61, *got.WeatherCode)
	require.NotNil(t, got.TempMax)
	assert.InDelta(t, 24.3, *got.TempMax, 0.001)
	// Journaled fields stay untouched
	assert.Equal(t, "joy", got.Emotion)
	assert.Equal(t, 5, got.Intensity)
}
