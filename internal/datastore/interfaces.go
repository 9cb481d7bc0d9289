// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/errors"
	"github.com/tomohiko/kokorolog/internal/observability"
)

// Interface abstracts the underlying database implementation and defines the
// operations available on the entry store.
type Interface interface {
	Open() error
	Close() error
	Save(entry *Entry) error
	Get(id string) (Entry, error)
	Delete(id string) error
	// EntriesSince returns entries with entry_date >= since, ordered by
	// entry_date descending then id descending (newest first).
	EntriesSince(since string) ([]Entry, error)
	LatestEntries(limit int) ([]Entry, error)
	// EntriesMissingWeather returns entries whose weather enrichment is absent.
	EntriesMissingWeather() ([]Entry, error)
	// UpdateWeather fills in the weather enrichment fields of an existing
	// entry. The journaled fields themselves are never updated.
	UpdateWeather(id uint, code *int, tempMax, tempMin *float64) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB      *gorm.DB
	metrics *observability.Metrics
}

// New creates a new datastore instance based on the provided settings.
func New(settings *conf.Settings, metrics *observability.Metrics) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			DataStore: DataStore{metrics: metrics},
			Settings:  settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			DataStore: DataStore{metrics: metrics},
			Settings:  settings,
		}
	default:
		return nil
	}
}

// Save stores a new entry in the database.
func (ds *DataStore) Save(entry *Entry) error {
	if ds.DB == nil {
		return errors.NewStd("database connection is not initialized")
	}

	if err := ds.DB.Create(entry).Error; err != nil {
		ds.metrics.RecordDatastoreOp("save", "error")
		return errors.New(fmt.Errorf("saving entry: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("entry_date", entry.EntryDate).
			Build()
	}

	ds.metrics.RecordDatastoreOp("save", "success")
	return nil
}

// Get retrieves an entry by its ID from the database.
func (ds *DataStore) Get(id string) (Entry, error) {
	entryID, err := strconv.Atoi(id)
	if err != nil {
		return Entry{}, fmt.Errorf("converting ID to integer: %w", err)
	}

	var entry Entry
	if err := ds.DB.First(&entry, entryID).Error; err != nil {
		ds.metrics.RecordDatastoreOp("get", "error")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, errors.New(fmt.Errorf("entry with ID %d not found", entryID)).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return Entry{}, fmt.Errorf("getting entry with ID %d: %w", entryID, err)
	}
	ds.metrics.RecordDatastoreOp("get", "success")
	return entry, nil
}

// Delete permanently removes an entry from the database. There is no
// tombstone and no undo.
func (ds *DataStore) Delete(id string) error {
	entryID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return fmt.Errorf("converting ID to integer: %w", err)
	}

	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Entry{}, entryID)
		if result.Error != nil {
			return fmt.Errorf("deleting entry with ID %d: %w", entryID, result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New(fmt.Errorf("entry with ID %d not found", entryID)).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil
	})
	if err != nil {
		ds.metrics.RecordDatastoreOp("delete", "error")
		return err
	}
	ds.metrics.RecordDatastoreOp("delete", "success")
	return nil
}

// EntriesSince retrieves entries dated on or after the given date, newest
// first. The ordering is part of the store contract: consumers such as the
// next-action list rely on entry_date DESC, id DESC.
func (ds *DataStore) EntriesSince(since string) ([]Entry, error) {
	var entries []Entry
	err := ds.DB.Where("entry_date >= ?", since).
		Order("entry_date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		ds.metrics.RecordDatastoreOp("entries_since", "error")
		return nil, errors.New(fmt.Errorf("getting entries since %s: %w", since, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("since", since).
			Build()
	}
	ds.metrics.RecordDatastoreOp("entries_since", "success")
	return entries, nil
}

// LatestEntries retrieves the most recent entries up to the given limit.
func (ds *DataStore) LatestEntries(limit int) ([]Entry, error) {
	var entries []Entry
	err := ds.DB.Order("entry_date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("getting latest entries: %w", err)
	}
	return entries, nil
}

// EntriesMissingWeather retrieves entries without weather enrichment, oldest
// first so backfill proceeds chronologically.
func (ds *DataStore) EntriesMissingWeather() ([]Entry, error) {
	var entries []Entry
	err := ds.DB.Where("weather_code IS NULL").
		Order("entry_date ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("getting entries missing weather: %w", err)
	}
	return entries, nil
}

// UpdateWeather sets the weather enrichment fields on an existing entry.
func (ds *DataStore) UpdateWeather(id uint, code *int, tempMax, tempMin *float64) error {
	err := ds.DB.Model(&Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"weather_code": code,
			"temp_max":     tempMax,
			"temp_min":     tempMin,
		}).Error
	if err != nil {
		ds.metrics.RecordDatastoreOp("update_weather", "error")
		return errors.New(fmt.Errorf("updating weather for entry %d: %w", id, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	ds.metrics.RecordDatastoreOp("update_weather", "success")
	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}

// performAutoMigration automigrates the entry table.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}
