package localstore

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is a single persisted key/value pair. The store plays the role the
// browser's localStorage played for the dashboard: backend selection, driver
// credentials, the OAuth token and the current-session JSON all live here.
type Entry struct {
	Key       string `gorm:"primaryKey;type:varchar(100)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store is a process-local key/value store backed by a single SQLite file.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the store at the given path and migrates its schema
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key. The second return value reports
// whether the key was present.
func (s *Store) Get(key string) (string, bool, error) {
	var entry Entry
	result := s.db.First(&entry, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return entry.Value, true, nil
}

// Set persists value under key, overwriting any previous value
func (s *Store) Set(key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&entry).Error
}

// Delete removes key from the store. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Delete(&Entry{}, "key = ?", key).Error
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
