// storage/recordstore.go - asynchronous record-store tier (sqlite)
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"edvantage/models"
)

var (
	// ErrDuplicateKey is returned by Add when a record with the same primary
	// key already exists.
	ErrDuplicateKey = errors.New("record store: duplicate primary key")

	// ErrNotFound is returned by Get when no record matches.
	ErrNotFound = errors.New("record store: record not found")

	// ErrStoreClosed is returned when the store is used before Open or after
	// Close.
	ErrStoreClosed = errors.New("record store: not open")
)

// RecordStore is the asynchronous tier: a schema'd store of named record
// collections, larger and slower than the key/value tier. Every operation
// takes a context and blocks until the underlying transaction completes;
// failures come back as errors for callers to catch and fall back on.
type RecordStore struct {
	path    string
	version int
	log     *zap.SugaredLogger
	tables  []any

	mu sync.Mutex
	db *gorm.DB
}

// NewRecordStore configures a store at path with a schema version and the
// record collections (gorm models) it holds. Nothing is opened yet.
func NewRecordStore(path string, version int, log *zap.SugaredLogger, tables ...any) *RecordStore {
	return &RecordStore{
		path:    path,
		version: version,
		log:     log,
		tables:  tables,
	}
}

// Open idempotently establishes the connection and creates any missing
// collections. Upgrades are additive-only: AutoMigrate creates tables and
// columns that do not exist and leaves existing ones untouched.
func (s *RecordStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("record store: failed to create %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("record store: failed to open %s: %w", s.path, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(append(s.tables, &models.SchemaMeta{})...); err != nil {
		return fmt.Errorf("record store: migration failed: %w", err)
	}
	if err := s.bumpSchemaVersion(ctx, db); err != nil {
		return err
	}

	s.db = db
	s.log.Infof("record store open at %s (schema v%d, %d collections)", s.path, s.version, len(s.tables))
	return nil
}

func (s *RecordStore) bumpSchemaVersion(ctx context.Context, db *gorm.DB) error {
	var meta models.SchemaMeta
	err := db.WithContext(ctx).First(&meta).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		meta = models.SchemaMeta{Version: s.version}
	case err != nil:
		return fmt.Errorf("record store: failed to read schema version: %w", err)
	case meta.Version > s.version:
		return fmt.Errorf("record store: schema v%d is newer than supported v%d", meta.Version, s.version)
	default:
		meta.Version = s.version
	}
	if err := db.WithContext(ctx).Save(&meta).Error; err != nil {
		return fmt.Errorf("record store: failed to write schema version: %w", err)
	}
	return nil
}

// Close releases the underlying connection. The store can be re-opened.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *RecordStore) conn() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	return s.db, nil
}

// Add inserts a new record and fails with ErrDuplicateKey if its primary key
// already exists.
func (s *RecordStore) Add(ctx context.Context, record any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("record store: add failed: %w", err)
	}
	return nil
}

// Put inserts or overwrites by primary key; a key collision never fails.
func (s *RecordStore) Put(ctx context.Context, record any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
		return fmt.Errorf("record store: put failed: %w", err)
	}
	return nil
}

// Get loads the record matching key into dest; ErrNotFound when absent.
// Composite keys pass their parts in primary-key column order.
func (s *RecordStore) Get(ctx context.Context, dest any, key ...any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).First(dest, key...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("record store: get failed: %w", err)
	}
	return nil
}

// GetAll loads every record of dest's collection. Order is storage-defined.
func (s *RecordStore) GetAll(ctx context.Context, dest any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Find(dest).Error; err != nil {
		return fmt.Errorf("record store: get all failed: %w", err)
	}
	return nil
}

// Find loads the records of dest's collection matching the query.
func (s *RecordStore) Find(ctx context.Context, dest any, query string, args ...any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where(query, args...).Find(dest).Error; err != nil {
		return fmt.Errorf("record store: find failed: %w", err)
	}
	return nil
}

// Delete removes the record matching key if present; absence is not an error.
func (s *RecordStore) Delete(ctx context.Context, model any, key ...any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(model, key...).Error; err != nil {
		return fmt.Errorf("record store: delete failed: %w", err)
	}
	return nil
}
