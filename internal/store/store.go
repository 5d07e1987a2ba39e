// Package store is the gorm-backed persistence layer. Every owner-scoped
// lookup resolves ownership through properties.owner_id; rows owned by
// someone else are reported as apperr.ErrNotFound.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentfolio/internal/apperr"
	"rentfolio/internal/config"
	"rentfolio/internal/models"
)

// Store wraps a gorm handle, either the root connection or an open transaction.
type Store struct {
	db *gorm.DB
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects using the configured driver.
func Open(cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Use(UTCTimes{}); err != nil {
		return nil, fmt.Errorf("failed to register utc plugin: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite serialises writers; a single connection also keeps
		// ":memory:" databases from splitting across connections.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db), nil
}

// DB exposes the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn against a Store bound to a single transaction. Any
// error from fn rolls back every write made through it.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Create inserts any model value.
func (s *Store) Create(ctx context.Context, value interface{}) error {
	if err := s.db.WithContext(ctx).Create(value).Error; err != nil {
		return fmt.Errorf("failed to create %T: %w", value, err)
	}
	return nil
}

// OwnerIDs lists every user that owns at least one property.
func (s *Store) OwnerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Property{}).
		Distinct("owner_id").
		Order("owner_id").
		Pluck("owner_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return ids, nil
}

// EnsureOwner returns the user with the given email, creating it when absent.
func (s *Store) EnsureOwner(ctx context.Context, email, name string) (*models.User, error) {
	user := models.User{Email: email}
	err := s.db.WithContext(ctx).
		Where(models.User{Email: email}).
		Attrs(models.User{Name: name}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure owner %s: %w", email, err)
	}
	return &user, nil
}

func (s *Store) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ownedPropertyIDs is a subquery selecting the ids of the owner's properties.
func (s *Store) ownedPropertyIDs(ownerID uint) *gorm.DB {
	return s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Property{}).
		Select("id").
		Where("owner_id = ?", ownerID)
}

func (s *Store) ownedLeases(ownerID uint) *gorm.DB {
	return s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Lease{}).
		Where("property_id IN (?)", s.ownedPropertyIDs(ownerID))
}

// ownedLeaseIDs is a subquery selecting the ids of leases on the owner's properties.
func (s *Store) ownedLeaseIDs(ownerID uint) *gorm.DB {
	return s.ownedLeases(ownerID).Select("id")
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}
