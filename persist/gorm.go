package persist

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Content is the database model for stored content.
type Content struct {
	StorageKey string    `gorm:"column:storage_key;type:varchar(255);primaryKey"`
	Value      string    `gorm:"column:value;type:text;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name used by gorm.
func (Content) TableName() string {
	return "wysiwyg_contents"
}

// GormStore is a Store backed by a SQL database.
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore connects to a Postgres database and creates the content
// table, if necessary.
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewGormStore(db)
}

// NewGormStore creates a store using an open database and migrates the
// content table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Content{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Get is part of interface Store.
func (g *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var c Content
	err := g.db.WithContext(ctx).First(&c, "storage_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return c.Value, true, nil
}

// Set is part of interface Store.
func (g *GormStore) Set(ctx context.Context, key, value string) error {
	c := Content{StorageKey: key, Value: value, UpdatedAt: time.Now()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&c).Error
}

// Close closes the underlying database connections.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
