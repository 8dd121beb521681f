package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow is the relational shape of a cache document. The body stays an
// opaque JSON blob so the SQL backend carries no schema knowledge beyond
// addressing.
type documentRow struct {
	ID        string `gorm:"primaryKey;size:320"`
	IndexName string `gorm:"column:index_name;index;size:128"`
	Body      []byte
	UpdatedAt time.Time
}

func (documentRow) TableName() string {
	return "cache_documents"
}

// SQLStore implements DocumentStore on any gorm-supported database
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a SQL-backed document store around an already opened
// gorm handle and migrates the documents table
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db is required")
	}
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache_documents table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) GetDocument(ctx context.Context, index, id string) ([]byte, bool, error) {
	var row documentRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", docID(index, id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Body, true, nil
}

func (s *SQLStore) PutDocument(ctx context.Context, index, id string, body []byte) error {
	row := documentRow{
		ID:        docID(index, id),
		IndexName: index,
		Body:      body,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SQLStore) DeleteIndex(ctx context.Context, index string) error {
	return s.db.WithContext(ctx).
		Where("index_name = ?", index).
		Delete(&documentRow{}).Error
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
