package database

import (
	"context"
	"fmt"
	"log"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"gorm.io/gorm"
)

// Repository stores one collection in its own table.
type Repository[T store.Record[T]] struct {
	db *gorm.DB
}

// NewRepository migrates the table for T and writes seed when the table did not exist yet.
// A table emptied by deletes is left empty.
func NewRepository[T store.Record[T]](db *gorm.DB, seed []T) (*Repository[T], error) {
	hadTable := db.Migrator().HasTable(new(T))

	// Auto-migrate the schema (creates the table if it doesn't exist)
	if err := db.AutoMigrate(new(T)); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if !hadTable && len(seed) > 0 {
		if err := db.Create(&seed).Error; err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		log.Printf("Seeded %d records into new table", len(seed))
	}
	return &Repository[T]{db: db}, nil
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	records := []T{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int
		if err := tx.Model(new(T)).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		rec = rec.WithID(maxID + 1)
		return tx.Create(&rec).Error
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (r *Repository[T]) Replace(ctx context.Context, rec T) (T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", rec.RecordID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		// Save writes every column, including zero values and NULLs.
		return tx.Save(&rec).Error
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
