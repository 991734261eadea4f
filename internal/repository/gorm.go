package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
	"github.com/bigkaa/goartstore/source-registry/internal/schema"
)

// gormSourceFileRepo — реализация SourceFileRepository через gorm (SQLite).
type gormSourceFileRepo struct {
	db *gorm.DB
}

// NewGormSourceFileRepository создаёт репозиторий поверх gorm.
func NewGormSourceFileRepository(db *gorm.DB) SourceFileRepository {
	return &gormSourceFileRepo{db: db}
}

// List выполняет полный скан таблицы на выделенном соединении.
func (r *gormSourceFileRepo) List(ctx context.Context) ([]model.SourceFile, error) {
	result := []model.SourceFile{}

	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Select(schema.Columns).Find(&result).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки source_files: %w", err)
	}
	return result, nil
}

// Create вставляет строку и читает её обратно через RETURNING.
func (r *gormSourceFileRepo) Create(ctx context.Context, nf model.NewSourceFile) (model.SourceFile, error) {
	f := nf.Row()

	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Clauses(returningColumns()).Create(&f).Error
	})
	if err != nil {
		return model.SourceFile{}, fmt.Errorf("ошибка вставки в source_files: %w", err)
	}
	return f, nil
}

func returningColumns() clause.Returning {
	cols := make([]clause.Column, len(schema.Columns))
	for i, name := range schema.Columns {
		cols[i] = clause.Column{Name: name}
	}
	return clause.Returning{Columns: cols}
}
