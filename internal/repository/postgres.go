package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
	"github.com/bigkaa/goartstore/source-registry/internal/schema"
)

var (
	listQuery = fmt.Sprintf(`SELECT %s FROM %s`, schema.ColumnList(), schema.Table)

	insertQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		schema.Table, schema.ColumnList(), placeholders(len(schema.Columns)), schema.ColumnList())
)

// placeholders возвращает "$1, $2, ..., $n".
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

// pgSourceFileRepo — реализация SourceFileRepository через pgx.
type pgSourceFileRepo struct {
	pool ConnPool
}

// NewPostgresSourceFileRepository создаёт репозиторий поверх пула PostgreSQL.
func NewPostgresSourceFileRepository(pool ConnPool) SourceFileRepository {
	return &pgSourceFileRepo{pool: pool}
}

// List выполняет полный скан таблицы.
func (r *pgSourceFileRepo) List(ctx context.Context) ([]model.SourceFile, error) {
	result := []model.SourceFile{}

	err := r.pool.WithConn(ctx, func(conn DBTX) error {
		rows, err := conn.Query(ctx, listQuery)
		if err != nil {
			return fmt.Errorf("ошибка выборки source_files: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var f model.SourceFile
			if err := scanSourceFile(rows, &f); err != nil {
				return fmt.Errorf("ошибка сканирования source_files: %w", err)
			}
			result = append(result, f)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("ошибка итерации результатов: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create вставляет строку и читает её обратно через RETURNING.
func (r *pgSourceFileRepo) Create(ctx context.Context, nf model.NewSourceFile) (model.SourceFile, error) {
	var f model.SourceFile

	err := r.pool.WithConn(ctx, func(conn DBTX) error {
		row := conn.QueryRow(ctx, insertQuery, nf.Path, nf.Hash, nf.Size, nf.DateCreated)
		if err := scanSourceFile(row, &f); err != nil {
			return fmt.Errorf("ошибка вставки в source_files: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.SourceFile{}, err
	}
	return f, nil
}

// scanSourceFile читает столбцы в порядке schema.Columns.
func scanSourceFile(row pgx.Row, f *model.SourceFile) error {
	return row.Scan(&f.Path, &f.Hash, &f.Size, &f.DateCreated)
}
