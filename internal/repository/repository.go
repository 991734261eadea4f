// Пакет repository — слой доступа к таблице source_files.
// PostgreSQL: чистый SQL через pgx. SQLite: gorm.
// Ошибки БД не классифицируются и возвращаются обёрнутыми как есть.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
)

// SourceFileRepository — операции над source_files.
type SourceFileRepository interface {
	// List возвращает все строки таблицы без сортировки.
	// Пустая таблица — пустой срез, не nil.
	List(ctx context.Context) ([]model.SourceFile, error)
	// Create вставляет одну строку и возвращает её в том виде,
	// в каком её вернула БД.
	Create(ctx context.Context, nf model.NewSourceFile) (model.SourceFile, error)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется *pgxpool.Conn, pgx.Tx и моками pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnPool выдаёт эксклюзивное соединение на одну единицу работы.
// Соединение возвращается в пул на любом пути выхода из fn.
type ConnPool interface {
	WithConn(ctx context.Context, fn func(conn DBTX) error) error
}

// pgxConnPool — ConnPool поверх pgxpool.
type pgxConnPool struct {
	pool *pgxpool.Pool
}

// NewPgxConnPool оборачивает pgxpool в ConnPool.
func NewPgxConnPool(pool *pgxpool.Pool) ConnPool {
	return &pgxConnPool{pool: pool}
}

// WithConn захватывает соединение (ожидая, если пул исчерпан)
// и освобождает его после fn.
func (p *pgxConnPool) WithConn(ctx context.Context, fn func(conn DBTX) error) error {
	return p.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		return fn(conn)
	})
}
