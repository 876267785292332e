// Package repository provides data access layer implementations for the forum.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"forum/internal/models"
	"forum/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store is the per-entity persistence primitive shared by every repository.
// Reads never filter soft-deleted rows and writes never remove rows.
type Store[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	// FindByID returns (nil, nil) when no row has the given id.
	FindByID(ctx context.Context, id uint) (*T, error)
	// FindOneBy returns (nil, nil) when no row matches column = value.
	FindOneBy(ctx context.Context, column string, value any) (*T, error)
	ListBy(ctx context.Context, column string, value any) ([]T, error)
	Create(ctx context.Context, entity *T) error
	// Update merges fields into the row and stamps edited_at.
	Update(ctx context.Context, id uint, fields map[string]any) (*T, error)
	// Delete stamps deleted_at.
	Delete(ctx context.Context, id uint) (*T, error)
}

// gormStore implements Store on top of a GORM model.
type gormStore[T any] struct {
	db    *gorm.DB
	table string
}

// NewStore creates a Store bound to the table of T.
func NewStore[T any](db *gorm.DB) Store[T] {
	return newGormStore[T](db)
}

func newGormStore[T any](db *gorm.DB) *gormStore[T] {
	table := fmt.Sprintf("%T", *new(T))
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err == nil && stmt.Schema != nil {
		table = stmt.Schema.Table
	}
	return &gormStore[T]{db: db, table: table}
}

func (s *gormStore[T]) now() time.Time {
	if s.db.NowFunc != nil {
		return s.db.NowFunc()
	}
	return time.Now().UTC()
}

func (s *gormStore[T]) GetAll(ctx context.Context) ([]T, error) {
	defer observability.TrackQuery("get_all", s.table)()

	var rows []T
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return rows, nil
}

func (s *gormStore[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	defer observability.TrackQuery("find_by_id", s.table)()

	var row T
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s %d: %w", s.table, id, err)
	}
	return &row, nil
}

func (s *gormStore[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	defer observability.TrackQuery("find_one_by", s.table)()

	var row T
	err := s.db.WithContext(ctx).
		Where(map[string]any{column: value}).
		Order("id ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s by %s: %w", s.table, column, err)
	}
	return &row, nil
}

func (s *gormStore[T]) ListBy(ctx context.Context, column string, value any) ([]T, error) {
	defer observability.TrackQuery("list_by", s.table)()

	var rows []T
	err := s.db.WithContext(ctx).
		Where(map[string]any{column: value}).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s by %s: %w", s.table, column, err)
	}
	return rows, nil
}

func (s *gormStore[T]) Create(ctx context.Context, entity *T) error {
	defer observability.TrackQuery("create", s.table)()

	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("create %s: %w", s.table, models.ErrDuplicate)
		}
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

func (s *gormStore[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	defer observability.TrackQuery("update", s.table)()

	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["edited_at"] = s.now()

	return s.write(ctx, "update", id, values)
}

func (s *gormStore[T]) Delete(ctx context.Context, id uint) (*T, error) {
	defer observability.TrackQuery("delete", s.table)()

	return s.write(ctx, "delete", id, map[string]any{"deleted_at": s.now()})
}

// write applies values to the row with the given id and re-reads it.
func (s *gormStore[T]) write(ctx context.Context, op string, id uint, values map[string]any) (*T, error) {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, fmt.Errorf("%s %s %d: %w", op, s.table, id, models.ErrDuplicate)
		}
		return nil, fmt.Errorf("%s %s %d: %w", op, s.table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%s %s %d: %w", op, s.table, id, models.ErrRecordNotFound)
	}

	row, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%s %s %d: %w", op, s.table, id, models.ErrRecordNotFound)
	}
	return row, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	// SQLite reports "UNIQUE constraint failed: users.email"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
