package repository

import (
	"context"

	"forum/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Store[models.Category]
	FindByTitle(ctx context.Context, title string) (*models.Category, error)
}

type categoryRepository struct {
	*gormStore[models.Category]
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{gormStore: newGormStore[models.Category](db)}
}

func (r *categoryRepository) FindByTitle(ctx context.Context, title string) (*models.Category, error) {
	return r.FindOneBy(ctx, "title", title)
}
