package repository

import (
	"context"

	"forum/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Store[models.Post]
	FindByTitle(ctx context.Context, title string) (*models.Post, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	*gormStore[models.Post]
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{gormStore: newGormStore[models.Post](db)}
}

func (r *postRepository) FindByTitle(ctx context.Context, title string) (*models.Post, error) {
	return r.FindOneBy(ctx, "title", title)
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	return r.ListBy(ctx, "category_id", categoryID)
}
