package repository

import (
	"context"

	"forum/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Store[models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	*gormStore[models.User]
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{gormStore: newGormStore[models.User](db)}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOneBy(ctx, "username", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOneBy(ctx, "email", email)
}
