// Package service holds the validation rules of the forum entities. Each
// service owns one repository and reaches other entities only through their
// services.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/internal/models"
	"forum/internal/observability"
)

// UserFinder is the view of UserService other services depend on.
type UserFinder interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// CategoryFinder is the view of CategoryService other services depend on.
type CategoryFinder interface {
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
}

// PostFinder is the view of PostService other services depend on.
type PostFinder interface {
	GetPost(ctx context.Context, id uint) (*models.Post, error)
}

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func prefix(op, entity string) string {
	return fmt.Sprintf("Cannot %s %s: ", op, entity)
}

func invalid(op, entity, msg string) error {
	return models.NewValidationError(prefix(op, entity) + msg)
}

// missing reports that the target entity referenced by an operation on
// entity could not be found.
func missing(op, entity, target string, id uint) error {
	return models.NewNotFoundError(fmt.Sprintf("%s%s does not exist with ID %d.", prefix(op, entity), target, id))
}

// storeFailure translates a repository error into an AppError for op.
func storeFailure(op, entity string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, models.ErrDuplicate) {
		return invalid(op, entity, "Duplicate entry.")
	}
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.NewNotFoundError(prefix(op, entity) + entity + " does not exist.")
	}
	return models.NewInternalError(fmt.Errorf("%s %s: %w", op, strings.ToLower(entity), err))
}

// instrument opens a span for entity.operation; the returned func records
// the outcome and ends it.
func instrument(ctx context.Context, entity, operation string) (context.Context, func(error)) {
	ctx, span := observability.StartServiceSpan(ctx, entity, operation)
	return ctx, func(err error) {
		observability.RecordOperation(entity, operation, err)
		observability.EndSpan(span, err)
	}
}
