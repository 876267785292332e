package service

import (
	"context"
	"log/slog"

	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
)

const entityCategory = "Category"

type CategoryService struct {
	categories repository.CategoryRepository
	users      UserFinder
}

type CreateCategoryInput struct {
	UserID      uint
	Title       string
	Description string
}

type UpdateCategoryInput struct {
	Title       *string
	Description *string
}

func NewCategoryService(categories repository.CategoryRepository, users UserFinder) *CategoryService {
	return &CategoryService{categories: categories, users: users}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("retrieve", "Categories", err)
	}
	return categories, nil
}

// GetCategory returns nil when no category has the id.
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("retrieve", entityCategory, err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (category *models.Category, err error) {
	ctx, done := instrument(ctx, "category", opCreate)
	defer func() { done(err) }()

	if in.Title == "" && in.Description == "" {
		return nil, invalid(opCreate, entityCategory, "Missing required fields.")
	}

	owner, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, missing(opCreate, entityCategory, entityUser, in.UserID)
	}
	if blank(in.Title) {
		return nil, invalid(opCreate, entityCategory, "Missing title.")
	}
	if blank(in.Description) {
		return nil, invalid(opCreate, entityCategory, "Missing description.")
	}

	existing, err := s.categories.FindByTitle(ctx, in.Title)
	if err != nil {
		return nil, storeFailure(opCreate, entityCategory, err)
	}
	if existing != nil {
		return nil, invalid(opCreate, entityCategory, "Duplicate title.")
	}

	category = &models.Category{
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, storeFailure(opCreate, entityCategory, err)
	}

	middleware.Logger.InfoContext(ctx, "category created",
		slog.Uint64("id", uint64(category.ID)),
		slog.Uint64("owner_id", uint64(in.UserID)),
	)
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in UpdateCategoryInput) (category *models.Category, err error) {
	ctx, done := instrument(ctx, "category", opUpdate)
	defer func() { done(err) }()

	current, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opUpdate, entityCategory, err)
	}
	if current == nil {
		return nil, missing(opUpdate, entityCategory, entityCategory, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opUpdate, entityCategory, "Category has been deleted.")
	}
	if in.Title != nil && blank(*in.Title) {
		return nil, invalid(opUpdate, entityCategory, "Missing title.")
	}
	if in.Description != nil && blank(*in.Description) {
		return nil, invalid(opUpdate, entityCategory, "Missing description.")
	}

	fields := map[string]any{}
	if in.Title != nil {
		if *in.Title != current.Title {
			taken, err := s.categories.FindByTitle(ctx, *in.Title)
			if err != nil {
				return nil, storeFailure(opUpdate, entityCategory, err)
			}
			if taken != nil {
				return nil, invalid(opUpdate, entityCategory, "Duplicate title.")
			}
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	category, err = s.categories.Update(ctx, id, fields)
	if err != nil {
		return nil, storeFailure(opUpdate, entityCategory, err)
	}

	middleware.Logger.InfoContext(ctx, "category updated", slog.Uint64("id", uint64(id)))
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (category *models.Category, err error) {
	ctx, done := instrument(ctx, "category", opDelete)
	defer func() { done(err) }()

	current, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityCategory, err)
	}
	if current == nil {
		return nil, missing(opDelete, entityCategory, entityCategory, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opDelete, entityCategory, "Category has already been deleted.")
	}

	category, err = s.categories.Delete(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityCategory, err)
	}

	middleware.Logger.InfoContext(ctx, "category deleted", slog.Uint64("id", uint64(id)))
	return category, nil
}
