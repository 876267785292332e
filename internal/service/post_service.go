package service

import (
	"context"
	"errors"
	"log/slog"

	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
)

const entityPost = "Post"

type PostService struct {
	posts      repository.PostRepository
	users      UserFinder
	categories CategoryFinder
}

type CreatePostInput struct {
	UserID     uint
	CategoryID uint
	Title      string
	Content    string
	// Type is the ordinal of the post type as sent by the client.
	Type string
}

type UpdatePostInput struct {
	Content *string
}

func NewPostService(posts repository.PostRepository, users UserFinder, categories CategoryFinder) *PostService {
	return &PostService{posts: posts, users: users, categories: categories}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("retrieve", "Posts", err)
	}
	return posts, nil
}

// GetPost returns nil when no post has the id.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("retrieve", entityPost, err)
	}
	return post, nil
}

// ListPostsByCategory returns every post filed under the category, deleted
// ones included.
func (s *PostService) ListPostsByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	posts, err := s.posts.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, storeFailure("retrieve", "Posts", err)
	}
	return posts, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, done := instrument(ctx, "post", opCreate)
	defer func() { done(err) }()

	owner, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, missing(opCreate, entityPost, entityUser, in.UserID)
	}
	category, err := s.categories.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, missing(opCreate, entityPost, entityCategory, in.CategoryID)
	}
	if blank(in.Title) {
		return nil, invalid(opCreate, entityPost, "Missing title.")
	}
	if blank(in.Content) {
		return nil, invalid(opCreate, entityPost, "Missing content.")
	}

	existing, err := s.posts.FindByTitle(ctx, in.Title)
	if err != nil {
		return nil, storeFailure(opCreate, entityPost, err)
	}
	if existing != nil {
		return nil, invalid(opCreate, entityPost, "Duplicate title.")
	}

	postType, err := models.ParsePostType(in.Type)
	switch {
	case errors.Is(err, models.ErrPostTypeMissing):
		return nil, invalid(opCreate, entityPost, "Missing type.")
	case err != nil:
		return nil, invalid(opCreate, entityPost, "Invalid type.")
	}

	post = &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Type:       postType,
		UserID:     in.UserID,
		CategoryID: in.CategoryID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeFailure(opCreate, entityPost, err)
	}

	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("id", uint64(post.ID)),
		slog.Uint64("category_id", uint64(post.CategoryID)),
		slog.String("type", string(post.Type)),
	)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, in UpdatePostInput) (post *models.Post, err error) {
	ctx, done := instrument(ctx, "post", opUpdate)
	defer func() { done(err) }()

	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opUpdate, entityPost, err)
	}
	if current == nil {
		return nil, missing(opUpdate, entityPost, entityPost, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opUpdate, entityPost, "Post has been deleted.")
	}
	if !current.Type.Editable() {
		return nil, invalid(opUpdate, entityPost, "Only text posts are editable.")
	}
	if in.Content == nil || blank(*in.Content) {
		return nil, invalid(opUpdate, entityPost, "Missing content.")
	}

	post, err = s.posts.Update(ctx, id, map[string]any{"content": *in.Content})
	if err != nil {
		return nil, storeFailure(opUpdate, entityPost, err)
	}

	middleware.Logger.InfoContext(ctx, "post updated", slog.Uint64("id", uint64(id)))
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, done := instrument(ctx, "post", opDelete)
	defer func() { done(err) }()

	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityPost, err)
	}
	if current == nil {
		return nil, missing(opDelete, entityPost, entityPost, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opDelete, entityPost, "Post has already been deleted.")
	}

	post, err = s.posts.Delete(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityPost, err)
	}

	middleware.Logger.InfoContext(ctx, "post deleted", slog.Uint64("id", uint64(id)))
	return post, nil
}
