package service

import (
	"context"
	"log/slog"

	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
)

const entityComment = "Comment"

type CommentService struct {
	comments repository.CommentRepository
	users    UserFinder
	posts    PostFinder
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
	// ReplyID is stored as given; the referenced comment is not looked up.
	ReplyID *uint
}

type UpdateCommentInput struct {
	Content *string
}

func NewCommentService(comments repository.CommentRepository, users UserFinder, posts PostFinder) *CommentService {
	return &CommentService{comments: comments, users: users, posts: posts}
}

func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	comments, err := s.comments.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("retrieve", "Comments", err)
	}
	return comments, nil
}

// GetComment returns nil when no comment has the id.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("retrieve", entityComment, err)
	}
	return comment, nil
}

func (s *CommentService) ListCommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeFailure("retrieve", "Comments", err)
	}
	return comments, nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (comment *models.Comment, err error) {
	ctx, done := instrument(ctx, "comment", opCreate)
	defer func() { done(err) }()

	owner, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, missing(opCreate, entityComment, entityUser, in.UserID)
	}
	post, err := s.posts.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, missing(opCreate, entityComment, entityPost, in.PostID)
	}
	if blank(in.Content) {
		return nil, invalid(opCreate, entityComment, "Missing content.")
	}

	comment = &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
		ReplyID: in.ReplyID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeFailure(opCreate, entityComment, err)
	}

	attrs := []any{
		slog.Uint64("id", uint64(comment.ID)),
		slog.Uint64("post_id", uint64(comment.PostID)),
	}
	if comment.ReplyID != nil {
		attrs = append(attrs, slog.Uint64("reply_id", uint64(*comment.ReplyID)))
	}
	middleware.Logger.InfoContext(ctx, "comment created", attrs...)
	return comment, nil
}

// UpdateComment replaces the content of a comment. Absent, blank and
// unchanged content are all reported as an empty update.
func (s *CommentService) UpdateComment(ctx context.Context, id uint, in UpdateCommentInput) (comment *models.Comment, err error) {
	ctx, done := instrument(ctx, "comment", opUpdate)
	defer func() { done(err) }()

	current, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opUpdate, entityComment, err)
	}
	if current == nil {
		return nil, missing(opUpdate, entityComment, entityComment, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opUpdate, entityComment, "Comment has been deleted.")
	}
	if in.Content == nil || blank(*in.Content) || *in.Content == current.Content {
		return nil, invalid(opUpdate, entityComment, "No update parameters were provided.")
	}

	comment, err = s.comments.Update(ctx, id, map[string]any{"content": *in.Content})
	if err != nil {
		return nil, storeFailure(opUpdate, entityComment, err)
	}

	middleware.Logger.InfoContext(ctx, "comment updated", slog.Uint64("id", uint64(id)))
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) (comment *models.Comment, err error) {
	ctx, done := instrument(ctx, "comment", opDelete)
	defer func() { done(err) }()

	current, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityComment, err)
	}
	if current == nil {
		return nil, missing(opDelete, entityComment, entityComment, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opDelete, entityComment, "Comment has already been deleted.")
	}

	comment, err = s.comments.Delete(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityComment, err)
	}

	middleware.Logger.InfoContext(ctx, "comment deleted", slog.Uint64("id", uint64(id)))
	return comment, nil
}
