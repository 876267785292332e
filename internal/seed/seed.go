package seed

import (
	"context"
	"fmt"
	"log/slog"

	"forum/internal/auth"
	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
	"forum/internal/service"

	"gorm.io/gorm"
)

// Options configures a random seeding run.
type Options struct {
	NumUsers        int
	NumCategories   int
	NumPosts        int
	CommentsPerPost int
	ShouldClean     bool
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed int64
}

// Result counts the rows a run created.
type Result struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
}

// Seeder writes demo data through the entity services so every row passes
// the same validation as API traffic.
type Seeder struct {
	db         *gorm.DB
	users      *service.UserService
	categories *service.CategoryService
	posts      *service.PostService
	comments   *service.CommentService
}

// NewSeeder wires the entity services over db.
func NewSeeder(db *gorm.DB, hasher auth.Hasher) *Seeder {
	users := service.NewUserService(repository.NewUserRepository(db), hasher)
	categories := service.NewCategoryService(repository.NewCategoryRepository(db), users)
	posts := service.NewPostService(repository.NewPostRepository(db), users, categories)
	return &Seeder{
		db:         db,
		users:      users,
		categories: categories,
		posts:      posts,
		comments:   service.NewCommentService(repository.NewCommentRepository(db), users, posts),
	}
}

// ClearAll removes every forum row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing forum data")
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.Category{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed generates random users, categories, posts and threaded comments.
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Result, error) {
	middleware.Logger.InfoContext(ctx, "starting database seeding",
		slog.Int("users", opts.NumUsers),
		slog.Int("categories", opts.NumCategories),
		slog.Int("posts", opts.NumPosts),
	)

	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}
	if opts.NumUsers <= 0 {
		return &Result{}, nil
	}

	f := NewFactory(opts.Seed)
	res := &Result{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.users.CreateUser(ctx, f.User())
		if err != nil {
			return res, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	res.Users = len(users)

	categories := make([]*models.Category, 0, opts.NumCategories)
	for i := 0; i < opts.NumCategories; i++ {
		owner := users[f.rng.Intn(len(users))]
		category, err := s.categories.CreateCategory(ctx, f.Category(owner))
		if err != nil {
			return res, fmt.Errorf("failed to create category: %w", err)
		}
		categories = append(categories, category)
	}
	res.Categories = len(categories)
	if len(categories) == 0 {
		return res, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := s.posts.CreatePost(ctx, f.Post(author, categories[f.rng.Intn(len(categories))]))
		if err != nil {
			return res, fmt.Errorf("failed to create post: %w", err)
		}
		res.Posts++

		var thread []*models.Comment
		for j := 0; j < opts.CommentsPerPost; j++ {
			var parent *models.Comment
			if len(thread) > 0 && f.rng.Intn(3) == 0 {
				parent = thread[f.rng.Intn(len(thread))]
			}
			commenter := users[f.rng.Intn(len(users))]
			comment, err := s.comments.CreateComment(ctx, f.Comment(commenter, post, parent))
			if err != nil {
				return res, fmt.Errorf("failed to create comment: %w", err)
			}
			thread = append(thread, comment)
			res.Comments++
		}
	}

	middleware.Logger.InfoContext(ctx, "database seeding complete",
		slog.Int("users", res.Users),
		slog.Int("categories", res.Categories),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}
