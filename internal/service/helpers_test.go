package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"forum/internal/auth"
	"forum/internal/models"
	"forum/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type services struct {
	users      *UserService
	categories *CategoryService
	posts      *PostService
	comments   *CommentService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: clock.Now,
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
	))
	return db
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := setupTestDB(t)

	users := NewUserService(repository.NewUserRepository(db), auth.NewBcryptHasher(4))
	categories := NewCategoryService(repository.NewCategoryRepository(db), users)
	posts := NewPostService(repository.NewPostRepository(db), users, categories)
	comments := NewCommentService(repository.NewCommentRepository(db), users, posts)

	return &services{users: users, categories: categories, posts: posts, comments: comments}
}

func (s *services) mustUser(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := s.users.CreateUser(context.Background(), CreateUserInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return u
}

func (s *services) mustCategory(t *testing.T, owner uint, title string) *models.Category {
	t.Helper()
	c, err := s.categories.CreateCategory(context.Background(), CreateCategoryInput{
		UserID:      owner,
		Title:       title,
		Description: "about " + title,
	})
	require.NoError(t, err)
	return c
}

func (s *services) mustPost(t *testing.T, owner, category uint, title, typ string) *models.Post {
	t.Helper()
	p, err := s.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:     owner,
		CategoryID: category,
		Title:      title,
		Content:    "content of " + title,
		Type:       typ,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T {
	return &v
}

// requireAppError asserts that err is an AppError with the given code and message.
func requireAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	require.Equal(t, message, appErr.Message)
}

// userFinderStub is a stub for UserFinder.
type userFinderStub struct {
	getUserFn func(context.Context, uint) (*models.User, error)
}

func (s *userFinderStub) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.getUserFn(ctx, id)
}

func existingUsers() *userFinderStub {
	return &userFinderStub{
		getUserFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{Record: models.Record{ID: id}}, nil
		},
	}
}

func noUsers() *userFinderStub {
	return &userFinderStub{
		getUserFn: func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
	}
}

// categoryFinderStub is a stub for CategoryFinder.
type categoryFinderStub struct {
	getCategoryFn func(context.Context, uint) (*models.Category, error)
}

func (s *categoryFinderStub) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.getCategoryFn(ctx, id)
}

// postFinderStub is a stub for PostFinder.
type postFinderStub struct {
	getPostFn func(context.Context, uint) (*models.Post, error)
}

func (s *postFinderStub) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.getPostFn(ctx, id)
}
