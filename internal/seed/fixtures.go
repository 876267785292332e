package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/service"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo.yaml
var demoFixtures []byte

// Fixtures is a hand-written data set. Records reference each other by
// username, category title and post title.
type Fixtures struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Posts      []PostFixture     `yaml:"posts"`
	Comments   []CommentFixture  `yaml:"comments"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type CategoryFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
}

type PostFixture struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Type     string `yaml:"type"`
	Owner    string `yaml:"owner"`
	Category string `yaml:"category"`
}

// CommentFixture nests its replies.
type CommentFixture struct {
	Content string           `yaml:"content"`
	Owner   string           `yaml:"owner"`
	Post    string           `yaml:"post"`
	Replies []CommentFixture `yaml:"replies"`
}

// ParseFixtures decodes a YAML fixture document. Unknown keys are rejected.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fx, nil
}

// DemoFixtures returns the built-in demo data set.
func DemoFixtures() (*Fixtures, error) {
	return ParseFixtures(strings.NewReader(string(demoFixtures)))
}

// LoadFixtures writes fx through the entity services. Users without a
// password get DefaultPassword.
func (s *Seeder) LoadFixtures(ctx context.Context, fx *Fixtures) (*Result, error) {
	res := &Result{}
	users := map[string]*models.User{}
	categories := map[string]*models.Category{}
	posts := map[string]*models.Post{}

	for _, u := range fx.Users {
		password := u.Password
		if password == "" {
			password = DefaultPassword
		}
		user, err := s.users.CreateUser(ctx, service.CreateUserInput{
			Username: u.Username,
			Email:    u.Email,
			Password: password,
		})
		if err != nil {
			return res, fmt.Errorf("user %q: %w", u.Username, err)
		}
		users[user.Username] = user
		res.Users++
	}

	owner := func(username string) (*models.User, error) {
		user, ok := users[username]
		if !ok {
			return nil, fmt.Errorf("unknown user %q", username)
		}
		return user, nil
	}

	for _, c := range fx.Categories {
		user, err := owner(c.Owner)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", c.Title, err)
		}
		category, err := s.categories.CreateCategory(ctx, service.CreateCategoryInput{
			UserID:      user.ID,
			Title:       c.Title,
			Description: c.Description,
		})
		if err != nil {
			return res, fmt.Errorf("category %q: %w", c.Title, err)
		}
		categories[category.Title] = category
		res.Categories++
	}

	for _, p := range fx.Posts {
		user, err := owner(p.Owner)
		if err != nil {
			return res, fmt.Errorf("post %q: %w", p.Title, err)
		}
		category, ok := categories[p.Category]
		if !ok {
			return res, fmt.Errorf("post %q: unknown category %q", p.Title, p.Category)
		}
		ordinal, err := fixtureType(p.Type)
		if err != nil {
			return res, fmt.Errorf("post %q: %w", p.Title, err)
		}
		post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			UserID:     user.ID,
			CategoryID: category.ID,
			Title:      p.Title,
			Content:    p.Content,
			Type:       ordinal,
		})
		if err != nil {
			return res, fmt.Errorf("post %q: %w", p.Title, err)
		}
		posts[post.Title] = post
		res.Posts++
	}

	var addComment func(c CommentFixture, post *models.Post, parent *uint) error
	addComment = func(c CommentFixture, post *models.Post, parent *uint) error {
		user, err := owner(c.Owner)
		if err != nil {
			return err
		}
		comment, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
			UserID:  user.ID,
			PostID:  post.ID,
			Content: c.Content,
			ReplyID: parent,
		})
		if err != nil {
			return err
		}
		res.Comments++
		for _, reply := range c.Replies {
			if err := addComment(reply, post, &comment.ID); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range fx.Comments {
		post, ok := posts[c.Post]
		if !ok {
			return res, fmt.Errorf("comment on %q: unknown post", c.Post)
		}
		if err := addComment(c, post, nil); err != nil {
			return res, fmt.Errorf("comment on %q: %w", c.Post, err)
		}
	}

	middleware.Logger.InfoContext(ctx, "fixtures loaded",
		slog.Int("users", res.Users),
		slog.Int("categories", res.Categories),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

// fixtureType maps a post type label to its wire ordinal. Empty means Text.
func fixtureType(label string) (string, error) {
	switch models.PostType(strings.TrimSpace(label)) {
	case "", models.PostTypeText:
		return typeOrdinal(models.PostTypeText), nil
	case models.PostTypeURL:
		return typeOrdinal(models.PostTypeURL), nil
	default:
		return "", fmt.Errorf("unknown post type %q", label)
	}
}
