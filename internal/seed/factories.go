// Package seed provides helpers to create demo data for the forum database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"forum/internal/models"
	"forum/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Factory builds service inputs populated with fake data. Generated titles,
// usernames and emails carry a sequence suffix so they never collide.
type Factory struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
	seq   int
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// User builds a user input with DefaultPassword.
func (f *Factory) User(overrides ...func(*service.CreateUserInput)) service.CreateUserInput {
	n := f.next()
	in := service.CreateUserInput{
		Username: fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), n),
		Email:    fmt.Sprintf("user%d.%s", n, strings.ToLower(f.faker.Email())),
		Password: DefaultPassword,
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// Category builds a category input owned by user.
func (f *Factory) Category(user *models.User, overrides ...func(*service.CreateCategoryInput)) service.CreateCategoryInput {
	in := service.CreateCategoryInput{
		UserID:      user.ID,
		Title:       fmt.Sprintf("%s #%d", f.faker.Hobby(), f.next()),
		Description: f.faker.Sentence(8),
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// Post builds a post input. Roughly one post in four is a URL post whose
// content is a link.
func (f *Factory) Post(user *models.User, category *models.Category, overrides ...func(*service.CreatePostInput)) service.CreatePostInput {
	in := service.CreatePostInput{
		UserID:     user.ID,
		CategoryID: category.ID,
		Title:      fmt.Sprintf("%s (%d)", strings.TrimSuffix(f.faker.Sentence(5), "."), f.next()),
		Content:    f.faker.Paragraph(1, 3, 8, "\n"),
		Type:       typeOrdinal(models.PostTypeText),
	}
	if f.rng.Intn(4) == 0 {
		in.Type = typeOrdinal(models.PostTypeURL)
		in.Content = f.faker.URL()
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// Comment builds a comment input. A non-nil parent makes it a reply.
func (f *Factory) Comment(user *models.User, post *models.Post, parent *models.Comment, overrides ...func(*service.CreateCommentInput)) service.CreateCommentInput {
	in := service.CreateCommentInput{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: f.faker.Sentence(f.rng.Intn(12) + 3),
	}
	if parent != nil {
		id := parent.ID
		in.ReplyID = &id
	}
	for _, override := range overrides {
		override(&in)
	}
	return in
}

// typeOrdinal returns the wire ordinal the post service expects for t.
func typeOrdinal(t models.PostType) string {
	if t == models.PostTypeURL {
		return "1"
	}
	return "0"
}
